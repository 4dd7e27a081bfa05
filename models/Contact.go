package models

import "gorm.io/gorm"

// Contact enrichment statuses for the async Apify lookup.
const (
	EnrichmentNone      = ""
	EnrichmentPending   = "pending"
	EnrichmentCompleted = "completed"
	EnrichmentFailed    = "failed"
)

// Contact is a CRM record owned exclusively by the creating user.
type Contact struct {
	gorm.Model
	UserID           uint   `json:"userID" gorm:"index"`
	Name             string `json:"name"`
	ProfileURL       string `json:"profileURL"`
	JobTitle         string `json:"jobTitle"`
	Company          string `json:"company"`
	Email            string `json:"email"`
	EngagementType   string `json:"engagementType"` // liked, commented, shared, connection, manual
	PostURL          string `json:"postURL"`
	EnrichmentStatus string `json:"enrichmentStatus" gorm:"type:varchar(20)"`

	Owner *User         `json:"owner,omitempty" gorm:"foreignKey:UserID"`
	Notes []ContactNote `json:"notes,omitempty" gorm:"foreignKey:ContactID"`
}
