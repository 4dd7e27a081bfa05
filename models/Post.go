package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post statuses. A post only changes status through an explicit user action
// or the scheduled-publish sweep; "publishing" is the sweep's claim marker.
const (
	PostStatusDraft           = "draft"
	PostStatusPendingApproval = "pending_approval"
	PostStatusScheduled       = "scheduled"
	PostStatusPublishing      = "publishing"
	PostStatusPublished       = "published"
	PostStatusFailed          = "failed"
	PostStatusRejected        = "rejected"
	PostStatusArchived        = "archived"
)

type Post struct {
	gorm.Model
	UserID        uint           `json:"userID" gorm:"index"` // owner
	ApproverID    *uint          `json:"approverID" gorm:"index"`
	GhostwriterID *uint          `json:"ghostwriterID" gorm:"index"`
	Content       string         `json:"content"`
	Status        string         `json:"status" gorm:"type:varchar(20);default:draft;index"`
	ScheduledTime *time.Time     `json:"scheduledTime"`
	Platforms     datatypes.JSON `json:"platforms"` // map of platform name -> enabled
	Archived      bool           `json:"archived"`
	ErrorMessage  string         `json:"errorMessage"`
	EditedAt      *time.Time     `json:"editedAt"`

	// Relationships
	Owner       *User `json:"owner,omitempty" gorm:"foreignKey:UserID"`
	Approver    *User `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
	Ghostwriter *User `json:"ghostwriter,omitempty" gorm:"foreignKey:GhostwriterID"`
}

// EnabledPlatforms returns the platform names flagged true in Platforms.
func (p *Post) EnabledPlatforms() []string {
	enabled := []string{}
	if p.Platforms == nil {
		return enabled
	}
	var flags map[string]bool
	if err := json.Unmarshal(p.Platforms, &flags); err != nil {
		return enabled
	}
	for name, on := range flags {
		if on {
			enabled = append(enabled, name)
		}
	}
	return enabled
}

// CanBeActedOnBy reports whether userID is one of the three identities on the
// record (owner, approver, ghostwriter). Every post mutation checks this first.
func (p *Post) CanBeActedOnBy(userID uint) bool {
	if p.UserID == userID {
		return true
	}
	if p.ApproverID != nil && *p.ApproverID == userID {
		return true
	}
	if p.GhostwriterID != nil && *p.GhostwriterID == userID {
		return true
	}
	return false
}
