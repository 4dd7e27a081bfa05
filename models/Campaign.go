package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign statuses. Transitions are one-directional except active<->paused;
// stopped is terminal.
const (
	CampaignStatusDraft   = "draft"
	CampaignStatusActive  = "active"
	CampaignStatusPaused  = "paused"
	CampaignStatusStopped = "stopped"
)

type Campaign struct {
	gorm.Model
	UserID            uint       `json:"userID" gorm:"index"`
	Name              string     `json:"name"`
	Status            string     `json:"status" gorm:"type:varchar(20);default:draft;index"`
	ConnectionMessage string     `json:"connectionMessage"`
	FollowUpMessage   string     `json:"followUpMessage"`
	LinkedInAccountID string     `json:"linkedInAccountID"` // Unipile account id used for outreach
	StartedAt         *time.Time `json:"startedAt"`
	CompletedAt       *time.Time `json:"completedAt"`

	// Rollup counters, derived from campaign_contacts and recomputable at any time
	TotalContacts       int `json:"totalContacts"`
	ConnectionsSent     int `json:"connectionsSent"`
	ConnectionsAccepted int `json:"connectionsAccepted"`
	MessagesSent        int `json:"messagesSent"`
	RepliesReceived     int `json:"repliesReceived"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:UserID"`
}
