package models

import "gorm.io/gorm"

// CampaignActivity is an append-only log of campaign transitions and outreach
// events. Rows are never updated or deleted.
type CampaignActivity struct {
	gorm.Model
	CampaignID uint   `json:"campaignID" gorm:"index"`
	UserID     uint   `json:"userID"`
	Action     string `json:"action"` // started, paused, stopped, connection_sent, follow_up_sent, reply_received
	Details    string `json:"details"`
}
