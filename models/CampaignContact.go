package models

import (
	"time"

	"gorm.io/gorm"
)

// CampaignContact statuses follow the outreach funnel.
const (
	CampaignContactPending        = "pending"
	CampaignContactConnectionSent = "connection_sent"
	CampaignContactConnected      = "connected"
	CampaignContactFollowUpSent   = "follow_up_sent"
	CampaignContactReplied        = "replied"
)

type CampaignContact struct {
	gorm.Model
	CampaignID uint       `json:"campaignID" gorm:"index:idx_campaign_contact,unique"`
	ContactID  uint       `json:"contactID" gorm:"index:idx_campaign_contact,unique"`
	Status     string     `json:"status" gorm:"type:varchar(20);default:pending;index"`
	ChatID     string     `json:"chatID"` // Unipile chat, set when the first follow-up opens one
	SentAt     *time.Time `json:"sentAt"`
	RepliedAt  *time.Time `json:"repliedAt"`

	Campaign *Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
	Contact  *Contact  `json:"contact,omitempty" gorm:"foreignKey:ContactID"`
}
