package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"index"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // approval_request, post_approved, post_rejected, post_failed, campaign_reply
	RefID   uint   `json:"refID"`
	RefType string `json:"refType"` // post, campaign
	IsRead  bool   `json:"isRead"`
}
