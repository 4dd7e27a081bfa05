package models

import "gorm.io/gorm"

type ContactNote struct {
	gorm.Model
	ContactID uint   `json:"contactID" gorm:"index"`
	UserID    uint   `json:"userID"`
	Body      string `json:"body"`
}
