package models

import (
	"time"

	"gorm.io/gorm"
)

// SocialAccount holds a publish credential for one platform. The sweep looks
// these up when pushing a due post out.
type SocialAccount struct {
	gorm.Model
	UserID       uint       `json:"userID" gorm:"index:idx_user_platform,unique"`
	Platform     string     `json:"platform" gorm:"type:varchar(20);index:idx_user_platform,unique"` // linkedin, twitter
	AccountID    string     `json:"accountID"`   // platform-side id (URN, user id)
	ScreenName   string     `json:"screenName"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	Active       bool       `json:"active" gorm:"default:true"`

	Owner *User `json:"owner,omitempty" gorm:"foreignKey:UserID"`
}
