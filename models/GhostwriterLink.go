package models

import (
	"time"

	"gorm.io/gorm"
)

// GhostwriterLink ties a content producer to a reviewer. Links are never
// hard-deleted: revoking sets Active=false and stamps RevokedAt, and creating
// the same pair again reactivates the existing row.
type GhostwriterLink struct {
	gorm.Model
	GhostwriterID uint       `json:"ghostwriterID" gorm:"index:idx_gw_approver,unique"`
	ApproverID    uint       `json:"approverID" gorm:"index:idx_gw_approver,unique"`
	Active        bool       `json:"active" gorm:"default:true"`
	RevokedAt     *time.Time `json:"revokedAt"`

	Ghostwriter *User `json:"ghostwriter,omitempty" gorm:"foreignKey:GhostwriterID"`
	Approver    *User `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
}
