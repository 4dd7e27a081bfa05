package models

import "gorm.io/gorm"

// AuditLog records admin mutations with before/after snapshots.
type AuditLog struct {
	gorm.Model
	AdminUserID  uint   `json:"adminUserID" gorm:"index"`
	Action       string `json:"action"`
	ResourceType string `json:"resourceType"`
	ResourceID   uint   `json:"resourceID"`
	BeforeJSON   string `json:"beforeJSON"`
	AfterJSON    string `json:"afterJSON"`
	IPAddress    string `json:"ipAddress"`
}
