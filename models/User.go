package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber"`
	PhoneVerified       *bool          `json:"phoneVerified"`
	Password            string         `json:"-"`
	ClerkID             string         `json:"clerkID" gorm:"uniqueIndex"` // identity-provider subject, set on first sign-in, never mutated
	SocialLogin         bool           `json:"socialLogin"`
	AvatarURL           string         `json:"avatarURL"`
	Bio                 string         `json:"bio"`
	Headline            string         `json:"headline"`
	Timezone            string         `json:"timezone"`
	ContentPillars      datatypes.JSON `json:"contentPillars"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Role                string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin, super_admin
}

// Custom JSON marshaling so JSONB fields come out as arrays, not raw bytes
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		ContentPillars []string `json:"contentPillars,omitempty"`
		*Alias
	}{
		ContentPillars: []string{},
		Alias:          (*Alias)(u),
	}

	if u.ContentPillars != nil {
		var pillars []string
		if err := json.Unmarshal(u.ContentPillars, &pillars); err == nil {
			aux.ContentPillars = pillars
		}
	}

	return json.Marshal(aux)
}
