package services

import (
	"log"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/storage"
)

// NotificationService handles in-app notifications and optional SMS alerts.
type NotificationService struct {
	twilio *TwilioService
}

func NewNotificationService() *NotificationService {
	return &NotificationService{twilio: NewTwilioService()}
}

// Notify writes an in-app notification row for the user.
func (ns *NotificationService) Notify(userID uint, title, message, notifType string, refID uint, refType string) {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		RefID:   refID,
		RefType: refType,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("notification create failed for user %d: %v", userID, err)
	}
}

// NotifyWithSMS writes the in-app row and additionally sends an SMS when the
// user has a verified phone number and allows notifications.
func (ns *NotificationService) NotifyWithSMS(userID uint, title, message, notifType string, refID uint, refType string) {
	ns.Notify(userID, title, message, notifType, refID, refType)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return
	}
	if user.PhoneNumber == "" || user.PhoneVerified == nil || !*user.PhoneVerified {
		return
	}
	if user.AllowsNotifications != nil && !*user.AllowsNotifications {
		return
	}

	if err := ns.twilio.SendSMS(user.PhoneNumber, title+": "+message); err != nil {
		log.Printf("sms alert failed for user %d: %v", userID, err)
	}
}
