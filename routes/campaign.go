package routes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/services"
	"github.com/sray91/scriib-app-sub003/storage"
	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

type CreateCampaignInput struct {
	Name              string `json:"name" validate:"required,max=256"`
	ConnectionMessage string `json:"connectionMessage"`
	FollowUpMessage   string `json:"followUpMessage"`
	LinkedInAccountID string `json:"linkedInAccountID"`
}

func CreateCampaign(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input CreateCampaignInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	campaign := models.Campaign{
		UserID:            claims.ID,
		Name:              input.Name,
		Status:            models.CampaignStatusDraft,
		ConnectionMessage: input.ConnectionMessage,
		FollowUpMessage:   input.FollowUpMessage,
		LinkedInAccountID: input.LinkedInAccountID,
	}
	if err := storage.DB.Create(&campaign).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(campaign)
}

func ListCampaigns(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var campaigns []models.Campaign
	if err := storage.DB.Where("user_id = ?", claims.ID).Order("created_at DESC").Find(&campaigns).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(campaigns)
}

func GetCampaign(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	ctx.JSON(campaign)
}

type UpdateCampaignInput struct {
	Name              string `json:"name"`
	ConnectionMessage string `json:"connectionMessage"`
	FollowUpMessage   string `json:"followUpMessage"`
	LinkedInAccountID string `json:"linkedInAccountID"`
}

func UpdateCampaign(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	if campaign.Status == models.CampaignStatusStopped {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Stopped campaigns cannot be edited.", ctx)
		return
	}

	var input UpdateCampaignInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != "" {
		campaign.Name = input.Name
	}
	if input.ConnectionMessage != "" {
		campaign.ConnectionMessage = input.ConnectionMessage
	}
	if input.FollowUpMessage != "" {
		campaign.FollowUpMessage = input.FollowUpMessage
	}
	if input.LinkedInAccountID != "" {
		campaign.LinkedInAccountID = input.LinkedInAccountID
	}

	if err := storage.DB.Save(campaign).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(campaign)
}

// validateCampaignStart is the start guard: status must allow starting, the
// connection message must be non-empty, a LinkedIn account must be assigned
// and active, and at least one contact must be attached. Any failure leaves
// the campaign untouched.
func validateCampaignStart(campaign *models.Campaign, accountActive bool, contactCount int64) error {
	if campaign.Status != models.CampaignStatusDraft && campaign.Status != models.CampaignStatusPaused {
		return fmt.Errorf("campaign cannot be started from status %q", campaign.Status)
	}
	if strings.TrimSpace(campaign.ConnectionMessage) == "" {
		return errors.New("connection message is empty")
	}
	if campaign.LinkedInAccountID == "" {
		return errors.New("no LinkedIn account assigned")
	}
	if !accountActive {
		return errors.New("assigned LinkedIn account is not active")
	}
	if contactCount < 1 {
		return errors.New("campaign has no contacts")
	}
	return nil
}

// StartCampaign runs the start guard and flips the campaign to active. The
// final write is conditional on the status still being startable, so a
// concurrent transition between guard and write loses cleanly.
func StartCampaign(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	var contactCount int64
	storage.DB.Model(&models.CampaignContact{}).Where("campaign_id = ?", campaign.ID).Count(&contactCount)

	accountActive := false
	if campaign.LinkedInAccountID != "" {
		unipile := services.NewUnipileService()
		active, accountErr := unipile.IsAccountActive(campaign.LinkedInAccountID)
		if accountErr != nil {
			utils.CreateError(iris.StatusBadGateway, "Upstream Error", accountErr.Error(), ctx)
			return
		}
		accountActive = active
	}

	if err := validateCampaignStart(campaign, accountActive, contactCount); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Guard Error", err.Error(), ctx)
		return
	}

	now := time.Now()
	res := storage.DB.Model(&models.Campaign{}).
		Where("id = ? AND status IN ?", campaign.ID, []string{models.CampaignStatusDraft, models.CampaignStatusPaused}).
		Updates(map[string]interface{}{
			"status":         models.CampaignStatusActive,
			"started_at":     now,
			"total_contacts": contactCount,
		})
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Campaign status changed concurrently.", ctx)
		return
	}

	appendCampaignActivity(campaign.ID, claims.ID, "started", "campaign started")

	storage.DB.First(campaign, campaign.ID)
	ctx.JSON(campaign)
}

// PauseCampaign: active -> paused.
func PauseCampaign(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	res := storage.DB.Model(&models.Campaign{}).
		Where("id = ? AND status = ?", campaign.ID, models.CampaignStatusActive).
		Update("status", models.CampaignStatusPaused)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusBadRequest, "Guard Error",
			fmt.Sprintf("campaign cannot be paused from status %q", campaign.Status), ctx)
		return
	}

	appendCampaignActivity(campaign.ID, claims.ID, "paused", "campaign paused")

	storage.DB.First(campaign, campaign.ID)
	ctx.JSON(campaign)
}

// StopCampaign: active|paused -> stopped. Terminal.
func StopCampaign(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	now := time.Now()
	res := storage.DB.Model(&models.Campaign{}).
		Where("id = ? AND status IN ?", campaign.ID, []string{models.CampaignStatusActive, models.CampaignStatusPaused}).
		Updates(map[string]interface{}{
			"status":       models.CampaignStatusStopped,
			"completed_at": now,
		})
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusBadRequest, "Guard Error",
			fmt.Sprintf("campaign cannot be stopped from status %q", campaign.Status), ctx)
		return
	}

	appendCampaignActivity(campaign.ID, claims.ID, "stopped", "campaign stopped")

	storage.DB.First(campaign, campaign.ID)
	ctx.JSON(campaign)
}

type AddCampaignContactsInput struct {
	ContactIDs []uint `json:"contactIDs" validate:"required,min=1"`
}

// AddCampaignContacts attaches owned CRM contacts to a campaign; duplicates
// are skipped.
func AddCampaignContacts(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	if campaign.Status == models.CampaignStatusStopped {
		utils.CreateError(iris.StatusBadRequest, "Status Error", "Stopped campaigns cannot be edited.", ctx)
		return
	}

	var input AddCampaignContactsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	added := 0
	for _, contactID := range input.ContactIDs {
		var contact models.Contact
		if err := storage.DB.Where("id = ? AND user_id = ?", contactID, claims.ID).First(&contact).Error; err != nil {
			continue
		}

		cc := models.CampaignContact{
			CampaignID: campaign.ID,
			ContactID:  contactID,
			Status:     models.CampaignContactPending,
		}
		res := storage.DB.
			Where("campaign_id = ? AND contact_id = ?", campaign.ID, contactID).
			FirstOrCreate(&cc)
		if res.Error == nil && res.RowsAffected > 0 {
			added++
		}
	}

	storage.DB.Model(campaign).Update("total_contacts", countCampaignContacts(campaign.ID))

	ctx.JSON(iris.Map{"success": true, "added": added})
}

func ListCampaignContacts(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	var contacts []models.CampaignContact
	if err := storage.DB.
		Preload("Contact").
		Where("campaign_id = ?", campaign.ID).
		Order("created_at ASC").
		Find(&contacts).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(contacts)
}

type UpdateCampaignContactInput struct {
	Status string `json:"status" validate:"required,oneof=pending connection_sent connected follow_up_sent replied"`
}

// UpdateCampaignContactStatus records funnel progress for one contact (fed by
// Unipile webhook relays or manual correction) and refreshes the rollups.
func UpdateCampaignContactStatus(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	contactRowID, err := ctx.Params().GetUint("contactID")
	if err != nil {
		ctx.StopWithStatus(iris.StatusBadRequest)
		return
	}

	var input UpdateCampaignContactInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var cc models.CampaignContact
	if err := storage.DB.Where("id = ? AND campaign_id = ?", contactRowID, campaign.ID).First(&cc).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	cc.Status = input.Status
	if input.Status == models.CampaignContactReplied && cc.RepliedAt == nil {
		now := time.Now()
		cc.RepliedAt = &now
	}
	if err := storage.DB.Save(&cc).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if input.Status == models.CampaignContactReplied {
		appendCampaignActivity(campaign.ID, claims.ID, "reply_received",
			fmt.Sprintf("contact %d replied", cc.ContactID))
		notificationService := services.NewNotificationService()
		go notificationService.NotifyWithSMS(campaign.UserID, "Campaign reply",
			"A contact replied to your outreach campaign.", "campaign_reply", campaign.ID, "campaign")
	}

	recomputeCampaignRollups(campaign)

	ctx.JSON(cc)
}

// RecomputeCampaignStats rebuilds the rollup counters from campaign_contacts.
// Safe to call any number of times; recomputing twice without intervening
// writes yields identical totals.
func RecomputeCampaignStats(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	if err := recomputeCampaignRollups(campaign); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.First(campaign, campaign.ID)
	ctx.JSON(campaign)
}

func ListCampaignActivity(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	campaign, ok := loadOwnCampaign(ctx, claims.ID)
	if !ok {
		return
	}

	var activity []models.CampaignActivity
	storage.DB.Where("campaign_id = ?", campaign.ID).Order("created_at DESC").Find(&activity)
	ctx.JSON(activity)
}

// campaignRollups are the derived counters; computed from contact statuses only.
type campaignRollups struct {
	TotalContacts       int
	ConnectionsSent     int
	ConnectionsAccepted int
	MessagesSent        int
	RepliesReceived     int
}

// computeCampaignRollups derives the counters from contact rows. Statuses are
// cumulative down the funnel: a replied contact was necessarily sent a
// connection, accepted it, and was messaged.
func computeCampaignRollups(contacts []models.CampaignContact) campaignRollups {
	var rollups campaignRollups
	rollups.TotalContacts = len(contacts)
	for _, cc := range contacts {
		switch cc.Status {
		case models.CampaignContactConnectionSent:
			rollups.ConnectionsSent++
		case models.CampaignContactConnected:
			rollups.ConnectionsSent++
			rollups.ConnectionsAccepted++
		case models.CampaignContactFollowUpSent:
			rollups.ConnectionsSent++
			rollups.ConnectionsAccepted++
			rollups.MessagesSent++
		case models.CampaignContactReplied:
			rollups.ConnectionsSent++
			rollups.ConnectionsAccepted++
			rollups.MessagesSent++
			rollups.RepliesReceived++
		}
	}
	return rollups
}

func recomputeCampaignRollups(campaign *models.Campaign) error {
	var contacts []models.CampaignContact
	if err := storage.DB.Where("campaign_id = ?", campaign.ID).Find(&contacts).Error; err != nil {
		return err
	}

	rollups := computeCampaignRollups(contacts)
	return storage.DB.Model(&models.Campaign{}).
		Where("id = ?", campaign.ID).
		Updates(map[string]interface{}{
			"total_contacts":       rollups.TotalContacts,
			"connections_sent":     rollups.ConnectionsSent,
			"connections_accepted": rollups.ConnectionsAccepted,
			"messages_sent":        rollups.MessagesSent,
			"replies_received":     rollups.RepliesReceived,
		}).Error
}

func countCampaignContacts(campaignID uint) int64 {
	var count int64
	storage.DB.Model(&models.CampaignContact{}).Where("campaign_id = ?", campaignID).Count(&count)
	return count
}

func appendCampaignActivity(campaignID, userID uint, action, details string) {
	activity := models.CampaignActivity{
		CampaignID: campaignID,
		UserID:     userID,
		Action:     action,
		Details:    details,
	}
	storage.DB.Create(&activity)
}

func loadOwnCampaign(ctx iris.Context, userID uint) (*models.Campaign, bool) {
	campaignID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithStatus(iris.StatusBadRequest)
		return nil, false
	}

	var campaign models.Campaign
	if err := storage.DB.Where("id = ? AND user_id = ?", campaignID, userID).First(&campaign).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	return &campaign, true
}
