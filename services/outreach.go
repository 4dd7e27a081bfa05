package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sray91/scriib-app-sub003/models"
	"github.com/sray91/scriib-app-sub003/storage"
)

// OutreachRunner dispatches connection requests and follow-ups for active
// campaigns through Unipile. Like the publish sweep it is stateless and
// triggered externally; each invocation works through a bounded batch.
type OutreachRunner struct {
	unipile   *UnipileService
	anthropic *AnthropicService
	batchSize int
}

func NewOutreachRunner() *OutreachRunner {
	return &OutreachRunner{
		unipile:   NewUnipileService(),
		anthropic: NewAnthropicService(),
		batchSize: 20,
	}
}

// outreachStepFor maps a contact's funnel status to its next send: pending
// contacts get the connection request, connected contacts get the follow-up
// when the campaign has one. Everything else has nothing due.
func outreachStepFor(cc *models.CampaignContact, campaign *models.Campaign) (claimTo string, template string, ok bool) {
	switch cc.Status {
	case models.CampaignContactPending:
		return models.CampaignContactConnectionSent, campaign.ConnectionMessage, true
	case models.CampaignContactConnected:
		if strings.TrimSpace(campaign.FollowUpMessage) == "" {
			return "", "", false
		}
		return models.CampaignContactFollowUpSent, campaign.FollowUpMessage, true
	}
	return "", "", false
}

// ProcessCampaign sends due connection requests and follow-ups for one
// active campaign. Contacts are claimed one by one with a conditional update
// so overlapping runs cannot double-send; a failed send rolls the claim back
// for a later run.
func (or *OutreachRunner) ProcessCampaign(campaign *models.Campaign) (sent int, err error) {
	if campaign.Status != models.CampaignStatusActive {
		return 0, fmt.Errorf("campaign %d is not active", campaign.ID)
	}

	var due []models.CampaignContact
	if err := storage.DB.
		Preload("Contact").
		Where("campaign_id = ? AND status IN ?", campaign.ID,
			[]string{models.CampaignContactPending, models.CampaignContactConnected}).
		Limit(or.batchSize).
		Find(&due).Error; err != nil {
		return 0, err
	}

	for i := range due {
		cc := &due[i]
		if cc.Contact == nil || cc.Contact.ProfileURL == "" {
			continue
		}

		claimTo, template, ok := outreachStepFor(cc, campaign)
		if !ok {
			continue
		}

		claim := storage.DB.Model(&models.CampaignContact{}).
			Where("id = ? AND status = ?", cc.ID, cc.Status).
			Update("status", claimTo)
		if claim.Error != nil || claim.RowsAffected == 0 {
			continue
		}

		message := or.personalize(template, cc.Contact)
		sendErr := or.dispatch(campaign, cc, claimTo, message)
		if sendErr != nil {
			// Roll the claim back so the contact is retried by a later run
			storage.DB.Model(&models.CampaignContact{}).
				Where("id = ?", cc.ID).
				Update("status", cc.Status)
			log.Printf("outreach: campaign %d contact %d: %v", campaign.ID, cc.ContactID, sendErr)
			continue
		}

		now := time.Now()
		storage.DB.Model(&models.CampaignContact{}).Where("id = ?", cc.ID).Update("sent_at", now)

		activity := models.CampaignActivity{
			CampaignID: campaign.ID,
			UserID:     campaign.UserID,
			Action:     claimTo,
			Details:    fmt.Sprintf("%s to contact %d", claimTo, cc.ContactID),
		}
		storage.DB.Create(&activity)
		sent++
	}

	return sent, nil
}

// dispatch routes the send to the right Unipile call. Connection requests go
// out as invitations; follow-ups open a chat on first send and reuse it
// afterwards.
func (or *OutreachRunner) dispatch(campaign *models.Campaign, cc *models.CampaignContact, claimTo, message string) error {
	providerID := providerIDFromProfileURL(cc.Contact.ProfileURL)

	if claimTo == models.CampaignContactConnectionSent {
		return or.unipile.SendConnectionRequest(campaign.LinkedInAccountID, providerID, message)
	}

	if cc.ChatID != "" {
		return or.unipile.SendChatMessage(cc.ChatID, message)
	}
	chatID, err := or.unipile.StartChat(campaign.LinkedInAccountID, providerID, message)
	if err != nil {
		return err
	}
	storage.DB.Model(&models.CampaignContact{}).Where("id = ?", cc.ID).Update("chat_id", chatID)
	return nil
}

// personalize substitutes template fields and, when Anthropic is configured,
// rewrites the message for the specific contact. Falls back to the template
// on any failure.
func (or *OutreachRunner) personalize(template string, contact *models.Contact) string {
	message := strings.NewReplacer(
		"{{name}}", contact.Name,
		"{{company}}", contact.Company,
		"{{jobTitle}}", contact.JobTitle,
	).Replace(template)

	rewritten, err := or.anthropic.GenerateText(
		"You personalize LinkedIn connection notes. Keep them under 280 characters, warm and specific. Reply with the note only.",
		fmt.Sprintf("Note template: %q\nRecipient: %s, %s at %s", message, contact.Name, contact.JobTitle, contact.Company),
	)
	if err != nil || strings.TrimSpace(rewritten) == "" {
		return message
	}
	return strings.TrimSpace(rewritten)
}

// providerIDFromProfileURL extracts the public identifier from a LinkedIn
// profile URL (the trailing path segment).
func providerIDFromProfileURL(profileURL string) string {
	trimmed := strings.TrimRight(profileURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx == -1 {
		return trimmed
	}
	return trimmed[idx+1:]
}
