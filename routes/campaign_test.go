package routes

import (
	"testing"

	"github.com/sray91/scriib-app-sub003/models"
)

func startableCampaign() *models.Campaign {
	return &models.Campaign{
		Status:            models.CampaignStatusDraft,
		ConnectionMessage: "Hi {{name}}, let's connect",
		LinkedInAccountID: "acc_123",
	}
}

func TestValidateCampaignStart(t *testing.T) {
	if err := validateCampaignStart(startableCampaign(), true, 5); err != nil {
		t.Fatalf("startable campaign rejected: %v", err)
	}

	paused := startableCampaign()
	paused.Status = models.CampaignStatusPaused
	if err := validateCampaignStart(paused, true, 5); err != nil {
		t.Fatalf("paused campaign should be startable: %v", err)
	}

	cases := []struct {
		name          string
		mutate        func(*models.Campaign)
		accountActive bool
		contacts      int64
	}{
		{"already active", func(c *models.Campaign) { c.Status = models.CampaignStatusActive }, true, 5},
		{"stopped", func(c *models.Campaign) { c.Status = models.CampaignStatusStopped }, true, 5},
		{"empty message", func(c *models.Campaign) { c.ConnectionMessage = "   " }, true, 5},
		{"no account", func(c *models.Campaign) { c.LinkedInAccountID = "" }, true, 5},
		{"inactive account", func(c *models.Campaign) {}, false, 5},
		{"no contacts", func(c *models.Campaign) {}, true, 0},
	}
	for _, c := range cases {
		campaign := startableCampaign()
		c.mutate(campaign)
		if err := validateCampaignStart(campaign, c.accountActive, c.contacts); err == nil {
			t.Errorf("%s: expected start to be rejected", c.name)
		}
	}
}

func TestComputeCampaignRollups(t *testing.T) {
	contacts := []models.CampaignContact{
		{Status: models.CampaignContactPending},
		{Status: models.CampaignContactConnectionSent},
		{Status: models.CampaignContactConnected},
		{Status: models.CampaignContactFollowUpSent},
		{Status: models.CampaignContactReplied},
	}

	got := computeCampaignRollups(contacts)
	want := campaignRollups{
		TotalContacts:       5,
		ConnectionsSent:     4,
		ConnectionsAccepted: 3,
		MessagesSent:        2,
		RepliesReceived:     1,
	}
	if got != want {
		t.Fatalf("rollups = %+v, want %+v", got, want)
	}

	// Recomputing from the same rows is idempotent
	if again := computeCampaignRollups(contacts); again != got {
		t.Fatalf("recompute changed result: %+v vs %+v", again, got)
	}

	empty := computeCampaignRollups(nil)
	if empty != (campaignRollups{}) {
		t.Fatalf("expected zero rollups for no contacts, got %+v", empty)
	}
}
