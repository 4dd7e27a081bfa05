package services

import (
	"testing"

	"github.com/sray91/scriib-app-sub003/models"
)

func TestOutreachStepFor(t *testing.T) {
	campaign := &models.Campaign{
		ConnectionMessage: "Hi {{name}}",
		FollowUpMessage:   "Thanks for connecting, {{name}}",
	}

	cases := []struct {
		status       string
		wantClaim    string
		wantTemplate string
		wantOK       bool
	}{
		{models.CampaignContactPending, models.CampaignContactConnectionSent, campaign.ConnectionMessage, true},
		{models.CampaignContactConnected, models.CampaignContactFollowUpSent, campaign.FollowUpMessage, true},
		{models.CampaignContactConnectionSent, "", "", false},
		{models.CampaignContactFollowUpSent, "", "", false},
		{models.CampaignContactReplied, "", "", false},
	}
	for _, c := range cases {
		cc := &models.CampaignContact{Status: c.status}
		claim, template, ok := outreachStepFor(cc, campaign)
		if ok != c.wantOK || claim != c.wantClaim || template != c.wantTemplate {
			t.Errorf("outreachStepFor(%s) = (%q, %q, %v), want (%q, %q, %v)",
				c.status, claim, template, ok, c.wantClaim, c.wantTemplate, c.wantOK)
		}
	}
}

func TestOutreachStepForNoFollowUpMessage(t *testing.T) {
	campaign := &models.Campaign{ConnectionMessage: "Hi", FollowUpMessage: "   "}
	cc := &models.CampaignContact{Status: models.CampaignContactConnected}

	if _, _, ok := outreachStepFor(cc, campaign); ok {
		t.Fatal("connected contact should have nothing due when the campaign has no follow-up message")
	}

	// The connection leg is unaffected
	cc.Status = models.CampaignContactPending
	if _, _, ok := outreachStepFor(cc, campaign); !ok {
		t.Fatal("pending contact should still get a connection request")
	}
}
