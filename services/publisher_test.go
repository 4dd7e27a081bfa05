package services

import (
	"errors"
	"testing"

	"github.com/sray91/scriib-app-sub003/models"

	"gorm.io/datatypes"
)

type fakePublisher struct {
	calls []string
	err   error
}

func (f *fakePublisher) Publish(post *models.Post, account *models.SocialAccount) error {
	f.calls = append(f.calls, account.Platform)
	return f.err
}

func testAccounts() map[string]*models.SocialAccount {
	return map[string]*models.SocialAccount{
		"linkedin": {Platform: "linkedin", AccessToken: "tok", Active: true},
		"twitter":  {Platform: "twitter", AccessToken: "tok", Active: true},
	}
}

func TestPublishToPlatforms(t *testing.T) {
	post := &models.Post{Platforms: datatypes.JSON(`{"linkedin":true,"twitter":false}`)}
	fake := &fakePublisher{}
	publishers := map[string]PlatformPublisher{"linkedin": fake, "twitter": fake}

	if err := PublishToPlatforms(post, testAccounts(), publishers); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "linkedin" {
		t.Fatalf("expected single linkedin publish, got %v", fake.calls)
	}
}

func TestPublishToPlatformsNoPlatforms(t *testing.T) {
	post := &models.Post{Platforms: datatypes.JSON(`{}`)}
	if err := PublishToPlatforms(post, testAccounts(), map[string]PlatformPublisher{}); err == nil {
		t.Fatal("expected error when no platforms enabled")
	}
}

func TestPublishToPlatformsMissingAccount(t *testing.T) {
	post := &models.Post{Platforms: datatypes.JSON(`{"twitter":true}`)}
	fake := &fakePublisher{}
	publishers := map[string]PlatformPublisher{"twitter": fake}

	if err := PublishToPlatforms(post, map[string]*models.SocialAccount{}, publishers); err == nil {
		t.Fatal("expected error for missing account")
	}
	if len(fake.calls) != 0 {
		t.Fatalf("publisher should not be called without an account, got %v", fake.calls)
	}

	// Inactive account counts as disconnected
	accounts := testAccounts()
	accounts["twitter"].Active = false
	if err := PublishToPlatforms(post, accounts, publishers); err == nil {
		t.Fatal("expected error for inactive account")
	}
}

func TestPublishToPlatformsAdapterFailure(t *testing.T) {
	post := &models.Post{Platforms: datatypes.JSON(`{"linkedin":true}`)}
	fake := &fakePublisher{err: errors.New("boom")}
	publishers := map[string]PlatformPublisher{"linkedin": fake}

	err := PublishToPlatforms(post, testAccounts(), publishers)
	if err == nil {
		t.Fatal("expected adapter error to propagate")
	}
}

func TestPublishOutcome(t *testing.T) {
	post := &models.Post{Platforms: datatypes.JSON(`{"linkedin":true}`)}

	status, msg := publishOutcome(post, testAccounts(), map[string]PlatformPublisher{"linkedin": &fakePublisher{}})
	if status != models.PostStatusPublished || msg != "" {
		t.Fatalf("successful publish = (%q, %q), want (published, empty)", status, msg)
	}

	status, msg = publishOutcome(post, testAccounts(), map[string]PlatformPublisher{"linkedin": &fakePublisher{err: errors.New("boom")}})
	if status != models.PostStatusFailed || msg == "" {
		t.Fatalf("failed publish = (%q, %q), want (failed, non-empty)", status, msg)
	}

	// A claimed post resolves to exactly published or failed, never anything else
	for _, publishers := range []map[string]PlatformPublisher{
		{"linkedin": &fakePublisher{}},
		{"linkedin": &fakePublisher{err: errors.New("boom")}},
		{},
	} {
		status, _ := publishOutcome(post, testAccounts(), publishers)
		if status != models.PostStatusPublished && status != models.PostStatusFailed {
			t.Fatalf("outcome %q is not a terminal state", status)
		}
	}
}

func TestProviderIDFromProfileURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe/", "jane-doe"},
		{"https://www.linkedin.com/in/jane-doe", "jane-doe"},
		{"jane-doe", "jane-doe"},
	}
	for _, c := range cases {
		if got := providerIDFromProfileURL(c.in); got != c.want {
			t.Errorf("providerIDFromProfileURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
