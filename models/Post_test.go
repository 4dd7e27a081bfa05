package models

import (
	"testing"

	"gorm.io/datatypes"
)

func uintPtr(v uint) *uint { return &v }

func TestCanBeActedOnBy(t *testing.T) {
	post := Post{
		UserID:        1,
		ApproverID:    uintPtr(2),
		GhostwriterID: uintPtr(3),
	}

	cases := []struct {
		userID uint
		want   bool
	}{
		{1, true},  // owner
		{2, true},  // approver
		{3, true},  // ghostwriter
		{4, false}, // stranger
		{0, false},
	}
	for _, c := range cases {
		if got := post.CanBeActedOnBy(c.userID); got != c.want {
			t.Errorf("CanBeActedOnBy(%d) = %v, want %v", c.userID, got, c.want)
		}
	}

	// No approver or ghostwriter set
	bare := Post{UserID: 7}
	if !bare.CanBeActedOnBy(7) {
		t.Error("owner should always pass")
	}
	if bare.CanBeActedOnBy(2) {
		t.Error("unset approver should not match")
	}
}

func TestEnabledPlatforms(t *testing.T) {
	post := Post{Platforms: datatypes.JSON(`{"linkedin":true,"twitter":false}`)}
	enabled := post.EnabledPlatforms()
	if len(enabled) != 1 || enabled[0] != "linkedin" {
		t.Fatalf("expected [linkedin], got %v", enabled)
	}

	empty := Post{}
	if got := empty.EnabledPlatforms(); len(got) != 0 {
		t.Fatalf("expected no platforms on empty post, got %v", got)
	}

	malformed := Post{Platforms: datatypes.JSON(`not json`)}
	if got := malformed.EnabledPlatforms(); len(got) != 0 {
		t.Fatalf("expected no platforms on malformed JSON, got %v", got)
	}
}
