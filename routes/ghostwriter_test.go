package routes

import (
	"testing"
	"time"

	"github.com/sray91/scriib-app-sub003/models"
)

func TestLinkCreateAction(t *testing.T) {
	if got := linkCreateAction(nil); got != linkCreateNew {
		t.Fatalf("no existing row should create, got %d", got)
	}

	active := &models.GhostwriterLink{Active: true}
	if got := linkCreateAction(active); got != linkConflict {
		t.Fatalf("active row should conflict, got %d", got)
	}

	revokedAt := time.Now()
	revoked := &models.GhostwriterLink{Active: false, RevokedAt: &revokedAt}
	if got := linkCreateAction(revoked); got != linkReactivate {
		t.Fatalf("revoked row should reactivate, got %d", got)
	}
}

func TestReactivateLinkReusesRow(t *testing.T) {
	revokedAt := time.Now()
	link := models.GhostwriterLink{Active: false, RevokedAt: &revokedAt}
	link.ID = 42

	reactivateLink(&link)

	if !link.Active {
		t.Fatal("reactivated link should be active")
	}
	if link.RevokedAt != nil {
		t.Fatal("reactivation should clear RevokedAt")
	}
	if link.ID != 42 {
		t.Fatalf("reactivation must reuse the existing row, id changed to %d", link.ID)
	}

	// Revoke-then-recreate converges: a second create on the now-active row
	// conflicts instead of inserting a duplicate
	if got := linkCreateAction(&link); got != linkConflict {
		t.Fatalf("recreating an active pair should conflict, got %d", got)
	}
}
