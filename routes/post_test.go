package routes

import (
	"encoding/json"
	"testing"

	"github.com/sray91/scriib-app-sub003/models"
)

func TestMarshalPlatforms(t *testing.T) {
	data, err := marshalPlatforms(map[string]bool{"linkedin": true, "twitter": false})
	if err != nil {
		t.Fatalf("valid platforms rejected: %v", err)
	}
	var flags map[string]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !flags["linkedin"] || flags["twitter"] {
		t.Fatalf("flags round-tripped wrong: %v", flags)
	}

	if _, err := marshalPlatforms(map[string]bool{"facebook": true}); err == nil {
		t.Fatal("unsupported platform accepted")
	}

	// nil map is treated as "no platforms selected"
	data, err = marshalPlatforms(nil)
	if err != nil {
		t.Fatalf("nil platforms rejected: %v", err)
	}
	if string(data) != "{}" {
		t.Fatalf("expected empty object for nil, got %s", data)
	}
}

func TestStatusAfterEdit(t *testing.T) {
	cases := []struct {
		current     string
		rescheduled bool
		want        string
	}{
		{models.PostStatusFailed, true, models.PostStatusScheduled},
		{models.PostStatusFailed, false, models.PostStatusFailed},
		{models.PostStatusDraft, true, models.PostStatusDraft},
		{models.PostStatusScheduled, true, models.PostStatusScheduled},
		{models.PostStatusPendingApproval, true, models.PostStatusPendingApproval},
	}
	for _, c := range cases {
		if got := statusAfterEdit(c.current, c.rescheduled); got != c.want {
			t.Errorf("statusAfterEdit(%s, %v) = %s, want %s", c.current, c.rescheduled, got, c.want)
		}
	}
}
