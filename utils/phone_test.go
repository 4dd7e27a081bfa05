package utils

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+1 (415) 555-0100", "+14155550100"},
		{"44 7911 123456", "+447911123456"},
		{"004475551234", "+4475551234"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizePhoneNumber(c.in); got != c.want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"+14155550100", "+447911123456", "12345678"}
	for _, num := range valid {
		if !ValidatePhoneNumber(num) {
			t.Errorf("expected %q to be valid", num)
		}
	}

	invalid := []string{"123", "+0123456789", "1234567890123456", ""}
	for _, num := range invalid {
		if ValidatePhoneNumber(num) {
			t.Errorf("expected %q to be invalid", num)
		}
	}
}
