package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhoneNumber strips formatting and returns an E.164-style string
// for storage. Numbers without a leading + are assumed to already carry a
// country code.
func NormalizePhoneNumber(phoneNumber string) string {
	hasPlus := strings.HasPrefix(strings.TrimSpace(phoneNumber), "+")
	digits := nonDigits.ReplaceAllString(phoneNumber, "")
	digits = strings.TrimLeft(digits, "0")
	if hasPlus || digits != "" {
		return "+" + digits
	}
	return ""
}

// ValidatePhoneNumber checks the number has a plausible E.164 shape
// (8 to 15 digits after normalization).
func ValidatePhoneNumber(phoneNumber string) bool {
	digits := nonDigits.ReplaceAllString(phoneNumber, "")
	if len(digits) < 8 || len(digits) > 15 {
		return false
	}
	return digits[0] != '0'
}
