package utils

import (
	"reflect"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"researcher@example.org", "first.last+tag@sub.example.ac.th"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{"", "plain", "missing@tld", "@example.org", "user@.org"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Errorf("short password accepted")
	}
	if ok, msg := ValidatePassword("longenough"); !ok || msg != "" {
		t.Errorf("valid password rejected: %q", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  title\x00 "); got != "title" {
		t.Errorf("SanitizeInput = %q, want %q", got, "title")
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{" peer review ", "", "  ", "workflow"})
	want := []string{"peer review", "workflow"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeKeywords = %v, want %v", got, want)
	}
}
