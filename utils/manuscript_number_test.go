package utils

import (
	"testing"
	"time"
)

func TestFormatManuscriptNumber(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		seq  int
		want string
	}{
		{1, "MS-2026-0001"},
		{42, "MS-2026-0042"},
		{9999, "MS-2026-9999"},
		{10000, "MS-2026-10000"},
	}
	for _, tc := range cases {
		if got := FormatManuscriptNumber(now, tc.seq); got != tc.want {
			t.Errorf("FormatManuscriptNumber(%d) = %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestManuscriptNumberPrefixFollowsYear(t *testing.T) {
	now := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := ManuscriptNumberPrefix(now); got != "MS-2027-" {
		t.Errorf("ManuscriptNumberPrefix = %q, want MS-2027-", got)
	}
}

func TestIsManuscriptNumber(t *testing.T) {
	valid := []string{"MS-2026-0001", "MS-2026-10000", "MS-1999-0042"}
	for _, number := range valid {
		if !IsManuscriptNumber(number) {
			t.Errorf("IsManuscriptNumber(%q) = false, want true", number)
		}
	}

	invalid := []string{"", "MS-2026-001", "ms-2026-0001", "MS-26-0001", "MS-2026-0001x", "R3-2026-0001"}
	for _, number := range invalid {
		if IsManuscriptNumber(number) {
			t.Errorf("IsManuscriptNumber(%q) = true, want false", number)
		}
	}
}
