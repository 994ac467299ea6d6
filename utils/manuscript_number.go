// utils/manuscript_number.go - Human-readable manuscript numbering
package utils

import (
	"fmt"
	"regexp"
	"time"
)

// ManuscriptNumberPrefix returns the year-scoped prefix for manuscript
// numbers, e.g. "MS-2026-".
func ManuscriptNumberPrefix(now time.Time) string {
	return fmt.Sprintf("MS-%d-", now.Year())
}

// FormatManuscriptNumber builds the immutable manuscript number from the
// submission year and the per-year sequence, e.g. "MS-2026-0042".
func FormatManuscriptNumber(now time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", ManuscriptNumberPrefix(now), seq)
}

var manuscriptNumberPattern = regexp.MustCompile(`^MS-\d{4}-\d{4,}$`)

// IsManuscriptNumber reports whether the string looks like an assigned
// manuscript number.
func IsManuscriptNumber(number string) bool {
	return manuscriptNumberPattern.MatchString(number)
}
