package services

import (
	"math"
	"sort"
	"strings"

	"scholarly-journal-api/models"
)

const (
	MinCriterionRating = 1
	MaxCriterionRating = 5
)

// AverageRating computes the unweighted arithmetic mean of the per-criterion
// ratings, rounded to two decimals. Zero-valued (unrated) criteria are
// excluded so drafts can carry partial scores.
func AverageRating(ratings models.RatingMap) float64 {
	sum, count := 0, 0
	for _, rating := range ratings {
		if rating == 0 {
			continue
		}
		sum += rating
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*100) / 100
}

// ValidateReviewSubmission checks the completion guards for a review: every
// criterion rated within range, non-empty comments, and a recommendation
// selected. Violations are collected into a single MissingFieldsError.
func ValidateReviewSubmission(ratings models.RatingMap, comments string, recommendation models.Recommendation) error {
	missing := make([]string, 0)

	if len(ratings) == 0 {
		missing = append(missing, "ratings")
	} else {
		criteria := make([]string, 0, len(ratings))
		for criterion := range ratings {
			criteria = append(criteria, criterion)
		}
		sort.Strings(criteria)
		for _, criterion := range criteria {
			rating := ratings[criterion]
			if rating < MinCriterionRating || rating > MaxCriterionRating {
				missing = append(missing, "rating:"+criterion)
			}
		}
	}

	if strings.TrimSpace(comments) == "" {
		missing = append(missing, "comments")
	}

	switch recommendation {
	case models.RecommendAccepted, models.RecommendNeedsRevision, models.RecommendRejected:
	default:
		missing = append(missing, "recommendation")
	}

	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
