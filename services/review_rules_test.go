package services

import (
	"testing"

	"scholarly-journal-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRatingIsUnweightedMean(t *testing.T) {
	cases := []struct {
		name    string
		ratings models.RatingMap
		want    float64
	}{
		{"empty", models.RatingMap{}, 0},
		{"single", models.RatingMap{"originality": 4}, 4},
		{"high reviewer", models.RatingMap{"originality": 5, "methodology": 4, "clarity": 5, "relevance": 4}, 4.5},
		{"moderate reviewer", models.RatingMap{"originality": 4, "methodology": 4, "clarity": 4, "relevance": 3, "references": 4}, 3.8},
		{"unrated criteria excluded", models.RatingMap{"originality": 3, "methodology": 0}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, AverageRating(tc.ratings), 0.001)
		})
	}
}

func TestValidateReviewSubmissionAcceptsCompleteReview(t *testing.T) {
	err := ValidateReviewSubmission(
		models.RatingMap{"originality": 5, "methodology": 4},
		"Strong contribution, minor typos.",
		models.RecommendAccepted,
	)
	assert.NoError(t, err)
}

func TestValidateReviewSubmissionCollectsMissingFields(t *testing.T) {
	err := ValidateReviewSubmission(models.RatingMap{}, "   ", "")
	require.Error(t, err)
	require.True(t, IsMissingFields(err))

	var mfe *MissingFieldsError
	require.ErrorAs(t, err, &mfe)
	assert.ElementsMatch(t, []string{"ratings", "comments", "recommendation"}, mfe.Fields)
}

func TestValidateReviewSubmissionRejectsUnratedCriterion(t *testing.T) {
	err := ValidateReviewSubmission(
		models.RatingMap{"originality": 4, "methodology": 0},
		"fine",
		models.RecommendNeedsRevision,
	)
	require.Error(t, err)

	var mfe *MissingFieldsError
	require.ErrorAs(t, err, &mfe)
	assert.Contains(t, mfe.Fields, "rating:methodology")
}

func TestValidateReviewSubmissionRejectsOutOfRangeRating(t *testing.T) {
	err := ValidateReviewSubmission(
		models.RatingMap{"originality": 6},
		"fine",
		models.RecommendRejected,
	)
	require.Error(t, err)

	var mfe *MissingFieldsError
	require.ErrorAs(t, err, &mfe)
	assert.Contains(t, mfe.Fields, "rating:originality")
}

func TestValidateReviewSubmissionRejectsUnknownRecommendation(t *testing.T) {
	err := ValidateReviewSubmission(
		models.RatingMap{"originality": 3},
		"fine",
		models.Recommendation("undecided"),
	)
	require.Error(t, err)

	var mfe *MissingFieldsError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, []string{"recommendation"}, mfe.Fields)
}
