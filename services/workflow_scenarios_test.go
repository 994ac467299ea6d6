package services

import (
	"testing"

	"scholarly-journal-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// advance walks the manuscript through one workflow event and fails the
// test if the transition table rejects it.
func advance(t *testing.T, current models.ManuscriptStatus, event WorkflowEvent) models.ManuscriptStatus {
	t.Helper()
	next, err := NextStatus(current, event)
	require.NoError(t, err, "event %s from %s", event, current)
	return next
}

func TestFullAcceptancePath(t *testing.T) {
	status := models.StatusDraft
	status = advance(t, status, EventSubmitManuscript)
	assert.Equal(t, models.StatusUnderReview, status)

	// Two reviewers complete, both recommending acceptance.
	first := models.RatingMap{"originality": 5, "methodology": 4, "clarity": 5, "significance": 4}
	second := models.RatingMap{"originality": 4, "methodology": 4, "clarity": 3, "significance": 4, "presentation": 4}
	require.NoError(t, ValidateReviewSubmission(first, "strong contribution", models.RecommendAccepted))
	require.NoError(t, ValidateReviewSubmission(second, "solid but narrow", models.RecommendAccepted))
	assert.Equal(t, 4.5, AverageRating(first))
	assert.Equal(t, 3.8, AverageRating(second))

	status = advance(t, status, EventPromote)
	assert.Equal(t, models.StatusPendingEditorDecision, status)

	event, err := ParseDecision("accepted")
	require.NoError(t, err)
	status = advance(t, status, event)
	assert.Equal(t, models.StatusAccepted, status)

	status = advance(t, status, EventPublish)
	assert.Equal(t, models.StatusPublished, status)

	// Nothing moves a published manuscript.
	for _, event := range []WorkflowEvent{EventSubmitManuscript, EventPromote, EventDecideAccept, EventSubmitRevision, EventPublish} {
		_, err := NextStatus(status, event)
		assert.True(t, IsInvalidTransition(err))
	}
}

func TestRevisionRoundPath(t *testing.T) {
	status := models.StatusPendingEditorDecision

	event, err := ParseDecision("needs-revision")
	require.NoError(t, err)
	status = advance(t, status, event)
	assert.Equal(t, models.StatusNeedsRevision, status)

	// Researcher resubmits, which reopens the review cycle.
	status = advance(t, status, EventSubmitRevision)
	assert.Equal(t, models.StatusUnderReview, status)

	// The reopened cycle sees reviews and assignments reset to their
	// active states, never declined ones.
	assert.True(t, models.AssignmentAccepted.IsActive())
	assert.False(t, models.AssignmentDeclined.IsActive())
}

func TestDuplicateReviewSubmissionIsConflict(t *testing.T) {
	assert.True(t, IsConflict(ErrReviewAlreadySubmitted))
	assert.True(t, IsConflict(ErrDuplicateAssignment))
	assert.True(t, IsConflict(ErrPendingRevisionExists))
}

func TestDecisionRequiresPendingEditorDecision(t *testing.T) {
	for _, event := range []WorkflowEvent{EventDecideAccept, EventDecideReject, EventDecideRevision} {
		_, err := NextStatus(models.StatusUnderReview, event)
		assert.True(t, IsInvalidTransition(err), "event %s must be rejected while reviews are open", event)
	}
}

func TestRejectionIsTerminal(t *testing.T) {
	status := advance(t, models.StatusPendingEditorDecision, EventDecideReject)
	assert.Equal(t, models.StatusRejected, status)
	assert.True(t, status.IsTerminalDecision())

	for _, event := range []WorkflowEvent{EventSubmitManuscript, EventSubmitRevision, EventPublish, EventPromote} {
		_, err := NextStatus(status, event)
		assert.True(t, IsInvalidTransition(err), "event %s must not escape rejection", event)
	}
}
