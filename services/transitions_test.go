package services

import (
	"testing"

	"scholarly-journal-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatusLegalTransitions(t *testing.T) {
	cases := []struct {
		from  models.ManuscriptStatus
		event WorkflowEvent
		want  models.ManuscriptStatus
	}{
		{models.StatusDraft, EventSubmitManuscript, models.StatusUnderReview},
		{models.StatusUnderReview, EventPromote, models.StatusPendingEditorDecision},
		{models.StatusPendingEditorDecision, EventDecideAccept, models.StatusAccepted},
		{models.StatusPendingEditorDecision, EventDecideReject, models.StatusRejected},
		{models.StatusPendingEditorDecision, EventDecideRevision, models.StatusNeedsRevision},
		{models.StatusNeedsRevision, EventSubmitRevision, models.StatusUnderReview},
		{models.StatusAccepted, EventPublish, models.StatusPublished},
	}

	for _, tc := range cases {
		got, err := NextStatus(tc.from, tc.event)
		require.NoError(t, err, "%s on %s", tc.event, tc.from)
		assert.Equal(t, tc.want, got)
	}
}

func TestNextStatusRejectsEverythingElse(t *testing.T) {
	legal := map[models.ManuscriptStatus]map[WorkflowEvent]bool{
		models.StatusDraft:                 {EventSubmitManuscript: true},
		models.StatusUnderReview:           {EventPromote: true},
		models.StatusPendingEditorDecision: {EventDecideAccept: true, EventDecideReject: true, EventDecideRevision: true},
		models.StatusNeedsRevision:         {EventSubmitRevision: true},
		models.StatusAccepted:              {EventPublish: true},
	}

	statuses := []models.ManuscriptStatus{
		models.StatusDraft,
		models.StatusUnderReview,
		models.StatusPendingEditorDecision,
		models.StatusNeedsRevision,
		models.StatusAccepted,
		models.StatusRejected,
		models.StatusPublished,
	}
	events := []WorkflowEvent{
		EventSubmitManuscript,
		EventPromote,
		EventDecideAccept,
		EventDecideReject,
		EventDecideRevision,
		EventSubmitRevision,
		EventPublish,
	}

	for _, status := range statuses {
		for _, event := range events {
			if legal[status][event] {
				continue
			}
			_, err := NextStatus(status, event)
			require.Error(t, err, "%s on %s should be rejected", event, status)

			var ite *InvalidTransitionError
			require.ErrorAs(t, err, &ite)
			assert.Equal(t, status, ite.Current, "rejection must carry the current status")
			assert.True(t, IsInvalidTransition(err))
		}
	}
}

func TestDecidingOutsidePendingDecisionIsInvalid(t *testing.T) {
	// A manuscript still under review (reviews incomplete) cannot be decided.
	_, err := NextStatus(models.StatusUnderReview, EventDecideAccept)
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))
}

func TestPublishRequiresAccepted(t *testing.T) {
	for _, status := range []models.ManuscriptStatus{
		models.StatusDraft,
		models.StatusUnderReview,
		models.StatusPendingEditorDecision,
		models.StatusNeedsRevision,
		models.StatusRejected,
		models.StatusPublished,
	} {
		_, err := NextStatus(status, EventPublish)
		require.Error(t, err, "publish from %s", status)
	}
}

func TestParseManuscriptStatus(t *testing.T) {
	cases := map[string]models.ManuscriptStatus{
		"under-review":   models.StatusUnderReview,
		"under_review":   models.StatusUnderReview,
		" Needs-Revision ": models.StatusNeedsRevision,
		"PUBLISHED":      models.StatusPublished,
	}
	for raw, want := range cases {
		got, err := ParseManuscriptStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseManuscriptStatus("in-limbo")
	assert.Error(t, err)
}

func TestParseDecision(t *testing.T) {
	cases := map[string]WorkflowEvent{
		"accept":         EventDecideAccept,
		"Accepted":       EventDecideAccept,
		"reject":         EventDecideReject,
		"needs-revision": EventDecideRevision,
		"revision":       EventDecideRevision,
	}
	for raw, want := range cases {
		got, err := ParseDecision(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseDecision("maybe")
	assert.Error(t, err)
}
