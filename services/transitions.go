package services

import (
	"fmt"
	"strings"

	"scholarly-journal-api/models"
)

// WorkflowEvent names the actions that can move a manuscript through the
// review workflow.
type WorkflowEvent string

const (
	EventSubmitManuscript WorkflowEvent = "submit-manuscript"
	EventPromote          WorkflowEvent = "promote-to-decision"
	EventDecideAccept     WorkflowEvent = "decide-accept"
	EventDecideReject     WorkflowEvent = "decide-reject"
	EventDecideRevision   WorkflowEvent = "decide-needs-revision"
	EventSubmitRevision   WorkflowEvent = "submit-revision"
	EventPublish          WorkflowEvent = "publish"
)

// transitionTable is the closed set of legal status transitions. Anything
// not listed here is rejected before any record is touched.
var transitionTable = map[models.ManuscriptStatus]map[WorkflowEvent]models.ManuscriptStatus{
	models.StatusDraft: {
		EventSubmitManuscript: models.StatusUnderReview,
	},
	models.StatusUnderReview: {
		EventPromote: models.StatusPendingEditorDecision,
	},
	models.StatusPendingEditorDecision: {
		EventDecideAccept:   models.StatusAccepted,
		EventDecideReject:   models.StatusRejected,
		EventDecideRevision: models.StatusNeedsRevision,
	},
	models.StatusNeedsRevision: {
		EventSubmitRevision: models.StatusUnderReview,
	},
	models.StatusAccepted: {
		EventPublish: models.StatusPublished,
	},
}

// NextStatus resolves the target status for an event from the current
// status, or rejects the event with an InvalidTransitionError.
func NextStatus(current models.ManuscriptStatus, event WorkflowEvent) (models.ManuscriptStatus, error) {
	if targets, ok := transitionTable[current]; ok {
		if next, ok := targets[event]; ok {
			return next, nil
		}
	}
	return "", &InvalidTransitionError{Event: string(event), Current: current}
}

// statusSynonyms maps the spellings accepted from API input onto canonical
// manuscript statuses.
var statusSynonyms = map[string]models.ManuscriptStatus{
	"draft":                   models.StatusDraft,
	"under-review":            models.StatusUnderReview,
	"under_review":            models.StatusUnderReview,
	"pending-editor-decision": models.StatusPendingEditorDecision,
	"pending_editor_decision": models.StatusPendingEditorDecision,
	"pending-decision":        models.StatusPendingEditorDecision,
	"needs-revision":          models.StatusNeedsRevision,
	"needs_revision":          models.StatusNeedsRevision,
	"revision":                models.StatusNeedsRevision,
	"accepted":                models.StatusAccepted,
	"rejected":                models.StatusRejected,
	"published":               models.StatusPublished,
}

// ParseManuscriptStatus resolves a status filter string from API input to
// its canonical value.
func ParseManuscriptStatus(raw string) (models.ManuscriptStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := statusSynonyms[normalized]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown manuscript status %q", raw)
}

// decisionEvents maps the editor decision keyword from API input to its
// workflow event.
var decisionEvents = map[string]WorkflowEvent{
	"accept":         EventDecideAccept,
	"accepted":       EventDecideAccept,
	"reject":         EventDecideReject,
	"rejected":       EventDecideReject,
	"needs-revision": EventDecideRevision,
	"needs_revision": EventDecideRevision,
	"revision":       EventDecideRevision,
}

// ParseDecision resolves an editor decision keyword to its workflow event.
func ParseDecision(raw string) (WorkflowEvent, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if event, ok := decisionEvents[normalized]; ok {
		return event, nil
	}
	return "", fmt.Errorf("decision must be one of accept, reject, needs-revision")
}
