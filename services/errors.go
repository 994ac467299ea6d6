package services

import (
	"errors"
	"fmt"
	"strings"

	"scholarly-journal-api/models"
)

var (
	// ErrManuscriptNotFound is returned when the manuscript does not exist
	// or is soft-deleted.
	ErrManuscriptNotFound = errors.New("manuscript not found")

	// ErrAssignmentNotFound is returned when the reviewer assignment does
	// not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrReviewNotFound is returned when no review exists for the
	// (manuscript, reviewer) pair.
	ErrReviewNotFound = errors.New("review not found")

	// ErrDuplicateAssignment is returned when the reviewer already holds a
	// non-declined assignment for the manuscript.
	ErrDuplicateAssignment = errors.New("reviewer already assigned to this manuscript")

	// ErrReviewAlreadySubmitted is returned when a completed review already
	// exists for the current revision cycle.
	ErrReviewAlreadySubmitted = errors.New("review already submitted for this cycle")

	// ErrNoPendingRevision is returned when a revision is submitted but no
	// revision request is pending.
	ErrNoPendingRevision = errors.New("no pending revision request")

	// ErrPendingRevisionExists is returned when a second pending revision
	// request is created for the same manuscript.
	ErrPendingRevisionExists = errors.New("a pending revision request already exists")

	// ErrAssignmentDeclined is returned when an operation targets a
	// declined (terminal) assignment.
	ErrAssignmentDeclined = errors.New("assignment has been declined")

	// ErrFeeNotVerified is returned when the external fee gate has not
	// cleared the manuscript for submission.
	ErrFeeNotVerified = errors.New("submission fee not verified")
)

// InvalidTransitionError rejects an event that is not legal from the
// manuscript's current status. The current status is carried so the caller
// can resynchronize its view.
type InvalidTransitionError struct {
	Event   string
	Current models.ManuscriptStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %q is not allowed while manuscript is %q", e.Event, e.Current)
}

// MissingFieldsError rejects an operation whose guard fields are absent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// IsConflict reports whether the error is a uniqueness or concurrency guard
// failure; the caller should refetch current state rather than retry blindly.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateAssignment) ||
		errors.Is(err, ErrReviewAlreadySubmitted) ||
		errors.Is(err, ErrPendingRevisionExists)
}

// IsInvalidTransition reports whether the error rejects an illegal workflow
// event.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}

// IsMissingFields reports whether the error is an incomplete precondition.
func IsMissingFields(err error) bool {
	var mfe *MissingFieldsError
	return errors.As(err, &mfe)
}
