package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"scholarly-journal-api/models"
)

func assignmentColumns() []string {
	return []string{"assignment_id", "manuscript_id", "reviewer_id", "assigner_id", "status"}
}

func TestPromoteIfReviewsCompleteWaitsForOutstandingReviews(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `reviewer_assignments`"),
			args:    []driver.Value{int64(1), "declined"},
			columns: assignmentColumns(),
			rows: [][]driver.Value{
				{int64(10), int64(1), int64(2), int64(9), "completed"},
				{int64(11), int64(1), int64(3), int64(9), "accepted"},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewWorkflowService(db, nil, nil)
	manuscript := &models.Manuscript{ManuscriptID: 1, Status: models.StatusUnderReview}

	promoted, err := svc.PromoteIfReviewsComplete(txSession(db), manuscript, Actor{UserID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted {
		t.Fatalf("manuscript promoted while a review is still outstanding")
	}
	if manuscript.Status != models.StatusUnderReview {
		t.Fatalf("status changed to %s without promotion", manuscript.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestPromoteIfReviewsCompletePromotesWhenAllReviewsIn(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `reviewer_assignments`"),
			args:    []driver.Value{int64(1), "declined"},
			columns: assignmentColumns(),
			rows: [][]driver.Value{
				{int64(10), int64(1), int64(2), int64(9), "completed"},
				{int64(11), int64(1), int64(3), int64(9), "completed"},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `manuscripts`"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `manuscript_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewWorkflowService(db, nil, nil)
	manuscript := &models.Manuscript{ManuscriptID: 1, Status: models.StatusUnderReview}

	promoted, err := svc.PromoteIfReviewsComplete(txSession(db), manuscript, Actor{UserID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !promoted {
		t.Fatalf("expected promotion when every active review is completed")
	}
	if manuscript.Status != models.StatusPendingEditorDecision {
		t.Fatalf("expected pending-editor-decision, got %s", manuscript.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestPromoteIfReviewsCompleteIgnoresDeclinedOnlyManuscripts(t *testing.T) {
	// No active assignments at all: nothing to aggregate, no promotion.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `reviewer_assignments`"),
			args:    []driver.Value{int64(1), "declined"},
			columns: assignmentColumns(),
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewWorkflowService(db, nil, nil)
	manuscript := &models.Manuscript{ManuscriptID: 1, Status: models.StatusUnderReview}

	promoted, err := svc.PromoteIfReviewsComplete(txSession(db), manuscript, Actor{UserID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted {
		t.Fatalf("promoted a manuscript with no active assignments")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestPromoteIfReviewsCompleteNoopOutsideUnderReview(t *testing.T) {
	// Already promoted by a concurrent completion: recomputation is a no-op.
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewWorkflowService(db, nil, nil)
	manuscript := &models.Manuscript{ManuscriptID: 1, Status: models.StatusPendingEditorDecision}

	promoted, err := svc.PromoteIfReviewsComplete(txSession(db), manuscript, Actor{UserID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if promoted {
		t.Fatalf("promotion must be idempotent")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestCreateRevisionRequestSequencesAndSnapshots(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `revision_requests`"),
			args:    []driver.Value{int64(5), "pending"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT COALESCE\\(MAX\\(revision_number\\), 0\\) FROM `revision_requests`"),
			args:    []driver.Value{int64(5)},
			columns: []string{"COALESCE(MAX(revision_number), 0)"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `revision_requests`"),
			result:  scriptedResult{lastInsertID: 7, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	fileID := 42
	manuscript := &models.Manuscript{
		ManuscriptID: 5,
		Status:       models.StatusPendingEditorDecision,
		Abstract:     "original abstract",
		Keywords:     models.KeywordList{"peer review", "workflow"},
		FileID:       &fileID,
	}

	revision, err := createRevisionRequest(txSession(db), manuscript, "fix references", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if revision.RevisionNumber != 3 {
		t.Fatalf("expected revision number 3 after two prior rounds, got %d", revision.RevisionNumber)
	}
	if revision.Status != models.RevisionPending {
		t.Fatalf("new revision must be pending, got %s", revision.Status)
	}
	if revision.OriginalData.Abstract != "original abstract" {
		t.Fatalf("snapshot abstract not captured: %q", revision.OriginalData.Abstract)
	}
	if len(revision.OriginalData.Keywords) != 2 {
		t.Fatalf("snapshot keywords not captured: %v", revision.OriginalData.Keywords)
	}
	if revision.OriginalData.FileID == nil || *revision.OriginalData.FileID != 42 {
		t.Fatalf("snapshot file reference not captured")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestCreateRevisionRequestRejectsSecondPendingRound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `revision_requests`"),
			args:    []driver.Value{int64(5), "pending"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	manuscript := &models.Manuscript{ManuscriptID: 5, Status: models.StatusPendingEditorDecision}

	_, err := createRevisionRequest(txSession(db), manuscript, "more fixes", nil)
	if !errors.Is(err, ErrPendingRevisionExists) {
		t.Fatalf("expected ErrPendingRevisionExists, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestEnsureReviewCreatesLazily(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `reviews`"),
			args:    []driver.Value{int64(1), int64(2)},
			columns: []string{"review_id", "manuscript_id", "reviewer_id", "status"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `reviews`"),
			result:  scriptedResult{lastInsertID: 33, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	review, err := ensureReview(txSession(db), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.Status != models.ReviewPending {
		t.Fatalf("new review must start pending, got %s", review.Status)
	}
	if review.ReviewID != 33 {
		t.Fatalf("expected assigned id 33, got %d", review.ReviewID)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unexpected remaining steps: %v", err)
	}
}

func TestSnapshotImmutableAfterManuscriptEdits(t *testing.T) {
	fileID := 1
	manuscript := &models.Manuscript{
		ManuscriptID: 5,
		Abstract:     "before",
		Keywords:     models.KeywordList{"a"},
		FileID:       &fileID,
	}

	revision := models.RevisionRequest{
		OriginalData: models.ManuscriptSnapshot{
			Abstract: manuscript.Abstract,
			Keywords: append(models.KeywordList{}, manuscript.Keywords...),
			FileID:   manuscript.FileID,
		},
		CreatedAt: time.Now(),
	}

	// Later concurrent edits to the manuscript must not leak into the
	// captured snapshot.
	manuscript.Abstract = "after"
	manuscript.Keywords = append(manuscript.Keywords, "b")

	if revision.OriginalData.Abstract != "before" {
		t.Fatalf("snapshot abstract mutated: %q", revision.OriginalData.Abstract)
	}
	if len(revision.OriginalData.Keywords) != 1 {
		t.Fatalf("snapshot keywords mutated: %v", revision.OriginalData.Keywords)
	}
}
