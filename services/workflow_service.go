package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarly-journal-api/models"
	"scholarly-journal-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Actor identifies the authenticated user performing a transition, plus the
// request metadata recorded in the audit trail. Role eligibility has already
// been checked by the caller; the workflow only enforces state guards.
type Actor struct {
	UserID    int
	IPAddress string
	UserAgent string
}

// FeeChecker is the external payment gate consulted before a manuscript may
// be submitted. It is consulted, not owned, by the workflow.
type FeeChecker interface {
	FeeVerified(manuscriptID, userID int) (bool, error)
}

// AllowAllFees clears every manuscript; used when fees are settled out of
// band.
type AllowAllFees struct{}

func (AllowAllFees) FeeVerified(int, int) (bool, error) { return true, nil }

// WorkflowService is the orchestrator of the peer-review workflow. It is the
// only writer of Manuscript.Status, Review.Status and
// ReviewerAssignment.Status; every transition runs inside a transaction
// holding a row lock on the manuscript.
type WorkflowService struct {
	db       *gorm.DB
	fees     FeeChecker
	notifier *NotificationService
}

func NewWorkflowService(db *gorm.DB, fees FeeChecker, notifier *NotificationService) *WorkflowService {
	if fees == nil {
		fees = AllowAllFees{}
	}
	return &WorkflowService{db: db, fees: fees, notifier: notifier}
}

// lockManuscript loads the manuscript under a FOR UPDATE row lock so the
// check-and-update scope has a single writer per manuscript.
func lockManuscript(tx *gorm.DB, manuscriptID int) (*models.Manuscript, error) {
	var manuscript models.Manuscript
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("manuscript_id = ? AND deleted_at IS NULL", manuscriptID).
		First(&manuscript).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("failed to load manuscript: %w", err)
	}
	return &manuscript, nil
}

func writeStatusHistory(tx *gorm.DB, manuscript *models.Manuscript, newStatus models.ManuscriptStatus, actor Actor, reason, notes string) error {
	oldStatus := manuscript.Status
	history := models.ManuscriptStatusHistory{
		ManuscriptID: manuscript.ManuscriptID,
		OldStatus:    &oldStatus,
		NewStatus:    newStatus,
		ChangedBy:    actor.UserID,
		CreatedAt:    time.Now(),
	}
	if reason != "" {
		history.Reason = &reason
	}
	if notes != "" {
		history.Notes = &notes
	}
	return tx.Create(&history).Error
}

func writeAudit(tx *gorm.DB, manuscript *models.Manuscript, actor Actor, action, description string, values map[string]interface{}) error {
	serialized, _ := json.Marshal(values)
	entityID := manuscript.ManuscriptID
	audit := models.AuditLog{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "manuscript",
		EntityID:    &entityID,
		NewValues:   strPtr(string(serialized)),
		Description: strPtr(description),
		IPAddress:   actor.IPAddress,
		CreatedAt:   time.Now(),
	}
	if manuscript.ManuscriptNumber != "" {
		number := manuscript.ManuscriptNumber
		audit.EntityNumber = &number
	}
	if strings.TrimSpace(actor.UserAgent) != "" {
		ua := actor.UserAgent
		audit.UserAgent = &ua
	}
	return tx.Create(&audit).Error
}

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// SubmitManuscript moves a draft into review. Guards: title, abstract,
// keywords, specialization and file present, and the external fee gate
// cleared. The submission date and manuscript number are set exactly once.
func (s *WorkflowService) SubmitManuscript(manuscriptID int, actor Actor) (*models.Manuscript, error) {
	var result *models.Manuscript

	err := s.db.Transaction(func(tx *gorm.DB) error {
		manuscript, err := lockManuscript(tx, manuscriptID)
		if err != nil {
			return err
		}

		next, err := NextStatus(manuscript.Status, EventSubmitManuscript)
		if err != nil {
			return err
		}

		missing := make([]string, 0)
		if strings.TrimSpace(manuscript.Title) == "" {
			missing = append(missing, "title")
		}
		if strings.TrimSpace(manuscript.Abstract) == "" {
			missing = append(missing, "abstract")
		}
		if len(manuscript.Keywords) == 0 {
			missing = append(missing, "keywords")
		}
		if strings.TrimSpace(manuscript.Specialization) == "" {
			missing = append(missing, "specialization")
		}
		if manuscript.FileID == nil {
			missing = append(missing, "file")
		}
		if len(missing) > 0 {
			return &MissingFieldsError{Fields: missing}
		}

		verified, err := s.fees.FeeVerified(manuscript.ManuscriptID, manuscript.UserID)
		if err != nil {
			return fmt.Errorf("fee check failed: %w", err)
		}
		if !verified {
			return ErrFeeNotVerified
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     next,
			"updated_at": now,
		}
		if manuscript.SubmittedAt == nil {
			updates["submitted_at"] = now
		}
		if manuscript.ManuscriptNumber == "" {
			number, err := nextManuscriptNumber(tx, now)
			if err != nil {
				return err
			}
			updates["manuscript_number"] = number
			manuscript.ManuscriptNumber = number
		}

		if err := tx.Model(&models.Manuscript{}).
			Where("manuscript_id = ?", manuscript.ManuscriptID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update manuscript: %w", err)
		}

		if err := writeStatusHistory(tx, manuscript, next, actor, "", "manuscript submitted"); err != nil {
			return err
		}
		if err := writeAudit(tx, manuscript, actor, "submit", "Manuscript submitted for review", map[string]interface{}{
			"status": next,
		}); err != nil {
			return err
		}

		manuscript.Status = next
		if manuscript.SubmittedAt == nil {
			manuscript.SubmittedAt = &now
		}
		result = manuscript
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// nextManuscriptNumber assigns the next human-readable manuscript number for
// the current year, inside the caller's transaction.
func nextManuscriptNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := utils.ManuscriptNumberPrefix(now)
	var count int64
	if err := tx.Model(&models.Manuscript{}).
		Where("manuscript_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to sequence manuscript number: %w", err)
	}
	return utils.FormatManuscriptNumber(now, int(count)+1), nil
}

// Decide records the editor's decision on a manuscript awaiting one.
// Accept requires at least one completed review; needs-revision requires
// notes and opens a pending revision request with an eager snapshot. The
// evaluation date is set once per decision cycle.
func (s *WorkflowService) Decide(manuscriptID int, actor Actor, event WorkflowEvent, notes string, deadline *time.Time) (*models.Manuscript, error) {
	switch event {
	case EventDecideAccept, EventDecideReject, EventDecideRevision:
	default:
		return nil, fmt.Errorf("not an editor decision event: %s", event)
	}

	var result *models.Manuscript

	err := s.db.Transaction(func(tx *gorm.DB) error {
		manuscript, err := lockManuscript(tx, manuscriptID)
		if err != nil {
			return err
		}

		next, err := NextStatus(manuscript.Status, event)
		if err != nil {
			return err
		}

		if event == EventDecideAccept {
			var completed int64
			if err := tx.Model(&models.Review{}).
				Where("manuscript_id = ? AND status = ?", manuscript.ManuscriptID, models.ReviewCompleted).
				Count(&completed).Error; err != nil {
				return fmt.Errorf("failed to count completed reviews: %w", err)
			}
			if completed == 0 {
				return &MissingFieldsError{Fields: []string{"completed review"}}
			}
		}

		if event == EventDecideRevision && strings.TrimSpace(notes) == "" {
			return &MissingFieldsError{Fields: []string{"revision notes"}}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     next,
			"updated_at": now,
		}
		if manuscript.EvaluatedAt == nil {
			updates["evaluated_at"] = now
		}

		if err := tx.Model(&models.Manuscript{}).
			Where("manuscript_id = ?", manuscript.ManuscriptID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update manuscript: %w", err)
		}

		if event == EventDecideRevision {
			if _, err := createRevisionRequest(tx, manuscript, notes, deadline); err != nil {
				return err
			}
		}

		if err := writeStatusHistory(tx, manuscript, next, actor, notes, "editor decision"); err != nil {
			return err
		}
		if err := writeAudit(tx, manuscript, actor, "decide", "Editorial decision recorded", map[string]interface{}{
			"decision": next,
			"notes":    notes,
		}); err != nil {
			return err
		}

		manuscript.Status = next
		if manuscript.EvaluatedAt == nil {
			manuscript.EvaluatedAt = &now
		}
		result = manuscript
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.DecisionMade(result, result.Status)
	}
	return result, nil
}

// SubmitRevision records the researcher's resubmission: the pending revision
// request is closed, every completed review reverts to pending, every
// completed assignment reverts to accepted, and the manuscript returns to
// review with its evaluation date cleared.
func (s *WorkflowService) SubmitRevision(manuscriptID int, actor Actor, responseNotes string, fileID int) (*models.Manuscript, error) {
	var result *models.Manuscript

	err := s.db.Transaction(func(tx *gorm.DB) error {
		manuscript, err := lockManuscript(tx, manuscriptID)
		if err != nil {
			return err
		}

		next, err := NextStatus(manuscript.Status, EventSubmitRevision)
		if err != nil {
			return err
		}

		missing := make([]string, 0)
		if strings.TrimSpace(responseNotes) == "" {
			missing = append(missing, "response notes")
		}
		if fileID <= 0 {
			missing = append(missing, "file")
		}
		if len(missing) > 0 {
			return &MissingFieldsError{Fields: missing}
		}

		var revision models.RevisionRequest
		if err := tx.Where("manuscript_id = ? AND status = ?", manuscript.ManuscriptID, models.RevisionPending).
			First(&revision).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoPendingRevision
			}
			return fmt.Errorf("failed to load revision request: %w", err)
		}

		now := time.Now()
		if err := tx.Model(&models.RevisionRequest{}).
			Where("revision_id = ?", revision.RevisionID).
			Updates(map[string]interface{}{
				"status":         models.RevisionSubmitted,
				"response_notes": responseNotes,
				"submitted_at":   now,
				"updated_at":     now,
			}).Error; err != nil {
			return fmt.Errorf("failed to close revision request: %w", err)
		}

		// Reset in place: the same reviewers re-review the same manuscript
		// without losing assignment history.
		if err := tx.Model(&models.Review{}).
			Where("manuscript_id = ? AND status = ?", manuscript.ManuscriptID, models.ReviewCompleted).
			Updates(map[string]interface{}{
				"status":       models.ReviewPending,
				"submitted_at": nil,
				"updated_at":   now,
			}).Error; err != nil {
			return fmt.Errorf("failed to reset reviews: %w", err)
		}

		if err := tx.Model(&models.ReviewerAssignment{}).
			Where("manuscript_id = ? AND status = ?", manuscript.ManuscriptID, models.AssignmentCompleted).
			Updates(map[string]interface{}{
				"status":     models.AssignmentAccepted,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to reset assignments: %w", err)
		}

		if err := tx.Model(&models.Manuscript{}).
			Where("manuscript_id = ?", manuscript.ManuscriptID).
			Updates(map[string]interface{}{
				"status":       next,
				"file_id":      fileID,
				"evaluated_at": nil,
				"updated_at":   now,
			}).Error; err != nil {
			return fmt.Errorf("failed to update manuscript: %w", err)
		}

		if err := writeStatusHistory(tx, manuscript, next, actor, "", fmt.Sprintf("revision %d submitted", revision.RevisionNumber)); err != nil {
			return err
		}
		if err := writeAudit(tx, manuscript, actor, "submit_revision", "Revision submitted", map[string]interface{}{
			"revision_number": revision.RevisionNumber,
			"file_id":         fileID,
		}); err != nil {
			return err
		}

		manuscript.Status = next
		manuscript.FileID = &fileID
		manuscript.EvaluatedAt = nil
		result = manuscript
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.RevisionSubmitted(result)
	}
	return result, nil
}

// Publish marks an accepted manuscript as published.
func (s *WorkflowService) Publish(manuscriptID int, actor Actor) (*models.Manuscript, error) {
	var result *models.Manuscript

	err := s.db.Transaction(func(tx *gorm.DB) error {
		manuscript, err := lockManuscript(tx, manuscriptID)
		if err != nil {
			return err
		}

		next, err := NextStatus(manuscript.Status, EventPublish)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Manuscript{}).
			Where("manuscript_id = ?", manuscript.ManuscriptID).
			Updates(map[string]interface{}{
				"status":       next,
				"published_at": now,
				"updated_at":   now,
			}).Error; err != nil {
			return fmt.Errorf("failed to publish manuscript: %w", err)
		}

		if err := writeStatusHistory(tx, manuscript, next, actor, "", "manuscript published"); err != nil {
			return err
		}
		if err := writeAudit(tx, manuscript, actor, "publish", "Manuscript published", map[string]interface{}{
			"status": next,
		}); err != nil {
			return err
		}

		manuscript.Status = next
		manuscript.PublishedAt = &now
		result = manuscript
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ManuscriptPublished(result)
	}
	return result, nil
}

// PromoteIfReviewsComplete recomputes the promotion aggregate inside the
// caller's transaction: the manuscript moves to pending-editor-decision when
// every non-declined assignment has a completed review. The caller must
// already hold the manuscript row lock, which makes the recomputation
// idempotent under concurrent review completions.
func (s *WorkflowService) PromoteIfReviewsComplete(tx *gorm.DB, manuscript *models.Manuscript, actor Actor) (bool, error) {
	if manuscript.Status != models.StatusUnderReview {
		return false, nil
	}

	var assignments []models.ReviewerAssignment
	if err := tx.Where("manuscript_id = ? AND status <> ?", manuscript.ManuscriptID, models.AssignmentDeclined).
		Find(&assignments).Error; err != nil {
		return false, fmt.Errorf("failed to load assignments: %w", err)
	}
	if len(assignments) == 0 {
		return false, nil
	}
	for _, assignment := range assignments {
		if assignment.Status != models.AssignmentCompleted {
			return false, nil
		}
	}

	next, err := NextStatus(manuscript.Status, EventPromote)
	if err != nil {
		return false, err
	}

	now := time.Now()
	if err := tx.Model(&models.Manuscript{}).
		Where("manuscript_id = ?", manuscript.ManuscriptID).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": now,
		}).Error; err != nil {
		return false, fmt.Errorf("failed to promote manuscript: %w", err)
	}

	if err := writeStatusHistory(tx, manuscript, next, actor, "", "all reviews completed"); err != nil {
		return false, err
	}

	manuscript.Status = next
	return true, nil
}
