package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarly-journal-api/models"

	"gorm.io/gorm"
)

// AssignmentService manages the editor's delegation of manuscripts to
// reviewers. Assignment completion is driven only by the linked review
// completing, never by direct editor action.
type AssignmentService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewAssignmentService(db *gorm.DB, notifier *NotificationService) *AssignmentService {
	return &AssignmentService{db: db, notifier: notifier}
}

// Create assigns a reviewer to a manuscript under review. The uniqueness
// guard (one non-declined assignment per reviewer per manuscript) is
// enforced at the point of commit, under the manuscript row lock, so
// concurrent assignment requests cannot both succeed.
func (s *AssignmentService) Create(manuscriptID, reviewerID int, actor Actor, deadline *time.Time, instructions string) (*models.ReviewerAssignment, error) {
	var result *models.ReviewerAssignment
	var manuscript *models.Manuscript

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		manuscript, err = lockManuscript(tx, manuscriptID)
		if err != nil {
			return err
		}

		if manuscript.Status != models.StatusUnderReview {
			return &InvalidTransitionError{Event: "assign-reviewer", Current: manuscript.Status}
		}

		var reviewer models.User
		if err := tx.Where("user_id = ? AND delete_at IS NULL", reviewerID).First(&reviewer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reviewer %d not found", reviewerID)
			}
			return fmt.Errorf("failed to load reviewer: %w", err)
		}

		var active int64
		if err := tx.Model(&models.ReviewerAssignment{}).
			Where("manuscript_id = ? AND reviewer_id = ? AND status <> ?",
				manuscriptID, reviewerID, models.AssignmentDeclined).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to check existing assignments: %w", err)
		}
		if active > 0 {
			return ErrDuplicateAssignment
		}

		now := time.Now()
		assignment := models.ReviewerAssignment{
			ManuscriptID: manuscriptID,
			ReviewerID:   reviewerID,
			AssignerID:   actor.UserID,
			Deadline:     deadline,
			Status:       models.AssignmentAssigned,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if trimmed := strings.TrimSpace(instructions); trimmed != "" {
			assignment.Instructions = &trimmed
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		if err := writeAudit(tx, manuscript, actor, "assign", "Reviewer assigned", map[string]interface{}{
			"reviewer_id": reviewerID,
		}); err != nil {
			return err
		}

		result = &assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.AssignmentCreated(result, manuscript)
	}
	return result, nil
}

// Respond records the reviewer's accept or decline. Declined is terminal
// for the assignment instance; the editor must assign someone else.
func (s *AssignmentService) Respond(assignmentID, reviewerID int, accept bool) (*models.ReviewerAssignment, error) {
	var result *models.ReviewerAssignment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.ReviewerAssignment
		if err := tx.Where("assignment_id = ? AND reviewer_id = ?", assignmentID, reviewerID).
			First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to load assignment: %w", err)
		}

		switch assignment.Status {
		case models.AssignmentAssigned:
		case models.AssignmentDeclined:
			return ErrAssignmentDeclined
		default:
			return fmt.Errorf("assignment already %s", assignment.Status)
		}

		next := models.AssignmentAccepted
		if !accept {
			next = models.AssignmentDeclined
		}
		now := time.Now()
		if err := tx.Model(&models.ReviewerAssignment{}).
			Where("assignment_id = ?", assignment.AssignmentID).
			Updates(map[string]interface{}{
				"status":     next,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}

		assignment.Status = next
		result = &assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove detaches a reviewer's future obligation. Permitted only while the
// manuscript is still under review; the linked review history is kept.
func (s *AssignmentService) Remove(assignmentID int, actor Actor) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var assignment models.ReviewerAssignment
		if err := tx.Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to load assignment: %w", err)
		}

		manuscript, err := lockManuscript(tx, assignment.ManuscriptID)
		if err != nil {
			return err
		}
		if manuscript.Status != models.StatusUnderReview {
			return &InvalidTransitionError{Event: "remove-assignment", Current: manuscript.Status}
		}

		if err := tx.Delete(&models.ReviewerAssignment{}, assignment.AssignmentID).Error; err != nil {
			return fmt.Errorf("failed to remove assignment: %w", err)
		}

		return writeAudit(tx, manuscript, actor, "unassign", "Reviewer assignment removed", map[string]interface{}{
			"reviewer_id": assignment.ReviewerID,
		})
	})
}

// ReviewerStats holds per-reviewer assignment counts for dashboards.
type ReviewerStats struct {
	Assigned  int64 `json:"assigned"`
	Accepted  int64 `json:"accepted"`
	Completed int64 `json:"completed"`
}

// Stats is a read-only aggregate with no side effects.
func (s *AssignmentService) Stats(reviewerID int) (*ReviewerStats, error) {
	stats := &ReviewerStats{}
	counts := []struct {
		status models.AssignmentStatus
		target *int64
	}{
		{models.AssignmentAssigned, &stats.Assigned},
		{models.AssignmentAccepted, &stats.Accepted},
		{models.AssignmentCompleted, &stats.Completed},
	}
	for _, count := range counts {
		if err := s.db.Model(&models.ReviewerAssignment{}).
			Where("reviewer_id = ? AND status = ?", reviewerID, count.status).
			Count(count.target).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s assignments: %w", count.status, err)
		}
	}
	return stats, nil
}

// ListByManuscript returns every assignment for a manuscript with reviewer
// data preloaded.
func (s *AssignmentService) ListByManuscript(manuscriptID int) ([]models.ReviewerAssignment, error) {
	var assignments []models.ReviewerAssignment
	if err := s.db.Preload("Reviewer").
		Where("manuscript_id = ?", manuscriptID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// ListByReviewer returns a reviewer's assignments with manuscripts
// preloaded, newest first.
func (s *AssignmentService) ListByReviewer(reviewerID int) ([]models.ReviewerAssignment, error) {
	var assignments []models.ReviewerAssignment
	if err := s.db.Preload("Manuscript").
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}
