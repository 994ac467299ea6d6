package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarly-journal-api/models"

	"gorm.io/gorm"
)

// ReviewService manages review content and completion. Completing a review
// also completes the linked assignment and hands the aggregate check to the
// orchestrator, all inside one manuscript-locked transaction.
type ReviewService struct {
	db       *gorm.DB
	workflow *WorkflowService
	notifier *NotificationService
}

func NewReviewService(db *gorm.DB, workflow *WorkflowService, notifier *NotificationService) *ReviewService {
	return &ReviewService{db: db, workflow: workflow, notifier: notifier}
}

// activeAssignment loads the reviewer's non-declined assignment for the
// manuscript, inside the caller's transaction.
func activeAssignment(tx *gorm.DB, manuscriptID, reviewerID int) (*models.ReviewerAssignment, error) {
	var assignment models.ReviewerAssignment
	err := tx.Where("manuscript_id = ? AND reviewer_id = ? AND status <> ?",
		manuscriptID, reviewerID, models.AssignmentDeclined).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	return &assignment, nil
}

// ensureReview returns the reviewer's review row for the manuscript,
// creating it lazily on first save.
func ensureReview(tx *gorm.DB, manuscriptID, reviewerID int) (*models.Review, error) {
	var review models.Review
	err := tx.Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		First(&review).Error
	if err == nil {
		return &review, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	now := time.Now()
	review = models.Review{
		ManuscriptID: manuscriptID,
		ReviewerID:   reviewerID,
		Ratings:      models.RatingMap{},
		Status:       models.ReviewPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// SaveDraft stores partial ratings and comments, moving the review to
// in-progress. The average is recomputed from whatever is rated so far; it
// is never stored stale.
func (s *ReviewService) SaveDraft(manuscriptID, reviewerID int, ratings models.RatingMap, comments string) (*models.Review, error) {
	var result *models.Review

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := activeAssignment(tx, manuscriptID, reviewerID); err != nil {
			return err
		}

		review, err := ensureReview(tx, manuscriptID, reviewerID)
		if err != nil {
			return err
		}
		if review.Status == models.ReviewCompleted {
			return ErrReviewAlreadySubmitted
		}

		now := time.Now()
		updates := map[string]interface{}{
			"ratings":        ratings,
			"average_rating": AverageRating(ratings),
			"status":         models.ReviewInProgress,
			"updated_at":     now,
		}
		if trimmed := strings.TrimSpace(comments); trimmed != "" {
			updates["comments"] = trimmed
		}
		if err := tx.Model(&models.Review{}).
			Where("review_id = ?", review.ReviewID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to save review draft: %w", err)
		}

		review.Ratings = ratings
		review.AverageRating = AverageRating(ratings)
		review.Status = models.ReviewInProgress
		result = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Submit completes the review. Guards: an active assignment, every
// criterion rated, non-empty comments, a recommendation, and no completed
// review already on record for this cycle. The duplicate check runs inside
// the manuscript-locked transaction, which is what makes it safe against a
// concurrent double submission. On success the linked assignment completes
// and the orchestrator recomputes the promotion aggregate.
func (s *ReviewService) Submit(manuscriptID, reviewerID int, ratings models.RatingMap, comments string, recommendation models.Recommendation, actor Actor) (*models.Review, error) {
	if err := ValidateReviewSubmission(ratings, comments, recommendation); err != nil {
		return nil, err
	}

	var result *models.Review
	var manuscript *models.Manuscript
	var assignerID int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		manuscript, err = lockManuscript(tx, manuscriptID)
		if err != nil {
			return err
		}
		if manuscript.Status != models.StatusUnderReview {
			return &InvalidTransitionError{Event: "submit-review", Current: manuscript.Status}
		}

		assignment, err := activeAssignment(tx, manuscriptID, reviewerID)
		if err != nil {
			return err
		}
		assignerID = assignment.AssignerID

		review, err := ensureReview(tx, manuscriptID, reviewerID)
		if err != nil {
			return err
		}
		if review.Status == models.ReviewCompleted {
			return ErrReviewAlreadySubmitted
		}

		now := time.Now()
		trimmed := strings.TrimSpace(comments)
		if err := tx.Model(&models.Review{}).
			Where("review_id = ?", review.ReviewID).
			Updates(map[string]interface{}{
				"ratings":        ratings,
				"comments":       trimmed,
				"recommendation": recommendation,
				"average_rating": AverageRating(ratings),
				"status":         models.ReviewCompleted,
				"submitted_at":   now,
				"updated_at":     now,
			}).Error; err != nil {
			return fmt.Errorf("failed to submit review: %w", err)
		}

		if err := tx.Model(&models.ReviewerAssignment{}).
			Where("assignment_id = ?", assignment.AssignmentID).
			Updates(map[string]interface{}{
				"status":     models.AssignmentCompleted,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to complete assignment: %w", err)
		}
		assignment.Status = models.AssignmentCompleted

		if _, err := s.workflow.PromoteIfReviewsComplete(tx, manuscript, actor); err != nil {
			return err
		}

		review.Ratings = ratings
		review.Comments = &trimmed
		review.Recommendation = &recommendation
		review.AverageRating = AverageRating(ratings)
		review.Status = models.ReviewCompleted
		review.SubmittedAt = &now
		result = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReviewCompleted(assignerID, manuscript)
	}
	return result, nil
}

// GetOwn returns the reviewer's review for a manuscript.
func (s *ReviewService) GetOwn(manuscriptID, reviewerID int) (*models.Review, error) {
	var review models.Review
	err := s.db.Where("manuscript_id = ? AND reviewer_id = ?", manuscriptID, reviewerID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	return &review, nil
}

// ListByManuscript returns all reviews for a manuscript with reviewer data
// preloaded, for the editor's decision screen.
func (s *ReviewService) ListByManuscript(manuscriptID int) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Preload("Reviewer").
		Where("manuscript_id = ?", manuscriptID).
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
