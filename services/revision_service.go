package services

import (
	"errors"
	"fmt"
	"time"

	"scholarly-journal-api/models"

	"gorm.io/gorm"
)

// createRevisionRequest opens a new pending revision round inside the
// caller's transaction. The pre-revision manuscript fields are snapshotted
// eagerly so later concurrent edits cannot corrupt the historical
// comparison.
func createRevisionRequest(tx *gorm.DB, manuscript *models.Manuscript, editorNotes string, deadline *time.Time) (*models.RevisionRequest, error) {
	var pending int64
	if err := tx.Model(&models.RevisionRequest{}).
		Where("manuscript_id = ? AND status = ?", manuscript.ManuscriptID, models.RevisionPending).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to check pending revisions: %w", err)
	}
	if pending > 0 {
		return nil, ErrPendingRevisionExists
	}

	var maxNumber int64
	if err := tx.Model(&models.RevisionRequest{}).
		Where("manuscript_id = ?", manuscript.ManuscriptID).
		Select("COALESCE(MAX(revision_number), 0)").
		Scan(&maxNumber).Error; err != nil {
		return nil, fmt.Errorf("failed to sequence revision number: %w", err)
	}

	now := time.Now()
	revision := models.RevisionRequest{
		ManuscriptID:   manuscript.ManuscriptID,
		RevisionNumber: int(maxNumber) + 1,
		EditorNotes:    editorNotes,
		Status:         models.RevisionPending,
		Deadline:       deadline,
		OriginalData: models.ManuscriptSnapshot{
			Abstract: manuscript.Abstract,
			Keywords: append(models.KeywordList(nil), manuscript.Keywords...),
			FileID:   manuscript.FileID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&revision).Error; err != nil {
		return nil, fmt.Errorf("failed to create revision request: %w", err)
	}
	return &revision, nil
}

// RevisionService reads revision rounds and their snapshots. Writes go
// through the WorkflowService.
type RevisionService struct {
	db *gorm.DB
}

func NewRevisionService(db *gorm.DB) *RevisionService {
	return &RevisionService{db: db}
}

// GetPending returns the manuscript's open revision request, if any.
func (s *RevisionService) GetPending(manuscriptID int) (*models.RevisionRequest, error) {
	var revision models.RevisionRequest
	err := s.db.Where("manuscript_id = ? AND status = ?", manuscriptID, models.RevisionPending).
		First(&revision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingRevision
		}
		return nil, fmt.Errorf("failed to load pending revision: %w", err)
	}
	return &revision, nil
}

// List returns all revision rounds for a manuscript, oldest first.
func (s *RevisionService) List(manuscriptID int) ([]models.RevisionRequest, error) {
	var revisions []models.RevisionRequest
	if err := s.db.Where("manuscript_id = ?", manuscriptID).
		Order("revision_number ASC").
		Find(&revisions).Error; err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revisions, nil
}

// SnapshotComparison pairs the immutable pre-revision snapshot with the
// manuscript's current fields for before/after display.
type SnapshotComparison struct {
	RevisionNumber int                       `json:"revision_number"`
	Original       models.ManuscriptSnapshot `json:"original"`
	Current        models.ManuscriptSnapshot `json:"current"`
}

// Compare returns the before/after view for one revision round.
func (s *RevisionService) Compare(revisionID int) (*SnapshotComparison, error) {
	var revision models.RevisionRequest
	if err := s.db.Where("revision_id = ?", revisionID).First(&revision).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingRevision
		}
		return nil, fmt.Errorf("failed to load revision: %w", err)
	}

	var manuscript models.Manuscript
	if err := s.db.Where("manuscript_id = ? AND deleted_at IS NULL", revision.ManuscriptID).
		First(&manuscript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("failed to load manuscript: %w", err)
	}

	return &SnapshotComparison{
		RevisionNumber: revision.RevisionNumber,
		Original:       revision.OriginalData,
		Current: models.ManuscriptSnapshot{
			Abstract: manuscript.Abstract,
			Keywords: manuscript.Keywords,
			FileID:   manuscript.FileID,
		},
	}, nil
}
