package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RevisionStatus is the lifecycle of a revision request.
type RevisionStatus string

const (
	RevisionPending   RevisionStatus = "pending"
	RevisionSubmitted RevisionStatus = "submitted"
)

// ManuscriptSnapshot is the immutable pre-revision copy of the manuscript
// fields, captured eagerly when the revision request is created and used
// later for before/after comparison.
type ManuscriptSnapshot struct {
	Abstract string      `json:"abstract"`
	Keywords KeywordList `json:"keywords"`
	FileID   *int        `json:"file_id,omitempty"`
}

// Value implements driver.Valuer.
func (s ManuscriptSnapshot) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *ManuscriptSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = ManuscriptSnapshot{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported snapshot type %T", value)
	}
}

// RevisionRequest represents the revision_requests table: one round-trip of
// editor-requested changes and the researcher's resubmission.
type RevisionRequest struct {
	RevisionID     int                `gorm:"primaryKey;column:revision_id" json:"revision_id"`
	ManuscriptID   int                `gorm:"column:manuscript_id" json:"manuscript_id"`
	RevisionNumber int                `gorm:"column:revision_number" json:"revision_number"`
	EditorNotes    string             `gorm:"column:editor_notes" json:"editor_notes"`
	ResponseNotes  *string            `gorm:"column:response_notes" json:"response_notes,omitempty"`
	Status         RevisionStatus     `gorm:"column:status" json:"status"`
	Deadline       *time.Time         `gorm:"column:deadline" json:"deadline,omitempty"`
	OriginalData   ManuscriptSnapshot `gorm:"column:original_data;type:json" json:"original_data"`
	SubmittedAt    *time.Time         `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt      time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Manuscript *Manuscript `gorm:"foreignKey:ManuscriptID" json:"manuscript,omitempty"`
}

// TableName overrides the table name for RevisionRequest.
func (RevisionRequest) TableName() string {
	return "revision_requests"
}
