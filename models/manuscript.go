package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ManuscriptStatus is the closed set of workflow states for a manuscript.
type ManuscriptStatus string

const (
	StatusDraft                 ManuscriptStatus = "draft"
	StatusUnderReview           ManuscriptStatus = "under-review"
	StatusPendingEditorDecision ManuscriptStatus = "pending-editor-decision"
	StatusNeedsRevision         ManuscriptStatus = "needs-revision"
	StatusAccepted              ManuscriptStatus = "accepted"
	StatusRejected              ManuscriptStatus = "rejected"
	StatusPublished             ManuscriptStatus = "published"
)

// IsTerminalDecision reports whether the status represents a concluded
// editorial decision.
func (s ManuscriptStatus) IsTerminalDecision() bool {
	return s == StatusAccepted || s == StatusRejected
}

// KeywordList stores an ordered keyword sequence as a JSON array column.
type KeywordList []string

// Value implements driver.Valuer.
func (k KeywordList) Value() (driver.Value, error) {
	if k == nil {
		k = KeywordList{}
	}
	data, err := json.Marshal(k)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (k *KeywordList) Scan(value interface{}) error {
	if value == nil {
		*k = KeywordList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, k)
	case string:
		return json.Unmarshal([]byte(v), k)
	default:
		return fmt.Errorf("unsupported keyword list type %T", value)
	}
}

// Manuscript represents the manuscripts table ("research" in the journal UI).
type Manuscript struct {
	ManuscriptID     int              `gorm:"primaryKey;column:manuscript_id" json:"manuscript_id"`
	ManuscriptNumber string           `gorm:"column:manuscript_number;unique" json:"manuscript_number"`
	UserID           int              `gorm:"column:user_id" json:"user_id"`
	Title            string           `gorm:"column:title" json:"title"`
	Abstract         string           `gorm:"column:abstract" json:"abstract"`
	Keywords         KeywordList      `gorm:"column:keywords;type:json" json:"keywords"`
	Specialization   string           `gorm:"column:specialization" json:"specialization"`
	Status           ManuscriptStatus `gorm:"column:status" json:"status"`
	FileID           *int             `gorm:"column:file_id" json:"file_id,omitempty"`
	SubmittedAt      *time.Time       `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	EvaluatedAt      *time.Time       `gorm:"column:evaluated_at" json:"evaluated_at,omitempty"`
	PublishedAt      *time.Time       `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt        time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt        *time.Time       `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	User             *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	File             *FileUpload          `gorm:"foreignKey:FileID" json:"file,omitempty"`
	Assignments      []ReviewerAssignment `gorm:"foreignKey:ManuscriptID" json:"assignments,omitempty"`
	Reviews          []Review             `gorm:"foreignKey:ManuscriptID" json:"reviews,omitempty"`
	RevisionRequests []RevisionRequest    `gorm:"foreignKey:ManuscriptID" json:"revision_requests,omitempty"`
}

// TableName overrides the table name for Manuscript.
func (Manuscript) TableName() string {
	return "manuscripts"
}
