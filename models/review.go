package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReviewStatus is the lifecycle of a single review.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "pending"
	ReviewInProgress ReviewStatus = "in-progress"
	ReviewCompleted  ReviewStatus = "completed"
)

// Recommendation is the reviewer's advisory verdict. It never sets the
// manuscript status directly; only the editor's decision does.
type Recommendation string

const (
	RecommendAccepted      Recommendation = "accepted"
	RecommendNeedsRevision Recommendation = "needs-revision"
	RecommendRejected      Recommendation = "rejected"
)

// RatingMap stores per-criterion ratings (1-5) as a JSON object column.
type RatingMap map[string]int

// Value implements driver.Valuer.
func (r RatingMap) Value() (driver.Value, error) {
	if r == nil {
		r = RatingMap{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (r *RatingMap) Scan(value interface{}) error {
	if value == nil {
		*r = RatingMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported rating map type %T", value)
	}
}

// Review represents the reviews table: one reviewer's scored evaluation of a
// manuscript for the current revision cycle. On revision the row is reset to
// pending rather than replaced, so a reviewer keeps one continuous record.
type Review struct {
	ReviewID       int             `gorm:"primaryKey;column:review_id" json:"review_id"`
	ManuscriptID   int             `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewerID     int             `gorm:"column:reviewer_id" json:"reviewer_id"`
	Ratings        RatingMap       `gorm:"column:ratings;type:json" json:"ratings"`
	Comments       *string         `gorm:"column:comments" json:"comments,omitempty"`
	Recommendation *Recommendation `gorm:"column:recommendation" json:"recommendation,omitempty"`
	AverageRating  float64         `gorm:"column:average_rating" json:"average_rating"`
	Status         ReviewStatus    `gorm:"column:status" json:"status"`
	SubmittedAt    *time.Time      `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Manuscript *Manuscript `gorm:"foreignKey:ManuscriptID" json:"manuscript,omitempty"`
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName overrides the table name for Review.
func (Review) TableName() string {
	return "reviews"
}
