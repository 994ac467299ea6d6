package models

import "time"

// AssignmentStatus is the lifecycle of a reviewer assignment.
type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentDeclined  AssignmentStatus = "declined"
	AssignmentCompleted AssignmentStatus = "completed"
)

// IsActive reports whether the assignment still obligates the reviewer.
// Declined is terminal for the assignment instance.
func (s AssignmentStatus) IsActive() bool {
	return s != AssignmentDeclined
}

// ReviewerAssignment represents the reviewer_assignments table: the editor's
// delegation of one manuscript to one reviewer.
type ReviewerAssignment struct {
	AssignmentID int              `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	ManuscriptID int              `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewerID   int              `gorm:"column:reviewer_id" json:"reviewer_id"`
	AssignerID   int              `gorm:"column:assigner_id" json:"assigner_id"`
	Deadline     *time.Time       `gorm:"column:deadline" json:"deadline,omitempty"`
	Instructions *string          `gorm:"column:instructions" json:"instructions,omitempty"`
	Status       AssignmentStatus `gorm:"column:status" json:"status"`
	CreatedAt    time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Manuscript *Manuscript `gorm:"foreignKey:ManuscriptID" json:"manuscript,omitempty"`
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Assigner   *User       `gorm:"foreignKey:AssignerID" json:"assigner,omitempty"`
}

// TableName overrides the table name for ReviewerAssignment.
func (ReviewerAssignment) TableName() string {
	return "reviewer_assignments"
}
