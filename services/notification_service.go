package services

import (
	"fmt"
	"log"
	"time"

	"scholarly-journal-api/config"
	"scholarly-journal-api/models"

	"gorm.io/gorm"
)

// NotificationService records workflow events as per-user notifications and
// optionally mails the recipient. It is a downstream observer: failures are
// logged and never propagate into the workflow transition that raised them.
type NotificationService struct {
	db        *gorm.DB
	sendEmail bool
}

func NewNotificationService(db *gorm.DB, sendEmail bool) *NotificationService {
	return &NotificationService{db: db, sendEmail: sendEmail}
}

func (s *NotificationService) notify(userID int, manuscriptID int, ntype, title, message string) {
	notification := models.Notification{
		UserID:              userID,
		Title:               title,
		Message:             message,
		Type:                ntype,
		RelatedManuscriptID: &manuscriptID,
		CreateAt:            time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create notification for user %d: %v", userID, err)
		return
	}

	if !s.sendEmail {
		return
	}

	var user models.User
	if err := s.db.Select("email").Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		return
	}
	body := fmt.Sprintf("<p>%s</p>", message)
	if err := config.SendMail([]string{user.Email}, title, body); err != nil {
		log.Printf("Warning: failed to send notification email to user %d: %v", userID, err)
	}
}

// AssignmentCreated notifies the reviewer of a new assignment.
func (s *NotificationService) AssignmentCreated(assignment *models.ReviewerAssignment, manuscript *models.Manuscript) {
	s.notify(assignment.ReviewerID, manuscript.ManuscriptID, "info",
		"New review assignment",
		fmt.Sprintf("You have been assigned to review manuscript %s: %s", manuscript.ManuscriptNumber, manuscript.Title))
}

// ReviewCompleted notifies the assigning editor that a review came in.
func (s *NotificationService) ReviewCompleted(assignerID int, manuscript *models.Manuscript) {
	s.notify(assignerID, manuscript.ManuscriptID, "info",
		"Review completed",
		fmt.Sprintf("A review was completed for manuscript %s", manuscript.ManuscriptNumber))
}

// DecisionMade notifies the researcher of the editorial decision.
func (s *NotificationService) DecisionMade(manuscript *models.Manuscript, decision models.ManuscriptStatus) {
	ntype := "info"
	switch decision {
	case models.StatusAccepted:
		ntype = "success"
	case models.StatusRejected:
		ntype = "error"
	case models.StatusNeedsRevision:
		ntype = "warning"
	}
	s.notify(manuscript.UserID, manuscript.ManuscriptID, ntype,
		"Editorial decision",
		fmt.Sprintf("Manuscript %s decision: %s", manuscript.ManuscriptNumber, decision))
}

// RevisionSubmitted notifies every reviewer with an active assignment that
// the manuscript is back under review.
func (s *NotificationService) RevisionSubmitted(manuscript *models.Manuscript) {
	var assignments []models.ReviewerAssignment
	if err := s.db.Where("manuscript_id = ? AND status <> ?", manuscript.ManuscriptID, models.AssignmentDeclined).
		Find(&assignments).Error; err != nil {
		log.Printf("Warning: failed to load assignments for revision notice: %v", err)
		return
	}
	for _, assignment := range assignments {
		s.notify(assignment.ReviewerID, manuscript.ManuscriptID, "info",
			"Revised manuscript ready for re-review",
			fmt.Sprintf("Manuscript %s has been revised and awaits your re-review", manuscript.ManuscriptNumber))
	}
}

// ManuscriptPublished notifies the researcher of publication.
func (s *NotificationService) ManuscriptPublished(manuscript *models.Manuscript) {
	s.notify(manuscript.UserID, manuscript.ManuscriptID, "success",
		"Manuscript published",
		fmt.Sprintf("Manuscript %s has been published", manuscript.ManuscriptNumber))
}
