// controllers/dashboard.go
package controllers

import (
	"net/http"

	"scholarly-journal-api/config"
	"scholarly-journal-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDashboardStats returns role-appropriate workload counts. Dashboards
// are read-only observers of the workflow; nothing here mutates state.
func GetDashboardStats(c *gin.Context) {
	userID, _ := currentUserID(c)
	roleID := currentRoleID(c)

	switch roleID {
	case models.RoleEditor:
		editorStats(c)
	case models.RoleReviewer:
		reviewerDashboard(c, userID)
	default:
		researcherStats(c, userID)
	}
}

func countManuscripts(query *gorm.DB, status models.ManuscriptStatus) int64 {
	var count int64
	query.Session(&gorm.Session{}).Where("status = ?", status).Count(&count)
	return count
}

func researcherStats(c *gin.Context, userID int) {
	base := config.DB.Model(&models.Manuscript{}).
		Where("user_id = ? AND deleted_at IS NULL", userID)

	stats := gin.H{}
	for _, status := range []models.ManuscriptStatus{
		models.StatusDraft,
		models.StatusUnderReview,
		models.StatusPendingEditorDecision,
		models.StatusNeedsRevision,
		models.StatusAccepted,
		models.StatusRejected,
		models.StatusPublished,
	} {
		stats[string(status)] = countManuscripts(base, status)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func reviewerDashboard(c *gin.Context, userID int) {
	stats, err := assignmentService().Stats(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var pendingReviews int64
	config.DB.Model(&models.Review{}).
		Where("reviewer_id = ? AND status <> ?", userID, models.ReviewCompleted).
		Count(&pendingReviews)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"assignments":     stats,
		"pending_reviews": pendingReviews,
	})
}

func editorStats(c *gin.Context) {
	base := config.DB.Model(&models.Manuscript{}).Where("deleted_at IS NULL")

	queues := gin.H{
		"under_review":     countManuscripts(base, models.StatusUnderReview),
		"pending_decision": countManuscripts(base, models.StatusPendingEditorDecision),
		"needs_revision":   countManuscripts(base, models.StatusNeedsRevision),
		"accepted":         countManuscripts(base, models.StatusAccepted),
		"published":        countManuscripts(base, models.StatusPublished),
	}

	var openAssignments int64
	config.DB.Model(&models.ReviewerAssignment{}).
		Where("status IN ?", []models.AssignmentStatus{models.AssignmentAssigned, models.AssignmentAccepted}).
		Count(&openAssignments)

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"queues":           queues,
		"open_assignments": openAssignments,
	})
}
