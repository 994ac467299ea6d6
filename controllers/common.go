// controllers/common.go
package controllers

import (
	"errors"
	"net/http"
	"os"

	"scholarly-journal-api/config"
	"scholarly-journal-api/services"

	"github.com/gin-gonic/gin"
)

func notificationService() *services.NotificationService {
	return services.NewNotificationService(config.DB, os.Getenv("NOTIFY_EMAIL") == "1")
}

// The fee gate is an external collaborator; until the payment service is
// wired in, every manuscript is treated as cleared.
func feeChecker() services.FeeChecker {
	return services.AllowAllFees{}
}

func workflowService() *services.WorkflowService {
	return services.NewWorkflowService(config.DB, feeChecker(), notificationService())
}

func assignmentService() *services.AssignmentService {
	return services.NewAssignmentService(config.DB, notificationService())
}

func reviewService() *services.ReviewService {
	return services.NewReviewService(config.DB, workflowService(), notificationService())
}

func revisionService() *services.RevisionService {
	return services.NewRevisionService(config.DB)
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	userID, ok := value.(int)
	return userID, ok
}

func currentRoleID(c *gin.Context) int {
	value, exists := c.Get("roleID")
	if !exists {
		return 0
	}
	roleID, _ := value.(int)
	return roleID
}

func actorFrom(c *gin.Context) (services.Actor, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return services.Actor{}, false
	}
	return services.Actor{
		UserID:    userID,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}, true
}

// respondServiceError maps the workflow error taxonomy onto HTTP statuses:
// invalid transitions and concurrency conflicts are 409 so the client
// refetches state, missing preconditions are 400, lookups are 404.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrManuscriptNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsInvalidTransition(err), services.IsConflict(err),
		errors.Is(err, services.ErrAssignmentDeclined),
		errors.Is(err, services.ErrNoPendingRevision):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case services.IsMissingFields(err), errors.Is(err, services.ErrFeeNotVerified):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func ptr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
