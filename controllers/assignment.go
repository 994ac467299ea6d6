// controllers/assignment.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"scholarly-journal-api/models"

	"github.com/gin-gonic/gin"
)

// CreateAssignment delegates a manuscript to a reviewer.
func CreateAssignment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req struct {
		ReviewerID   int     `json:"reviewer_id" binding:"required"`
		Deadline     *string `json:"deadline"`
		Instructions string  `json:"instructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Deadline must be YYYY-MM-DD"})
			return
		}
		deadline = &parsed
	}

	assignment, err := assignmentService().Create(manuscriptID, req.ReviewerID, actor, deadline, req.Instructions)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Reviewer assigned",
		"assignment": assignment,
	})
}

// RespondToAssignment records the reviewer's accept or decline.
func RespondToAssignment(c *gin.Context) {
	userID, _ := currentUserID(c)
	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assignmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	var req struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	response := strings.ToLower(strings.TrimSpace(req.Response))
	if response != "accept" && response != "decline" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Response must be either 'accept' or 'decline'"})
		return
	}

	assignment, err := assignmentService().Respond(assignmentID, userID, response == "accept")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Assignment accepted"
	if response == "decline" {
		message = "Assignment declined"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    message,
		"assignment": assignment,
	})
}

// RemoveAssignment detaches a reviewer while the manuscript is still under
// review. The review history stays.
func RemoveAssignment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	assignmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || assignmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	if err := assignmentService().Remove(assignmentID, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Assignment removed"})
}

// GetManuscriptAssignments lists a manuscript's assignments for the editor.
func GetManuscriptAssignments(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	assignments, err := assignmentService().ListByManuscript(manuscriptID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetMyAssignments lists the calling reviewer's assignments.
func GetMyAssignments(c *gin.Context) {
	userID, _ := currentUserID(c)

	assignments, err := assignmentService().ListByReviewer(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Optional status filter, e.g. ?status=assigned
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		filtered := make([]models.ReviewerAssignment, 0, len(assignments))
		for _, assignment := range assignments {
			if string(assignment.Status) == raw {
				filtered = append(filtered, assignment)
			}
		}
		assignments = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetReviewerStats returns assignment counts for a reviewer dashboard.
func GetReviewerStats(c *gin.Context) {
	userID, _ := currentUserID(c)

	// Editors may inspect any reviewer via ?reviewer_id=.
	if raw := c.Query("reviewer_id"); raw != "" && currentRoleID(c) == models.RoleEditor {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			userID = parsed
		}
	}

	stats, err := assignmentService().Stats(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
