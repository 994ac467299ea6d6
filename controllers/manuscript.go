// controllers/manuscript.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"scholarly-journal-api/config"
	"scholarly-journal-api/models"
	"scholarly-journal-api/services"
	"scholarly-journal-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ===================== MANUSCRIPT MANAGEMENT =====================

type ManuscriptRequest struct {
	Title          string   `json:"title" binding:"required"`
	Abstract       string   `json:"abstract" binding:"required"`
	Keywords       []string `json:"keywords"`
	Specialization string   `json:"specialization" binding:"required"`
	FileID         *int     `json:"file_id"`
}

// CreateManuscript creates a draft manuscript owned by the researcher.
func CreateManuscript(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	var req ManuscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	manuscript := models.Manuscript{
		UserID:         userID,
		Title:          utils.SanitizeInput(req.Title),
		Abstract:       utils.SanitizeInput(req.Abstract),
		Keywords:       utils.NormalizeKeywords(req.Keywords),
		Specialization: utils.SanitizeInput(req.Specialization),
		Status:         models.StatusDraft,
		FileID:         req.FileID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := config.DB.Create(&manuscript).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create manuscript"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"manuscript": manuscript,
	})
}

// UpdateManuscript edits a draft. Only drafts are editable by the
// researcher; everything later is owned by the workflow.
func UpdateManuscript(c *gin.Context) {
	userID, _ := currentUserID(c)
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req ManuscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var manuscript models.Manuscript
	if err := config.DB.Where("manuscript_id = ? AND user_id = ? AND deleted_at IS NULL", manuscriptID, userID).
		First(&manuscript).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
		return
	}

	if manuscript.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Only draft manuscripts can be edited",
			"status": manuscript.Status,
		})
		return
	}

	updates := map[string]interface{}{
		"title":          utils.SanitizeInput(req.Title),
		"abstract":       utils.SanitizeInput(req.Abstract),
		"keywords":       models.KeywordList(utils.NormalizeKeywords(req.Keywords)),
		"specialization": utils.SanitizeInput(req.Specialization),
		"updated_at":     time.Now(),
	}
	if req.FileID != nil {
		updates["file_id"] = *req.FileID
	}

	if err := config.DB.Model(&manuscript).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update manuscript"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}

// GetManuscripts returns manuscripts visible to the caller: researchers see
// their own, editors see everything.
func GetManuscripts(c *gin.Context) {
	userID, _ := currentUserID(c)
	roleID := currentRoleID(c)

	query := config.DB.Preload("User").
		Preload("File").
		Where("deleted_at IS NULL")

	if roleID != models.RoleEditor {
		query = query.Where("user_id = ?", userID)
	}

	if raw := c.Query("status"); raw != "" {
		status, err := services.ParseManuscriptStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query = query.Where("status = ?", status)
	}
	if specialization := c.Query("specialization"); specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}

	var manuscripts []models.Manuscript
	if err := query.Order("created_at DESC").Find(&manuscripts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch manuscripts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"manuscripts": manuscripts,
		"total":       len(manuscripts),
	})
}

// GetManuscript returns a specific manuscript with its workflow records.
func GetManuscript(c *gin.Context) {
	userID, _ := currentUserID(c)
	roleID := currentRoleID(c)
	manuscriptID := c.Param("id")

	query := config.DB.Preload("User").
		Preload("File").
		Preload("Assignments.Reviewer").
		Preload("Reviews.Reviewer").
		Preload("RevisionRequests")

	var manuscript models.Manuscript
	if err := query.Where("manuscript_id = ? AND deleted_at IS NULL", manuscriptID).
		First(&manuscript).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
		return
	}

	// Researchers may only see their own; reviewers need an assignment.
	switch roleID {
	case models.RoleEditor:
	case models.RoleReviewer:
		allowed := manuscript.UserID == userID
		for _, assignment := range manuscript.Assignments {
			if assignment.ReviewerID == userID {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
			return
		}
	default:
		if manuscript.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "manuscript": manuscript})
}

// SubmitManuscript moves a draft into review through the orchestrator.
func SubmitManuscript(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	// Ownership check; the workflow itself only guards state.
	var owned int64
	if err := config.DB.Model(&models.Manuscript{}).
		Where("manuscript_id = ? AND user_id = ? AND deleted_at IS NULL", manuscriptID, actor.UserID).
		Count(&owned).Error; err != nil || owned == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
		return
	}

	manuscript, err := workflowService().SubmitManuscript(manuscriptID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Manuscript submitted for review",
		"manuscript": manuscript,
	})
}

// DecideManuscript records the editor's accept/reject/needs-revision
// decision.
func DecideManuscript(c *gin.Context) {
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
		Decision string  `json:"decision" binding:"required"`
		Notes    string  `json:"notes"`
		Deadline *string `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	event, err := services.ParseDecision(req.Decision)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	manuscript, err := workflowService().Decide(manuscriptID, actor, event, req.Notes, deadline)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Decision recorded",
		"manuscript": manuscript,
	})
}

// SubmitManuscriptRevision records the researcher's resubmission for the
// pending revision request.
func SubmitManuscriptRevision(c *gin.Context) {
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
		Notes  string `json:"notes" binding:"required"`
		FileID int    `json:"file_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var manuscript models.Manuscript
	if err := config.DB.Where("manuscript_id = ? AND user_id = ? AND deleted_at IS NULL", manuscriptID, actor.UserID).
		First(&manuscript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load manuscript"})
		return
	}

	updated, err := workflowService().SubmitRevision(manuscriptID, actor, req.Notes, req.FileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Revision submitted, manuscript returned to review",
		"manuscript": updated,
	})
}

// PublishManuscript marks an accepted manuscript as published.
func PublishManuscript(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	manuscript, err := workflowService().Publish(manuscriptID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Manuscript published",
		"manuscript": manuscript,
	})
}

// GetManuscriptStatusHistory returns the transition log for a manuscript.
func GetManuscriptStatusHistory(c *gin.Context) {
	manuscriptID := c.Param("id")

	var history []models.ManuscriptStatusHistory
	if err := config.DB.Where("manuscript_id = ?", manuscriptID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": history,
		"total":   len(history),
	})
}

// DeleteManuscript soft-deletes a draft. Manuscripts referenced by
// assignments, reviews or revisions are never deleted.
func DeleteManuscript(c *gin.Context) {
	userID, _ := currentUserID(c)
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var manuscript models.Manuscript
	if err := config.DB.Where("manuscript_id = ? AND user_id = ? AND deleted_at IS NULL", manuscriptID, userID).
		First(&manuscript).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Manuscript not found"})
		return
	}

	if manuscript.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft manuscripts can be deleted"})
		return
	}

	var references int64
	if err := config.DB.Model(&models.ReviewerAssignment{}).
		Where("manuscript_id = ?", manuscriptID).
		Count(&references).Error; err == nil && references > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Manuscript has reviewer assignments and cannot be deleted"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&manuscript).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete manuscript"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Manuscript deleted"})
}
