// controllers/review.go
package controllers

import (
	"net/http"
	"strconv"

	"scholarly-journal-api/models"

	"github.com/gin-gonic/gin"
)

type ReviewRequest struct {
	Ratings        map[string]int `json:"ratings"`
	Comments       string         `json:"comments"`
	Recommendation string         `json:"recommendation"`
}

// SaveReviewDraft stores partial review work without completing it.
func SaveReviewDraft(c *gin.Context) {
	userID, _ := currentUserID(c)
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := reviewService().SaveDraft(manuscriptID, userID, models.RatingMap(req.Ratings), req.Comments)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review draft saved",
		"review":  review,
	})
}

// SubmitReview completes the reviewer's evaluation.
func SubmitReview(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := reviewService().Submit(manuscriptID, actor.UserID,
		models.RatingMap(req.Ratings), req.Comments,
		models.Recommendation(req.Recommendation), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review submitted",
		"review":  review,
	})
}

// GetMyReview returns the calling reviewer's review for a manuscript.
func GetMyReview(c *gin.Context) {
	userID, _ := currentUserID(c)
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	review, err := reviewService().GetOwn(manuscriptID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// GetManuscriptReviews lists all reviews of a manuscript for the editor's
// decision screen.
func GetManuscriptReviews(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	reviews, err := reviewService().ListByManuscript(manuscriptID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}
