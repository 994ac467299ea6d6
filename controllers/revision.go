// controllers/revision.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPendingRevision returns the manuscript's open revision request, used
// by the researcher's revision screen.
func GetPendingRevision(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	revision, err := revisionService().GetPending(manuscriptID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "revision": revision})
}

// GetManuscriptRevisions lists every revision round for a manuscript.
func GetManuscriptRevisions(c *gin.Context) {
	manuscriptID, err := strconv.Atoi(c.Param("id"))
	if err != nil || manuscriptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript ID"})
		return
	}

	revisions, err := revisionService().List(manuscriptID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"revisions": revisions,
		"total":     len(revisions),
	})
}

// CompareRevision returns the before/after snapshot view for one revision
// round.
func CompareRevision(c *gin.Context) {
	revisionID, err := strconv.Atoi(c.Param("revision_id"))
	if err != nil || revisionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid revision ID"})
		return
	}

	comparison, err := revisionService().Compare(revisionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comparison": comparison})
}
