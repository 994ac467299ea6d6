// controllers/document.go
package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"scholarly-journal-api/config"
	"scholarly-journal-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 20 << 20 // 20 MB

// UploadDocument stores a manuscript file and returns its file record. The
// workflow only keeps the reference; content is never interpreted.
func UploadDocument(c *gin.Context) {
	userID, _ := currentUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 20MB limit"})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	storedName := uuid.New().String() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(uploadPath, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	hash, err := hashFile(storedPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash file"})
		return
	}

	now := time.Now()
	upload := models.FileUpload{
		OriginalName: file.Filename,
		StoredPath:   storedPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		FileHash:     hash,
		UploadedBy:   userID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}

	if !upload.IsValidManuscriptType() {
		_ = os.Remove(storedPath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and Word documents are accepted"})
		return
	}

	if err := config.DB.Create(&upload).Error; err != nil {
		_ = os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"file":    upload,
	})
}

// DownloadDocument streams a stored file to an authorized caller.
func DownloadDocument(c *gin.Context) {
	userID, _ := currentUserID(c)
	roleID := currentRoleID(c)

	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil || fileID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	var upload models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&upload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if roleID != models.RoleEditor && upload.UploadedBy != userID {
		// Reviewers may download files of manuscripts assigned to them.
		var assigned int64
		config.DB.Model(&models.ReviewerAssignment{}).
			Joins("JOIN manuscripts ON manuscripts.manuscript_id = reviewer_assignments.manuscript_id").
			Where("manuscripts.file_id = ? AND reviewer_assignments.reviewer_id = ? AND reviewer_assignments.status <> ?",
				fileID, userID, models.AssignmentDeclined).
			Count(&assigned)
		if assigned == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to download this file"})
			return
		}
	}

	c.FileAttachment(upload.StoredPath, upload.OriginalName)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
