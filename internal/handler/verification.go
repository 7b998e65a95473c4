package handler

import (
	"net/http"
	"strconv"

	"supplier-verify/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VerificationHandler interface {
	GetAllRecords(c *gin.Context)
	GetRecordByID(c *gin.Context)
}

type verificationHandler struct {
	repo   repository.VerificationRepository
	logger *zap.Logger
}

func NewVerificationHandler(repo repository.VerificationRepository, logger *zap.Logger) VerificationHandler {
	return &verificationHandler{repo: repo, logger: logger}
}

// GetAllRecords handles GET /api/verifications
// Query parameters:
// - supplier: filter by supplier name (optional)
func (h *verificationHandler) GetAllRecords(c *gin.Context) {
	supplier := c.Query("supplier")

	if supplier != "" {
		recs, err := h.repo.GetRecordsBySupplier(supplier)
		if err != nil {
			h.logger.Error("Failed to get verification records", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"verifications": recs})
		return
	}

	recs, err := h.repo.GetAllRecords()
	if err != nil {
		h.logger.Error("Failed to get verification records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verifications": recs})
}

// GetRecordByID handles GET /api/verifications/:id
func (h *verificationHandler) GetRecordByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Error("Invalid record ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID"})
		return
	}

	record, err := h.repo.GetRecordByID(id)
	if err != nil {
		h.logger.Error("Failed to get verification record", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve record"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verification": record})
}
