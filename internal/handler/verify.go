package handler

import (
	"context"
	"errors"
	"net/http"

	"supplier-verify/internal/interview"
	"supplier-verify/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InterviewRunner abstracts the interview orchestrator for the HTTP layer.
type InterviewRunner interface {
	Run(ctx context.Context, supplierName string, formData map[string]interface{}) (*models.InterviewResult, error)
}

type VerifyHandler interface {
	VerifySupplier(c *gin.Context)
}

type verifyHandler struct {
	runner InterviewRunner
	logger *zap.Logger
}

func NewVerifyHandler(runner InterviewRunner, logger *zap.Logger) VerifyHandler {
	return &verifyHandler{runner: runner, logger: logger}
}

type VerifySupplierRequest struct {
	SupplierName string                 `json:"supplier_name"`
	FormData     map[string]interface{} `json:"form_data"`
}

// VerifySupplier handles POST /verify_supplier. The interview runs
// synchronously; audio capture blocks for the configured duration per
// question, so this call is slow by design.
func (h *verifyHandler) VerifySupplier(c *gin.Context) {
	var req VerifySupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON for supplier verification", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplierName := req.SupplierName
	if supplierName == "" {
		supplierName = "New Supplier"
	}

	result, err := h.runner.Run(c.Request.Context(), supplierName, req.FormData)
	if err != nil {
		var phaseErr *interview.PhaseError
		if errors.As(err, &phaseErr) {
			h.logger.Error("Interview failed",
				zap.String("supplier", supplierName),
				zap.String("phase", string(phaseErr.Phase)),
				zap.Error(phaseErr.Err))

			status := http.StatusInternalServerError
			if errors.Is(err, interview.ErrNoQuestions) {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, gin.H{
				"error": phaseErr.Err.Error(),
				"phase": string(phaseErr.Phase),
			})
			return
		}

		h.logger.Error("Interview failed", zap.String("supplier", supplierName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Supplier verification failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
