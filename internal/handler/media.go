package handler

import (
	"errors"
	"net/http"

	"supplier-verify/internal/analyzer"
	"supplier-verify/internal/metrics"
	"supplier-verify/internal/speech_client"
	"supplier-verify/internal/vision_client"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaHandler exposes the stateless model-wrapper endpoints: transcription,
// text analysis, audio emotion, face matching and OCR.
type MediaHandler interface {
	Transcribe(c *gin.Context)
	AnalyzeText(c *gin.Context)
	AnalyzeAudioEmotion(c *gin.Context)
	VerifyFace(c *gin.Context)
	OCRDocument(c *gin.Context)
}

type mediaHandler struct {
	speech   *speech_client.Client
	vision   *vision_client.Client
	analyzer *analyzer.Analyzer
	logger   *zap.Logger
}

func NewMediaHandler(speech *speech_client.Client, vision *vision_client.Client, textAnalyzer *analyzer.Analyzer, logger *zap.Logger) MediaHandler {
	return &mediaHandler{
		speech:   speech,
		vision:   vision,
		analyzer: textAnalyzer,
		logger:   logger,
	}
}

// Transcribe handles POST /transcribe (multipart "audio" field).
func (h *mediaHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio uploaded."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded audio", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded audio"})
		return
	}
	defer file.Close()

	text, err := h.speech.TranscribeReader(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		metrics.CollaboratorErrors.WithLabelValues("speech").Inc()
		h.logger.Error("Transcription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transcription failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcription": text})
}

type AnalyzeTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnalyzeText handles POST /analyze_text: heuristic scoring plus the LLM
// fraud analysis over one piece of text.
func (h *mediaHandler) AnalyzeText(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		metrics.CollaboratorErrors.WithLabelValues("sentiment").Inc()
		h.logger.Error("Text analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Text analysis failed"})
		return
	}

	fraud, err := h.analyzer.FraudAnalysis(c.Request.Context(), req.Text)
	if err != nil {
		metrics.CollaboratorErrors.WithLabelValues("llm").Inc()
		h.logger.Error("Fraud analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fraud analysis failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis":       analysis,
		"fraud_analysis": fraud,
	})
}

// AnalyzeAudioEmotion handles POST /analyze_audio_emotion (multipart "audio").
func (h *mediaHandler) AnalyzeAudioEmotion(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio uploaded."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded audio", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded audio"})
		return
	}
	defer file.Close()

	result, err := h.speech.AnalyzeEmotion(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		metrics.CollaboratorErrors.WithLabelValues("speech").Inc()
		h.logger.Error("Audio emotion analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Audio emotion analysis failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// VerifyFace handles POST /verify_face (multipart "face" and "id" images).
func (h *mediaHandler) VerifyFace(c *gin.Context) {
	faceHeader, err := c.FormFile("face")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No face image uploaded."})
		return
	}
	idHeader, err := c.FormFile("id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No id image uploaded."})
		return
	}

	face, err := faceHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded face image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
		return
	}
	defer face.Close()

	id, err := idHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded id image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded image"})
		return
	}
	defer id.Close()

	result, err := h.vision.VerifyFace(c.Request.Context(), faceHeader.Filename, face, idHeader.Filename, id)
	if err != nil {
		if errors.Is(err, vision_client.ErrFaceNotDetected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Face not detected in one or both images."})
			return
		}
		metrics.CollaboratorErrors.WithLabelValues("vision").Inc()
		h.logger.Error("Face verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Face verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": result.Match, "distance": result.Distance})
}

// OCRDocument handles POST /ocr_document (multipart "document").
func (h *mediaHandler) OCRDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document uploaded."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded document"})
		return
	}
	defer file.Close()

	result, err := h.vision.ExtractText(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		metrics.CollaboratorErrors.WithLabelValues("vision").Inc()
		h.logger.Error("OCR failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OCR failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"extracted_text": result.ExtractedText})
}
