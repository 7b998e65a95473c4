package server

import (
	"net/http"

	"supplier-verify/internal/analyzer"
	"supplier-verify/internal/handler"
	"supplier-verify/internal/middleware"
	"supplier-verify/internal/repository"
	"supplier-verify/internal/service"
	"supplier-verify/internal/speech_client"
	"supplier-verify/internal/vision_client"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	router       *gin.Engine
	db           *sqlx.DB
	logger       *zap.Logger
	runner       handler.InterviewRunner
	speechClient *speech_client.Client
	visionClient *vision_client.Client
	textAnalyzer *analyzer.Analyzer
}

func NewServer(
	db *sqlx.DB,
	logger *zap.Logger,
	runner handler.InterviewRunner,
	speechClient *speech_client.Client,
	visionClient *vision_client.Client,
	textAnalyzer *analyzer.Analyzer,
) *Server {
	router := gin.Default()

	s := &Server{
		router:       router,
		db:           db,
		logger:       logger,
		runner:       runner,
		speechClient: speechClient,
		visionClient: visionClient,
		textAnalyzer: textAnalyzer,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	authRepo := repository.NewAuthRepository(s.db, s.logger)
	authService := service.NewAuthService(authRepo, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	verificationRepo := repository.NewVerificationRepository(s.db, s.logger)
	verificationHandler := handler.NewVerificationHandler(verificationRepo, s.logger)

	verifyHandler := handler.NewVerifyHandler(s.runner, s.logger)
	mediaHandler := handler.NewMediaHandler(s.speechClient, s.visionClient, s.textAnalyzer, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Interview workflow
	s.router.POST("/verify_supplier", verifyHandler.VerifySupplier)

	// Stateless model wrappers
	s.router.POST("/transcribe", mediaHandler.Transcribe)
	s.router.POST("/analyze_text", mediaHandler.AnalyzeText)
	s.router.POST("/analyze_audio_emotion", mediaHandler.AnalyzeAudioEmotion)
	s.router.POST("/verify_face", mediaHandler.VerifyFace)
	s.router.POST("/ocr_document", mediaHandler.OCRDocument)

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.logger))
	{
		authRequired.GET("/verifications", verificationHandler.GetAllRecords)
		authRequired.GET("/verifications/:id", verificationHandler.GetRecordByID)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("port", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
