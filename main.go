package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"supplier-verify/internal/analyzer"
	"supplier-verify/internal/capture"
	"supplier-verify/internal/config"
	"supplier-verify/internal/interview"
	"supplier-verify/internal/llm_client"
	"supplier-verify/internal/notifier"
	"supplier-verify/internal/questions"
	"supplier-verify/internal/repository"
	"supplier-verify/internal/sentiment_client"
	"supplier-verify/internal/server"
	"supplier-verify/internal/speech_client"
	"supplier-verify/internal/vision_client"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// .env is optional; OPENAI_API_KEY may come from the real environment
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// External collaborator clients
	speechClient := speech_client.NewClient(cfg.SpeechService.URL, cfg.SpeechTimeout())
	sentimentClient := sentiment_client.NewClient(cfg.SentimentService.URL, cfg.SentimentTimeout())
	visionClient := vision_client.NewClient(cfg.VisionService.URL, cfg.VisionTimeout())
	llmClient := llm_client.NewClient(llm_client.Config{
		BaseURL:     cfg.LLM.BaseURL,
		ModelName:   cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLMTimeout(),
	}, logger)

	// Interview pipeline
	questionSource := questions.NewSource(llmClient, logger)
	answerAnalyzer := analyzer.NewAnalyzer(
		sentimentClient,
		llmClient,
		cfg.Analysis.OnParseFailure == "fail",
		logger,
	)
	recorder := capture.NewCommandRecorder(logger)
	verificationRepo := repository.NewVerificationRepository(db, logger)

	// Telegram notifier for rejected suppliers (optional)
	tgNotifier, err := notifier.NewTelegramNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		tgNotifier = nil
	}
	var rejectNotifier interview.Notifier
	if tgNotifier != nil {
		rejectNotifier = tgNotifier
	}

	orchestrator := interview.NewOrchestrator(
		questionSource,
		recorder,
		speechClient,
		answerAnalyzer,
		verificationRepo,
		rejectNotifier,
		cfg.RecordDuration(),
		logger,
	)

	// Initialize and run the server
	srv := server.NewServer(db, logger, orchestrator, speechClient, visionClient, answerAnalyzer)
	srv.Run(cfg.Server.Port)
}
