package interview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"supplier-verify/internal/capture"
	"supplier-verify/internal/metrics"
	"supplier-verify/internal/models"
	"supplier-verify/internal/questions"
	"supplier-verify/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase names the interview step a fatal error occurred in.
type Phase string

const (
	PhaseQuestions     Phase = "question_generation"
	PhaseCapture       Phase = "capture"
	PhaseTranscription Phase = "transcription"
	PhaseAnalysis      Phase = "analysis"
	PhasePersistence   Phase = "persistence"
)

// ErrNoQuestions is returned when the question source yields an empty list,
// which would otherwise divide by zero during aggregation.
var ErrNoQuestions = errors.New("no questions available for interview")

// PhaseError wraps a fatal interview failure with the phase it happened in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("interview failed during %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Aggregate decision thresholds. Stricter than the per-answer 70/40 on
// purpose: a borderline single answer is tolerable, a borderline interview
// is not.
const (
	approveThreshold = 80
	reviewThreshold  = 50
)

// QuestionSource supplies the ordered question list for one run.
type QuestionSource interface {
	Questions(ctx context.Context, formData map[string]interface{}) ([]string, questions.ParseOutcome, error)
}

// Transcriber converts a captured audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// AnswerAnalyzer scores one transcribed answer.
type AnswerAnalyzer interface {
	Analyze(ctx context.Context, text string) (*models.AnswerAnalysis, error)
}

// Notifier is told about rejected suppliers. Best-effort only.
type Notifier interface {
	NotifyRejected(record *models.VerificationRecord)
}

// Orchestrator runs one supplier interview end to end: questions, per-answer
// capture/transcription/analysis, aggregation, decision, persistence. Each
// Run call is independent; there is no shared state across interviews.
type Orchestrator struct {
	questions      QuestionSource
	recorder       capture.Recorder
	transcriber    Transcriber
	analyzer       AnswerAnalyzer
	repo           repository.VerificationRepository
	notifier       Notifier
	recordDuration time.Duration
	logger         *zap.Logger
}

func NewOrchestrator(
	questionSource QuestionSource,
	recorder capture.Recorder,
	transcriber Transcriber,
	answerAnalyzer AnswerAnalyzer,
	repo repository.VerificationRepository,
	notifier Notifier,
	recordDuration time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		questions:      questionSource,
		recorder:       recorder,
		transcriber:    transcriber,
		analyzer:       answerAnalyzer,
		repo:           repo,
		notifier:       notifier,
		recordDuration: recordDuration,
		logger:         logger,
	}
}

// Run executes one interview. Questions are processed strictly in order;
// each answer is fully captured, transcribed and analyzed before the next
// question is asked. Nothing is persisted unless every phase succeeds.
func (o *Orchestrator) Run(ctx context.Context, supplierName string, formData map[string]interface{}) (*models.InterviewResult, error) {
	runID := uuid.New().String()
	log := o.logger.With(zap.String("run_id", runID), zap.String("supplier", supplierName))

	log.Info("Initiating supplier interview")

	questionList, outcome, err := o.questions.Questions(ctx, formData)
	if err != nil {
		return nil, fail(PhaseQuestions, err)
	}
	if len(questionList) == 0 {
		return nil, fail(PhaseQuestions, ErrNoQuestions)
	}
	log.Info("Questions prepared",
		zap.Int("count", len(questionList)),
		zap.String("source", outcome.String()))

	pairs := make([]models.QuestionAnswer, 0, len(questionList))
	analyses := make([]*models.AnswerAnalysis, 0, len(questionList))
	totalScore := 0

	for idx, question := range questionList {
		log.Info("Asking question", zap.Int("number", idx+1), zap.String("question", question))

		audioPath, err := o.recorder.Record(ctx, o.recordDuration)
		if err != nil {
			return nil, fail(PhaseCapture, err)
		}

		answer, err := o.transcriber.Transcribe(ctx, audioPath)
		o.removeCapture(audioPath, log)
		if err != nil {
			return nil, fail(PhaseTranscription, err)
		}
		log.Info("Answer transcribed", zap.Int("number", idx+1), zap.Int("chars", len(answer)))

		analysis, err := o.analyzer.Analyze(ctx, answer)
		if err != nil {
			return nil, fail(PhaseAnalysis, err)
		}

		pairs = append(pairs, models.QuestionAnswer{Question: question, Answer: answer})
		analyses = append(analyses, analysis)
		totalScore += analysis.TrustScore
	}

	// Floored mean; questionCount > 0 is guaranteed above.
	avgScore := totalScore / len(questionList)
	decision := AggregateDecision(avgScore)

	record := &models.VerificationRecord{
		SupplierName: supplierName,
		TrustScore:   avgScore,
		Decision:     decision,
	}
	if err := o.repo.SaveRecord(record); err != nil {
		return nil, fail(PhasePersistence, err)
	}

	metrics.InterviewsCompleted.WithLabelValues(string(decision)).Inc()

	log.Info("Interview completed",
		zap.Int("trust_score", avgScore),
		zap.String("decision", string(decision)),
		zap.Int64("record_id", record.ID))

	if decision == models.DecisionReject && o.notifier != nil {
		o.notifier.NotifyRejected(record)
	}

	return &models.InterviewResult{
		RunID:               runID,
		SupplierName:        supplierName,
		QuestionsAndAnswers: pairs,
		Analyses:            analyses,
		TrustScore:          avgScore,
		Decision:            decision,
		RecordID:            record.ID,
	}, nil
}

// fail records the aborted phase and wraps the error with it.
func fail(phase Phase, err error) error {
	metrics.InterviewFailures.WithLabelValues(string(phase)).Inc()
	return &PhaseError{Phase: phase, Err: err}
}

// AggregateDecision maps the floored mean score to the final decision.
func AggregateDecision(avgScore int) models.Decision {
	switch {
	case avgScore >= approveThreshold:
		return models.DecisionApprove
	case avgScore >= reviewThreshold:
		return models.DecisionFlagForReview
	default:
		return models.DecisionReject
	}
}

// removeCapture deletes a temp audio file after transcription. Best-effort:
// a leftover file never fails the interview.
func (o *Orchestrator) removeCapture(path string, log *zap.Logger) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Warn("Failed to remove capture file", zap.String("file", path), zap.Error(err))
	}
}
