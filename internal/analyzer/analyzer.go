package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"supplier-verify/internal/models"

	"go.uber.org/zap"
)

// FraudKeywords is the fixed fraud-indicator set. Hits are reported in this
// order regardless of where they appear in the text.
var FraudKeywords = []string{"fake", "scam", "fraud", "suspicious", "unverified", "counterfeit"}

var keywordPatterns = compileKeywordPatterns()

func compileKeywordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(FraudKeywords))
	for _, kw := range FraudKeywords {
		patterns[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return patterns
}

const (
	ConsistencyOK       = "consistent"
	ConsistencyTooShort = "too short"

	consistencyWordThreshold = 20

	sentimentPenalty   = 30
	keywordPenalty     = 40
	consistencyPenalty = 20
)

const fraudSystemPrompt = "You are a helpful fraud analyst."

const fraudPrompt = `You are an expert fraud analyst for supplier onboarding. Analyze the following supplier's answer for signs of fraud, deception, vagueness, overpromising, or risk. If you find any red flags, explain them. Otherwise, explain why the answer seems trustworthy. Return a JSON object with fields: 'fraud_flags' (int), 'red_flags' (list of strings), 'explanation' (string), and 'trust_score' (0-100, lower if risky, higher if trustworthy).

Supplier answer:
%s`

// SentimentClassifier abstracts the external sentiment model.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (models.Sentiment, error)
}

// Completer abstracts the reasoning collaborator used for LLM fraud analysis.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Analyzer scores a single transcribed answer. The sentiment label comes
// from the external classifier; everything else is a pure function of the
// text.
type Analyzer struct {
	sentiment      SentimentClassifier
	llm            Completer
	failOnBadFraud bool
	logger         *zap.Logger
}

// NewAnalyzer creates an answer analyzer. failOnBadFraudJSON selects whether
// an unparseable LLM fraud-analysis reply is an error or degrades to a
// neutral trust_score=50 result.
func NewAnalyzer(sentiment SentimentClassifier, llm Completer, failOnBadFraudJSON bool, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		sentiment:      sentiment,
		llm:            llm,
		failOnBadFraud: failOnBadFraudJSON,
		logger:         logger,
	}
}

// Analyze evaluates one answer into a trust score and per-answer decision.
// A classifier failure fails the whole analysis; no default label is
// substituted.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*models.AnswerAnalysis, error) {
	sentiment, err := a.sentiment.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("sentiment classification failed: %w", err)
	}

	hits := ScanKeywords(text)
	consistency := CheckConsistency(text)
	score := ComputeTrustScore(sentiment, hits, consistency)

	return &models.AnswerAnalysis{
		Sentiment:     sentiment,
		FraudKeywords: hits,
		Consistency:   consistency,
		TrustScore:    score,
		Decision:      AnswerDecision(score),
	}, nil
}

// ScanKeywords returns the subset of FraudKeywords present in text as
// case-insensitive whole words, in the fixed set's order.
func ScanKeywords(text string) []string {
	hits := []string{}
	for _, kw := range FraudKeywords {
		if keywordPatterns[kw].MatchString(text) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// CheckConsistency applies the length heuristic: more than 20
// whitespace-delimited words counts as consistent.
func CheckConsistency(text string) string {
	if len(strings.Fields(text)) > consistencyWordThreshold {
		return ConsistencyOK
	}
	return ConsistencyTooShort
}

// ComputeTrustScore derives the 0-100 trust score from the three heuristics.
func ComputeTrustScore(sentiment models.Sentiment, keywordHits []string, consistency string) int {
	score := 100
	if sentiment == models.SentimentNegative {
		score -= sentimentPenalty
	}
	if len(keywordHits) > 0 {
		score -= keywordPenalty
	}
	if consistency != ConsistencyOK {
		score -= consistencyPenalty
	}
	if score < 0 {
		score = 0
	}
	return score
}

// AnswerDecision maps a single answer's score to its informational decision.
// These thresholds (70/40) are looser than the aggregate ones and do not
// drive the final outcome.
func AnswerDecision(score int) models.Decision {
	switch {
	case score >= 70:
		return models.DecisionApprove
	case score >= 40:
		return models.DecisionFlagForReview
	default:
		return models.DecisionReject
	}
}

// FraudAnalysis runs the LLM fraud reasoning step over one answer. When the
// reply is not valid JSON the behavior depends on configuration: either a
// neutral trust_score=50 result is substituted or the parse error surfaces.
func (a *Analyzer) FraudAnalysis(ctx context.Context, text string) (*models.FraudAnalysis, error) {
	raw, err := a.llm.Complete(ctx, fraudSystemPrompt, fmt.Sprintf(fraudPrompt, text))
	if err != nil {
		return nil, fmt.Errorf("llm fraud analysis failed: %w", err)
	}

	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var result models.FraudAnalysis
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		if a.failOnBadFraud {
			return nil, fmt.Errorf("failed to parse llm fraud analysis: %w", err)
		}
		a.logger.Warn("LLM fraud analysis was not valid JSON, using neutral result",
			zap.Error(err))
		return &models.FraudAnalysis{
			FraudFlags:  0,
			RedFlags:    []string{},
			Explanation: "Could not parse fraud analysis response.",
			TrustScore:  50,
		}, nil
	}

	return &result, nil
}
