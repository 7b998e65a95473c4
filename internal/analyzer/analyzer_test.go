package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"supplier-verify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassifier struct {
	label models.Sentiment
	err   error
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (models.Sentiment, error) {
	return f.label, f.err
}

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func longText(words int) string {
	return strings.TrimSpace(strings.Repeat("word ", words))
}

func TestScanKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no hits",
			text: "We have been a reliable wholesale partner for ten years",
			want: []string{},
		},
		{
			name: "single hit",
			text: "This is an unverified transaction",
			want: []string{"unverified"},
		},
		{
			name: "case insensitive",
			text: "That sounds like a SCAM to me",
			want: []string{"scam"},
		},
		{
			name: "whole word only",
			text: "we sell scampi and unverifiedish goods",
			want: []string{},
		},
		{
			name: "hits reported in fixed set order not text order",
			text: "counterfeit goods from a fake storefront",
			want: []string{"fake", "counterfeit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanKeywords(tt.text))
		})
	}
}

func TestCheckConsistency(t *testing.T) {
	assert.Equal(t, ConsistencyTooShort, CheckConsistency(""))
	assert.Equal(t, ConsistencyTooShort, CheckConsistency(longText(20)))
	assert.Equal(t, ConsistencyOK, CheckConsistency(longText(21)))
}

func TestComputeTrustScore(t *testing.T) {
	tests := []struct {
		name        string
		sentiment   models.Sentiment
		hits        []string
		consistency string
		want        int
	}{
		{"clean answer", models.SentimentPositive, nil, ConsistencyOK, 100},
		{"negative only", models.SentimentNegative, nil, ConsistencyOK, 70},
		{"keywords only", models.SentimentPositive, []string{"fraud"}, ConsistencyOK, 60},
		{"too short only", models.SentimentPositive, nil, ConsistencyTooShort, 80},
		{"all three penalties stay non-negative", models.SentimentNegative, []string{"scam"}, ConsistencyTooShort, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTrustScore(tt.sentiment, tt.hits, tt.consistency)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestAnswerDecision(t *testing.T) {
	assert.Equal(t, models.DecisionApprove, AnswerDecision(70))
	assert.Equal(t, models.DecisionFlagForReview, AnswerDecision(69))
	assert.Equal(t, models.DecisionFlagForReview, AnswerDecision(40))
	assert.Equal(t, models.DecisionReject, AnswerDecision(39))
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Run("negative keyword-bearing long answer scores 30 and rejects", func(t *testing.T) {
		a := NewAnalyzer(&fakeClassifier{label: models.SentimentNegative}, nil, false, zap.NewNop())

		text := "This is a totally normal and unverified transaction process with many words to pass " +
			"the length check easily because it keeps going on and on"
		result, err := a.Analyze(context.Background(), text)
		require.NoError(t, err)

		assert.Equal(t, models.SentimentNegative, result.Sentiment)
		assert.Equal(t, []string{"unverified"}, result.FraudKeywords)
		assert.Equal(t, ConsistencyOK, result.Consistency)
		assert.Equal(t, 30, result.TrustScore)
		assert.Equal(t, models.DecisionReject, result.Decision)
	})

	t.Run("classifier failure fails the analysis", func(t *testing.T) {
		a := NewAnalyzer(&fakeClassifier{err: errors.New("service down")}, nil, false, zap.NewNop())

		_, err := a.Analyze(context.Background(), longText(25))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sentiment classification failed")
	})
}

func TestAnalyzer_FraudAnalysis(t *testing.T) {
	t.Run("well-formed JSON is returned as-is", func(t *testing.T) {
		llm := &fakeCompleter{reply: `{"fraud_flags": 2, "red_flags": ["vague"], "explanation": "risky", "trust_score": 35}`}
		a := NewAnalyzer(&fakeClassifier{label: models.SentimentPositive}, llm, false, zap.NewNop())

		result, err := a.FraudAnalysis(context.Background(), "some answer")
		require.NoError(t, err)
		assert.Equal(t, 2, result.FraudFlags)
		assert.Equal(t, []string{"vague"}, result.RedFlags)
		assert.Equal(t, 35, result.TrustScore)
	})

	t.Run("code-fenced JSON is accepted", func(t *testing.T) {
		llm := &fakeCompleter{reply: "```json\n{\"fraud_flags\": 0, \"red_flags\": [], \"explanation\": \"ok\", \"trust_score\": 90}\n```"}
		a := NewAnalyzer(&fakeClassifier{label: models.SentimentPositive}, llm, false, zap.NewNop())

		result, err := a.FraudAnalysis(context.Background(), "some answer")
		require.NoError(t, err)
		assert.Equal(t, 90, result.TrustScore)
	})

	t.Run("unparseable reply degrades to neutral by default", func(t *testing.T) {
		llm := &fakeCompleter{reply: "I think this supplier seems fine overall."}
		a := NewAnalyzer(&fakeClassifier{label: models.SentimentPositive}, llm, false, zap.NewNop())

		result, err := a.FraudAnalysis(context.Background(), "some answer")
		require.NoError(t, err)
		assert.Equal(t, 50, result.TrustScore)
		assert.Empty(t, result.RedFlags)
	})

	t.Run("unparseable reply is an error in fail mode", func(t *testing.T) {
		llm := &fakeCompleter{reply: "not json"}
		a := NewAnalyzer(&fakeClassifier{label: models.SentimentPositive}, llm, true, zap.NewNop())

		_, err := a.FraudAnalysis(context.Background(), "some answer")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse llm fraud analysis")
	})

	t.Run("llm failure surfaces", func(t *testing.T) {
		llm := &fakeCompleter{err: errors.New("rate limited")}
		a := NewAnalyzer(&fakeClassifier{label: models.SentimentPositive}, llm, false, zap.NewNop())

		_, err := a.FraudAnalysis(context.Background(), "some answer")
		require.Error(t, err)
	})
}
