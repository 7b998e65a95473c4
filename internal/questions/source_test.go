package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func TestParseQuestionList(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		want        []string
		wantOutcome ParseOutcome
	}{
		{
			name:        "json array",
			raw:         `["How long have you been trading?", "Who are your main clients?"]`,
			want:        []string{"How long have you been trading?", "Who are your main clients?"},
			wantOutcome: OutcomeParsed,
		},
		{
			name:        "code-fenced json array",
			raw:         "```json\n[\"Question one?\", \"Question two?\"]\n```",
			want:        []string{"Question one?", "Question two?"},
			wantOutcome: OutcomeParsed,
		},
		{
			name:        "dash list falls back to line split",
			raw:         "- What do you sell?\n- Where are you based?\n",
			want:        []string{"What do you sell?", "Where are you based?"},
			wantOutcome: OutcomeFallback,
		},
		{
			name:        "numbered list falls back to line split",
			raw:         "1. What do you sell?\n2) Where are you based?",
			want:        []string{"What do you sell?", "Where are you based?"},
			wantOutcome: OutcomeFallback,
		},
		{
			name:        "blank lines are dropped",
			raw:         "\n\nWhat do you sell?\n\n   \n",
			want:        []string{"What do you sell?"},
			wantOutcome: OutcomeFallback,
		},
		{
			name:        "nothing parseable",
			raw:         "   \n\n  ",
			want:        nil,
			wantOutcome: OutcomeEmpty,
		},
		{
			// A well-formed empty array is an empty question list, not
			// fallback input: "[]" must never become a literal question.
			name:        "empty json array is authoritative",
			raw:         `[]`,
			want:        nil,
			wantOutcome: OutcomeEmpty,
		},
		{
			name:        "code-fenced empty json array",
			raw:         "```json\n[]\n```",
			want:        nil,
			wantOutcome: OutcomeEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := ParseQuestionList(tt.raw)
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_Questions(t *testing.T) {
	t.Run("no form data returns the fixed default list", func(t *testing.T) {
		s := NewSource(&fakeCompleter{}, zap.NewNop())

		got, outcome, err := s.Questions(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDefault, outcome)
		assert.Equal(t, DefaultQuestions(), got)
		assert.Len(t, got, 6)
	})

	t.Run("empty form data returns the fixed default list", func(t *testing.T) {
		// A completer that would fail proves the llm is never consulted
		// for an empty form.
		s := NewSource(&fakeCompleter{err: errors.New("must not be called")}, zap.NewNop())

		got, outcome, err := s.Questions(context.Background(), map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, OutcomeDefault, outcome)
		assert.Equal(t, DefaultQuestions(), got)
	})

	t.Run("default list is stable across calls", func(t *testing.T) {
		assert.Equal(t, DefaultQuestions(), DefaultQuestions())
	})

	t.Run("form data delegates to the llm", func(t *testing.T) {
		s := NewSource(&fakeCompleter{reply: `["Only question?"]`}, zap.NewNop())

		got, outcome, err := s.Questions(context.Background(), map[string]interface{}{"company": "Acme"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeParsed, outcome)
		assert.Equal(t, []string{"Only question?"}, got)
	})

	t.Run("llm failure propagates", func(t *testing.T) {
		s := NewSource(&fakeCompleter{err: errors.New("no key")}, zap.NewNop())

		_, _, err := s.Questions(context.Background(), map[string]interface{}{"company": "Acme"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question generation failed")
	})

	t.Run("empty json reply yields no questions", func(t *testing.T) {
		s := NewSource(&fakeCompleter{reply: `[]`}, zap.NewNop())

		got, outcome, err := s.Questions(context.Background(), map[string]interface{}{"company": "Acme"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeEmpty, outcome)
		assert.Empty(t, got)
	})

	t.Run("garbage reply degrades to empty without error", func(t *testing.T) {
		s := NewSource(&fakeCompleter{reply: "  \n "}, zap.NewNop())

		got, outcome, err := s.Questions(context.Background(), map[string]interface{}{"company": "Acme"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeEmpty, outcome)
		assert.Empty(t, got)
	})
}
