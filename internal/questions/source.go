package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ParseOutcome records which path produced the question list, so callers can
// observe degraded LLM output instead of it being swallowed.
type ParseOutcome int

const (
	// OutcomeDefault means the built-in question list was used (no form data).
	OutcomeDefault ParseOutcome = iota
	// OutcomeParsed means the LLM returned a well-formed JSON array.
	OutcomeParsed
	// OutcomeFallback means the JSON parse failed and the line-split fallback was used.
	OutcomeFallback
	// OutcomeEmpty means even the fallback produced no questions.
	OutcomeEmpty
)

func (o ParseOutcome) String() string {
	switch o {
	case OutcomeDefault:
		return "default"
	case OutcomeParsed:
		return "parsed"
	case OutcomeFallback:
		return "fallback"
	case OutcomeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

const generatePrompt = `You are an onboarding AI for a B2B marketplace. Given the following supplier registration form data, generate 5-7 specific, clear, and relevant interview questions to verify the supplier's legitimacy, honesty, and suitability. Only return the questions as a JSON array of strings.

Registration Form Data:
%s`

const generateSystemPrompt = "You are a helpful onboarding assistant."

// Completer abstracts the reasoning collaborator used for dynamic question
// generation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Source supplies the ordered interview question list, either the fixed
// default set or one generated from registration form data.
type Source struct {
	llm    Completer
	logger *zap.Logger
}

func NewSource(llm Completer, logger *zap.Logger) *Source {
	return &Source{llm: llm, logger: logger}
}

// DefaultQuestions returns the fixed built-in interview questions.
func DefaultQuestions() []string {
	return []string{
		"What is your company name and how long have you been in business?",
		"Can you describe your main products or services?",
		"Have you ever been involved in any disputes or legal issues?",
		"How do you ensure the quality and authenticity of your products?",
		"What payment methods do you accept?",
		"Can you provide references from other clients?",
	}
}

// Questions returns the ordered interview questions for one run. With no
// form data (nil or empty) it returns the default list; otherwise it asks
// the reasoning collaborator and parses the reply. A malformed reply
// degrades through the line-split fallback; no retry is attempted.
func (s *Source) Questions(ctx context.Context, formData map[string]interface{}) ([]string, ParseOutcome, error) {
	if len(formData) == 0 {
		return DefaultQuestions(), OutcomeDefault, nil
	}

	formJSON, err := json.Marshal(formData)
	if err != nil {
		return nil, OutcomeEmpty, fmt.Errorf("failed to encode form data: %w", err)
	}

	raw, err := s.llm.Complete(ctx, generateSystemPrompt, fmt.Sprintf(generatePrompt, string(formJSON)))
	if err != nil {
		return nil, OutcomeEmpty, fmt.Errorf("question generation failed: %w", err)
	}

	list, outcome := ParseQuestionList(raw)
	if outcome == OutcomeFallback {
		s.logger.Warn("LLM question list was not valid JSON, used line-split fallback",
			zap.Int("questions", len(list)))
	}
	if outcome == OutcomeEmpty {
		s.logger.Warn("LLM question generation produced no parseable questions")
	}

	return list, outcome, nil
}

// ParseQuestionList applies the two-stage parse to a raw completion: first a
// strict JSON array parse, then a line-split fallback that trims list
// markers and drops empty lines.
func ParseQuestionList(raw string) ([]string, ParseOutcome) {
	clean := stripCodeFence(raw)

	// A successful JSON parse is authoritative, even when the array is
	// empty: "[]" means the model produced no questions, not malformed
	// output, so the fallback must not turn it into a literal question.
	var parsed []string
	if err := json.Unmarshal([]byte(clean), &parsed); err == nil {
		if len(parsed) == 0 {
			return nil, OutcomeEmpty
		}
		return parsed, OutcomeParsed
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		q := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "- "))
		q = trimNumericMarker(q)
		if q == "" {
			continue
		}
		lines = append(lines, q)
	}

	if len(lines) == 0 {
		return nil, OutcomeEmpty
	}
	return lines, OutcomeFallback
}

// stripCodeFence removes markdown code blocks the model sometimes wraps
// around JSON output.
func stripCodeFence(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// trimNumericMarker strips leading "1." or "1)" style list markers.
func trimNumericMarker(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return line
	}
	if line[i] == '.' || line[i] == ')' {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}
