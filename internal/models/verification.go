package models

import "time"

// Decision is the outcome of a verification step or a full interview.
type Decision string

const (
	DecisionApprove       Decision = "approve"
	DecisionFlagForReview Decision = "flag for review"
	DecisionReject        Decision = "reject"
)

// Sentiment is the label returned by the external sentiment classifier.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
)

// AnswerAnalysis holds the heuristic evaluation of a single transcribed answer.
type AnswerAnalysis struct {
	Sentiment     Sentiment `json:"sentiment"`
	FraudKeywords []string  `json:"fraud_keywords"`
	Consistency   string    `json:"consistency"` // "consistent" or "too short"
	TrustScore    int       `json:"trust_score"` // always in [0, 100]
	Decision      Decision  `json:"decision"`    // per-answer, informational only
}

// QuestionAnswer pairs an interview question with the transcribed answer.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// VerificationRecord is one row of the supplier_verification table,
// the only durable artifact of an interview.
type VerificationRecord struct {
	ID           int64     `db:"id" json:"id"`
	SupplierName string    `db:"supplier_name" json:"supplier_name"`
	TrustScore   int       `db:"trust_score" json:"trust_score"`
	Decision     Decision  `db:"decision" json:"decision"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// InterviewResult is what Run returns to the caller: the persisted record
// plus the full per-question detail for audit.
type InterviewResult struct {
	RunID               string            `json:"run_id"`
	SupplierName        string            `json:"supplier_name"`
	QuestionsAndAnswers []QuestionAnswer  `json:"questions_and_answers"`
	Analyses            []*AnswerAnalysis `json:"analyses"`
	TrustScore          int               `json:"trust_score"`
	Decision            Decision          `json:"decision"`
	RecordID            int64             `json:"record_id"`
}

// FraudAnalysis is the structured output of the LLM fraud reasoning step
// exposed by the /analyze_text endpoint.
type FraudAnalysis struct {
	FraudFlags  int      `json:"fraud_flags"`
	RedFlags    []string `json:"red_flags"`
	Explanation string   `json:"explanation"`
	TrustScore  int      `json:"trust_score"`
}
