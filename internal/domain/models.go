package domain

import "fmt"

// Question models an MCQ question with exactly one correct choice.
type Question struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Answer  int      `json:"answer"`
	// ShuffleChoices defaults to true when absent; set to false to keep the
	// authored choice order (e.g. "both of the above" style questions).
	ShuffleChoices *bool `json:"shuffleChoices,omitempty"`
}

// WantsShuffledChoices reports whether the choices should be permuted per session.
func (q Question) WantsShuffledChoices() bool {
	return q.ShuffleChoices == nil || *q.ShuffleChoices
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if len(q.Choices) < 2 || len(q.Choices) > 4 {
		return fmt.Errorf("%w: expected 2-4 choices, got %d", ErrInvalidQuestion, len(q.Choices))
	}
	if q.Answer < 0 || q.Answer >= len(q.Choices) {
		return fmt.Errorf("%w: answer index %d out of range", ErrInvalidQuestion, q.Answer)
	}
	return nil
}

// Bank is a named collection of questions in canonical order.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Validate checks every question in the bank.
func (b Bank) Validate() error {
	for i, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// ScoreEntry is one persisted scoreboard row. The JSON field names are the
// storage format and must not change.
type ScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// EndReason explains why a quiz session finished.
type EndReason string

const (
	// EndExhausted means the player answered every question.
	EndExhausted EndReason = "exhausted"
	// EndTimeExpired means the countdown ran out mid-session.
	EndTimeExpired EndReason = "time_expired"
)
