package domain_test

import (
	"math/rand"
	"strings"
	"testing"

	"trivia-rush/internal/domain"
)

func TestShuffleQuestionsIsBijection(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	bank := []domain.Question{
		{Text: "a", Choices: []string{"x", "y"}, Answer: 0},
		{Text: "b", Choices: []string{"x", "y"}, Answer: 1},
		{Text: "c", Choices: []string{"x", "y"}, Answer: 0},
		{Text: "d", Choices: []string{"x", "y"}, Answer: 1},
	}

	working := domain.ShuffleQuestions(rnd, bank)
	if len(working) != len(bank) {
		t.Fatalf("expected %d questions, got %d", len(bank), len(working))
	}
	seen := map[string]int{}
	for _, q := range working {
		seen[q.Text]++
	}
	for _, q := range bank {
		if seen[q.Text] != 1 {
			t.Fatalf("expected %q exactly once, got %d", q.Text, seen[q.Text])
		}
	}
	// canonical bank untouched
	if bank[0].Text != "a" || bank[3].Text != "d" {
		t.Fatalf("canonical bank mutated: %+v", bank)
	}
}

func TestShuffleQuestionsReachesEveryOrdering(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	bank := []domain.Question{
		{Text: "a", Choices: []string{"x", "y"}, Answer: 0},
		{Text: "b", Choices: []string{"x", "y"}, Answer: 0},
		{Text: "c", Choices: []string{"x", "y"}, Answer: 0},
	}

	orderings := map[string]bool{}
	for i := 0; i < 2000; i++ {
		working := domain.ShuffleQuestions(rnd, bank)
		var sb strings.Builder
		for _, q := range working {
			sb.WriteString(q.Text)
		}
		orderings[sb.String()] = true
	}
	if len(orderings) != 6 {
		t.Fatalf("expected all 6 orderings of 3 questions, saw %d: %v", len(orderings), orderings)
	}
}

func TestShuffleChoicesPreservesCorrectAnswer(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	q := domain.Question{
		Text:    "q",
		Choices: []string{"alpha", "beta", "gamma", "delta"},
		Answer:  2,
	}

	for i := 0; i < 200; i++ {
		shuffled := domain.ShuffleChoices(rnd, q)
		if got := shuffled.Choices[shuffled.Answer]; got != "gamma" {
			t.Fatalf("answer index %d points at %q, want gamma", shuffled.Answer, got)
		}
		if len(shuffled.Choices) != 4 {
			t.Fatalf("choice count changed: %v", shuffled.Choices)
		}
	}
}

func TestShuffleChoicesHandlesDuplicateTexts(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	q := domain.Question{
		Text:    "q",
		Choices: []string{"same", "same", "other"},
		Answer:  1,
	}

	// With duplicate texts the answer must track position, and "other" must
	// never become the answer.
	for i := 0; i < 200; i++ {
		shuffled := domain.ShuffleChoices(rnd, q)
		if shuffled.Choices[shuffled.Answer] != "same" {
			t.Fatalf("answer drifted to %q", shuffled.Choices[shuffled.Answer])
		}
	}
}

func TestShuffleQuestionsRespectsKeepOrderFlag(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	keepOrder := false
	bank := []domain.Question{{
		Text:           "q",
		Choices:        []string{"first", "second", "both of the above"},
		Answer:         2,
		ShuffleChoices: &keepOrder,
	}}

	for i := 0; i < 50; i++ {
		working := domain.ShuffleQuestions(rnd, bank)
		if working[0].Choices[0] != "first" || working[0].Choices[2] != "both of the above" {
			t.Fatalf("choices were shuffled despite flag: %v", working[0].Choices)
		}
		if working[0].Answer != 2 {
			t.Fatalf("answer index changed: %d", working[0].Answer)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{30, "0:30"},
		{29.4, "0:29"},
		{61, "1:01"},
		{0, "0:00"},
		{-3, "0:00"},
	}
	for _, tc := range cases {
		if got := domain.FormatClock(tc.seconds); got != tc.want {
			t.Fatalf("FormatClock(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
