package domain

import (
	"fmt"
	"math/rand"
)

// ShuffleQuestions returns a fresh uniformly random permutation of the bank's
// questions, drawing without replacement so every ordering is equally likely.
// Questions that want shuffled choices get their choices permuted as well; the
// canonical input slice is never mutated.
func ShuffleQuestions(rnd *rand.Rand, questions []Question) []Question {
	pool := make([]Question, len(questions))
	copy(pool, questions)

	working := make([]Question, 0, len(questions))
	for len(pool) > 0 {
		i := rnd.Intn(len(pool))
		q := pool[i]
		if q.WantsShuffledChoices() {
			q = ShuffleChoices(rnd, q)
		}
		working = append(working, q)
		pool = append(pool[:i], pool[i+1:]...)
	}
	return working
}

// ShuffleChoices permutes a question's choices with the same
// draw-without-replacement scheme and recomputes the answer index. The correct
// choice is tracked by its original position, so duplicate choice texts cannot
// misassign the answer.
func ShuffleChoices(rnd *rand.Rand, q Question) Question {
	remaining := make([]int, len(q.Choices))
	for i := range remaining {
		remaining[i] = i
	}

	choices := make([]string, 0, len(q.Choices))
	answer := q.Answer
	for len(remaining) > 0 {
		i := rnd.Intn(len(remaining))
		original := remaining[i]
		if original == q.Answer {
			answer = len(choices)
		}
		choices = append(choices, q.Choices[original])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}

	q.Choices = choices
	q.Answer = answer
	return q
}

// FormatClock renders a remaining-seconds value as M:SS for display.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
