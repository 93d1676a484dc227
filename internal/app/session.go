package app

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"trivia-rush/internal/domain"
)

// Session constants. The scoring and timing values are intentional product
// constants, not tunables.
const (
	// SessionDurationSeconds is the countdown every session starts with.
	SessionDurationSeconds = 30.0
	// WrongAnswerPenaltySeconds is deducted from the countdown on a wrong answer.
	WrongAnswerPenaltySeconds = 10.0
	// RevealDelay is how long the answer result stays on screen before the
	// next question appears. Answers are ignored for its duration.
	RevealDelay = 500 * time.Millisecond
	// TickInterval is the countdown polling period.
	TickInterval = 100 * time.Millisecond

	maxSpeedBonus = 20.0
	speedDecay    = 0.45
)

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankLoader fetches question banks from a backing store. The caching
// repositories in internal/infra wrap one.
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Renderer is the presentation boundary. The session calls it as pure
// notifications and never reads anything back. Implementations must be cheap
// and must not call back into the session.
type Renderer interface {
	RenderQuestion(q domain.Question, number int)
	RenderScore(score int)
	RenderTimeRemaining(seconds float64)
	RenderAnswerResult(correct bool)
	RenderSessionEndMessage(reason domain.EndReason)
}

// Scheduler schedules the one-shot reveal delay. It exists so tests can fire
// the delay deterministically instead of sleeping.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

// Session is the timed quiz state machine: question progression,
// speed-weighted scoring and the drift-corrected countdown. One session serves
// one player; all mutation goes through the mutex because answers, ticks and
// the reveal callback arrive on different goroutines.
type Session struct {
	id       string
	bank     []domain.Question
	renderer Renderer
	now      func() time.Time
	rnd      *rand.Rand
	sched    Scheduler
	onFinish func(finalScore int, reason domain.EndReason)

	// manualTicks disables the internal ticker goroutine; tests drive the
	// countdown through Tick with synthetic deltas.
	manualTicks bool

	mu                sync.Mutex
	state             State
	run               uint64
	working           []domain.Question
	index             int // 1-based position in the working set
	score             float64
	timeLeft          float64
	answerLocked      bool
	questionStartedAt time.Time
	stopTick          chan struct{}
	cancelReveal      func()
}

// Option configures a Session.
type Option func(*Session)

// WithClock injects a clock for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRand injects the randomness source used for shuffling.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Session) { s.rnd = rnd }
}

// WithScheduler injects the reveal-delay scheduler.
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithManualTicks disables the real-time ticker; callers drive Tick themselves.
func WithManualTicks() Option {
	return func(s *Session) { s.manualTicks = true }
}

// WithFinishHandler registers a hook that receives the final integer score
// once per finished session. It runs on the session's internal goroutines and
// must not call back into the session.
func WithFinishHandler(fn func(finalScore int, reason domain.EndReason)) Option {
	return func(s *Session) { s.onFinish = fn }
}

// NewSession creates an idle session over the given bank.
func NewSession(id string, bank []domain.Question, renderer Renderer, opts ...Option) *Session {
	s := &Session{
		id:       id,
		bank:     bank,
		renderer: renderer,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sched:    realScheduler{},
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FinalScore returns the floored cumulative score.
func (s *Session) FinalScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(math.Floor(s.score))
}

// TimeRemaining returns the countdown value, clamped at zero.
func (s *Session) TimeRemaining() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timeLeft < 0 {
		return 0
	}
	return s.timeLeft
}

// Start begins a fresh run: score and index reset, countdown reset, bank
// shuffled into a new working set. Valid from Idle or Finished; calling it
// mid-run is a no-op. Any timer left over from a previous run is cancelled
// before the new one starts.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning || len(s.bank) == 0 {
		return
	}
	s.stopTickLocked()
	s.cancelRevealLocked()
	s.run++

	s.state = StateRunning
	s.working = domain.ShuffleQuestions(s.rnd, s.bank)
	s.index = 1
	s.score = 0
	s.timeLeft = SessionDurationSeconds
	s.answerLocked = false
	s.questionStartedAt = s.now()

	s.renderer.RenderQuestion(s.working[0], 1)
	s.renderer.RenderScore(0)
	s.renderer.RenderTimeRemaining(s.timeLeft)

	if !s.manualTicks {
		stop := make(chan struct{})
		s.stopTick = stop
		go s.runTicker(stop)
	}
}

// SubmitAnswer handles a player's choice for the current question. Duplicate
// clicks during the reveal window and answers after the logical end of the
// session are ignored, as are out-of-range indexes.
func (s *Session) SubmitAnswer(choice int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning || s.answerLocked || s.timeLeft <= 0 {
		return
	}
	q := s.working[s.index-1]
	if choice < 0 || choice >= len(q.Choices) {
		return
	}

	s.answerLocked = true
	if choice == q.Answer {
		// The faster the answer, the more points earned.
		elapsed := s.now().Sub(s.questionStartedAt).Seconds()
		s.score += maxSpeedBonus / (speedDecay*elapsed + 1)
		s.renderer.RenderScore(int(math.Floor(s.score)))
		s.renderer.RenderAnswerResult(true)
	} else {
		s.timeLeft -= WrongAnswerPenaltySeconds
		s.renderer.RenderAnswerResult(false)
	}
	run := s.run
	s.cancelReveal = s.sched.AfterFunc(RevealDelay, func() { s.revealElapsed(run) })
}

// revealElapsed fires once per answered question, after the reveal delay. The
// run tag guards against a timer from a previous run: cancelling a fired
// time.AfterFunc cannot stop a callback already blocked on the mutex, so a
// restart inside the reveal window would otherwise hand the stale callback a
// fresh session to advance.
func (s *Session) revealElapsed(run uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.run {
		return
	}
	s.answerLocked = false
	s.cancelReveal = nil
	// A wrong answer can drive the countdown below zero; the next tick owns
	// that transition, so no advance happens here.
	if s.state != StateRunning || s.timeLeft <= 0 {
		return
	}
	s.advanceLocked()
}

func (s *Session) advanceLocked() {
	if s.index == len(s.working) {
		s.finishLocked(domain.EndExhausted)
		return
	}
	s.index++
	s.questionStartedAt = s.now()
	s.renderer.RenderQuestion(s.working[s.index-1], s.index)
}

// Tick subtracts a measured wall-clock delta (in seconds) from the countdown.
// The internal ticker calls it with real elapsed time between polls, so
// throttled schedulers never make the clock run fast; tests call it directly
// with synthetic deltas.
func (s *Session) Tick(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return
	}
	s.timeLeft -= delta
	if s.timeLeft <= 0 {
		s.timeLeft = 0
		s.renderer.RenderTimeRemaining(0)
		s.finishLocked(domain.EndTimeExpired)
		return
	}
	s.renderer.RenderTimeRemaining(s.timeLeft)
}

func (s *Session) runTicker(stop chan struct{}) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	prev := s.now()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := s.now()
			s.Tick(now.Sub(prev).Seconds())
			prev = now
		}
	}
}

func (s *Session) finishLocked(reason domain.EndReason) {
	if s.state == StateFinished {
		return
	}
	s.state = StateFinished
	s.stopTickLocked()
	s.renderer.RenderSessionEndMessage(reason)
	if s.onFinish != nil {
		s.onFinish(int(math.Floor(s.score)), reason)
	}
}

// Close releases the session's timers without rendering or reporting anything.
// Transports call it when the player disconnects mid-run.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTickLocked()
	s.cancelRevealLocked()
	s.run++
	s.state = StateFinished
}

func (s *Session) stopTickLocked() {
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

func (s *Session) cancelRevealLocked() {
	if s.cancelReveal != nil {
		s.cancelReveal()
		s.cancelReveal = nil
	}
}
