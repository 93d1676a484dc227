package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"trivia-rush/internal/app"
	"trivia-rush/internal/config"
	"trivia-rush/internal/domain"
	"trivia-rush/internal/infra/file"
	"trivia-rush/internal/scoreboard"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewPlayCmd builds the CLI subcommand to play a quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a timed quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath)
		},
	}
}

func runPlay(ctx context.Context, configPath string) error {
	// The config file is optional for terminal play.
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Config{}
	}

	bankID := cfg.Quiz.Bank
	if bankID == "" {
		bankID = defaultBankID
	}
	bank, ok := defaultBanks()[bankID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrBankNotFound, bankID)
	}

	scores := scoreboard.NewStore(file.NewKV(scoreboardDir(cfg)))
	return playBank(ctx, bank, scores, os.Stdin, os.Stdout)
}

func playBank(ctx context.Context, bank domain.Bank, scores *scoreboard.Store, in io.Reader, out io.Writer) error {
	// The countdown renders from the session's tick goroutine while the input
	// loop prints prompts from this one; both go through one locked writer.
	out = &syncWriter{w: out}
	renderer := &terminalRenderer{out: out, lastWhole: -1}

	finished := make(chan struct{})
	var finalScore int
	session := app.NewSession(uuid.NewString(), bank.Questions, renderer,
		app.WithFinishHandler(func(score int, _ domain.EndReason) {
			finalScore = score
			close(finished)
		}),
	)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	session.Start()

answering:
	for {
		select {
		case <-finished:
			break answering
		case <-ctx.Done():
			session.Close()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				// Input closed; let the session run out on its own.
				lines = nil
				continue
			}
			choice, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				fmt.Fprintln(out, "enter the number of your choice")
				continue
			}
			session.SubmitAnswer(choice - 1)
		}
	}

	fmt.Fprintf(out, "\nFinal score: %d\n", finalScore)
	if lines == nil {
		return nil
	}
	for {
		fmt.Fprint(out, "Enter your name for the scoreboard (blank to skip): ")
		line, ok := <-lines
		if !ok {
			return nil
		}
		name := strings.TrimSpace(line)
		if name == "" {
			return nil
		}
		entries, err := scores.Add(ctx, name, finalScore)
		if err != nil {
			fmt.Fprintf(out, "could not save score: %v\n", err)
			continue
		}
		printScores(out, entries)
		return nil
	}
}

func printScores(out io.Writer, entries []domain.ScoreEntry) {
	fmt.Fprintln(out, "\nScoreboard:")
	if len(entries) == 0 {
		fmt.Fprintln(out, "  (no scores yet)")
		return
	}
	for i, entry := range entries {
		fmt.Fprintf(out, "  %2d. %-20s %d\n", i+1, entry.Name, entry.Score)
	}
}

// syncWriter serializes writes from the render and input goroutines onto one
// underlying stream.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// terminalRenderer implements the session's render boundary on a text stream.
// The session serializes all render calls, so no locking is needed here.
type terminalRenderer struct {
	out       io.Writer
	lastWhole int
}

func (r *terminalRenderer) RenderQuestion(q domain.Question, number int) {
	fmt.Fprintf(r.out, "\nQ%d: %s\n", number, q.Text)
	for i, choice := range q.Choices {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, choice)
	}
	fmt.Fprint(r.out, "> ")
}

func (r *terminalRenderer) RenderScore(score int) {
	fmt.Fprintf(r.out, "Score: %d\n", score)
}

func (r *terminalRenderer) RenderTimeRemaining(seconds float64) {
	// Only print when the displayed second changes, not on every tick.
	whole := int(seconds)
	if whole == r.lastWhole {
		return
	}
	r.lastWhole = whole
	fmt.Fprintf(r.out, "[%s]\n", domain.FormatClock(seconds))
}

func (r *terminalRenderer) RenderAnswerResult(correct bool) {
	if correct {
		fmt.Fprintln(r.out, "Correct!")
	} else {
		fmt.Fprintln(r.out, "Wrong! (-10s)")
	}
}

func (r *terminalRenderer) RenderSessionEndMessage(reason domain.EndReason) {
	if reason == domain.EndTimeExpired {
		fmt.Fprintln(r.out, "\nTime's up!")
	} else {
		fmt.Fprintln(r.out, "\nAll done!")
	}
}
