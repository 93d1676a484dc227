package redis

import (
	"context"
	"testing"
	"time"

	"trivia-rush/internal/app"
	"trivia-rush/internal/domain"
	"trivia-rush/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		BankLoader: memory.NewStaticBankLoader(map[string]domain.Bank{
			"web-trivia": sampleBank(),
		}),
	}
	repo := NewBankRepository(client, loader, time.Minute)

	bank, err := repo.GetBank(context.Background(), "web-trivia")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(bank.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(bank.Questions))
	}
	if !mr.Exists("bank:web-trivia") {
		t.Fatalf("expected cached bank key in redis")
	}

	// Second call should hit the Redis cache, loader not incremented.
	cached, err := repo.GetBank(context.Background(), "web-trivia")
	if err != nil {
		t.Fatalf("get bank cached: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Questions[0].Answer != bank.Questions[0].Answer {
		t.Fatalf("cached bank lost the answer index: %+v", cached.Questions[0])
	}
}

func TestBankRepositoryCorruptCacheFallsBackToLoader(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("bank:web-trivia", "{broken"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	loader := &countingLoader{
		BankLoader: memory.NewStaticBankLoader(map[string]domain.Bank{
			"web-trivia": sampleBank(),
		}),
	}
	repo := NewBankRepository(newClient(mr), loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), "web-trivia"); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected fallback to loader, calls=%d", loader.calls)
	}
}

type countingLoader struct {
	app.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func sampleBank() domain.Bank {
	return domain.Bank{
		ID: "web-trivia",
		Questions: []domain.Question{
			{
				Text:    "HTML is a ______.",
				Choices: []string{"programming language", "markup language"},
				Answer:  1,
			},
		},
	}
}
