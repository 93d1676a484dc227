package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"trivia-rush/internal/app"
	"trivia-rush/internal/domain"
	"trivia-rush/internal/infra/cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankRepository caches bank JSON in Redis (one key per bank, with TTL) and
// falls back to the loader on cache miss.
type BankRepository struct {
	client *redis.Client
	loader app.BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader app.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	key := r.bankKey(bankID)

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		if bank, ok := decodeBank(raw); ok {
			return bank, nil
		}
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := r.client.Get(ctx, key).Bytes()
		if err == nil {
			if bank, ok := decodeBank(raw); ok {
				return bank, nil
			}
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		if encoded, err := json.Marshal(bank); err == nil {
			_ = r.client.Set(ctx, key, encoded, cache.TTLWithJitter(r.rnd, r.ttl)).Err()
		}
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) bankKey(bankID string) string {
	return "bank:" + bankID
}

// decodeBank treats undecodable cache payloads as a miss.
func decodeBank(raw []byte) (domain.Bank, bool) {
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.Bank{}, false
	}
	return bank, true
}
