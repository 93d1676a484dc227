package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-rush/internal/app"
	"trivia-rush/internal/domain"
	"trivia-rush/internal/infra/cache"
	"golang.org/x/sync/singleflight"
)

// BankRepository keeps loaded banks in process memory until their jittered
// TTL runs out. Concurrent misses for the same bank collapse into one loader
// call.
type BankRepository struct {
	loader app.BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader app.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := r.lookup(bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Another goroutine may have filled the cache while we waited.
		if bank, ok := r.lookup(bankID); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}
		r.store(bankID, bank)
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) lookup(bankID string) (domain.Bank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[bankID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.Bank{}, false
	}
	return entry.bank, true
}

func (r *BankRepository) store(bankID string, bank domain.Bank) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[bankID] = cachedBank{
		bank:      bank,
		expiresAt: r.clock().Add(cache.TTLWithJitter(r.rnd, r.ttl)),
	}
}

// StaticBankLoader is a loader backed by an in-memory map (useful for tests
// and for running without a database).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks map[string]domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}
