// Package cache holds helpers shared by the TTL-caching bank repositories.
package cache

import (
	"math/rand"
	"time"
)

// TTLWithJitter extends ttl by up to 10% random jitter so cache entries
// created together do not expire together. A non-positive ttl comes back
// unchanged as zero, which disables caching.
func TTLWithJitter(rnd *rand.Rand, ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitterMax := int64(ttl) / 10
	return ttl + time.Duration(rnd.Int63n(jitterMax+1))
}
