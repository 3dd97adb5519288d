package statcache

import (
	"time"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

// DefaultStatsTTL bounds how often a single username reaches the upstream.
const DefaultStatsTTL = 5 * time.Minute

type Freshness int

const (
	Missing Freshness = iota
	Fresh
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "missing"
	}
}

// Classify decides whether rec can be served as-is. Negative records use the
// same TTL, so a not-found answer is never permanent.
func Classify(rec *domain.UserCacheRecord, now time.Time, ttl time.Duration) Freshness {
	if rec == nil || rec.CachedAt.IsZero() {
		return Missing
	}
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	if now.Sub(rec.CachedAt) < ttl {
		return Fresh
	}
	return Stale
}
