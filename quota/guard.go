package quota

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidKey covers missing, unknown and under-permissioned keys.
	ErrInvalidKey = errors.New("invalid api key")

	// ErrLimitExceeded rejects an otherwise valid key whose daily request
	// ceiling is exhausted.
	ErrLimitExceeded = errors.New("daily limit exceeded")
)

const (
	limitKeyFormat = "apilimit:%s:%s:%s"
	userKeyFormat  = "apiuser:%s:%s:%s"

	userCounterBaseTTL = 7 * 24 * time.Hour
)

// Admission is the outcome of the admission check. KeyTag is the metric
// identity bucket: "none" for a missing key, "invalid" for an unknown
// one, otherwise the key id itself.
type Admission struct {
	Key    Key
	KeyTag string
}

// Guard validates the API key and enforces the per-key daily ceiling. It
// never mutates key records and is the only component touching the
// counter store.
type Guard struct {
	keys     KeyStore
	counters CounterStore
	now      func() time.Time
}

func NewGuard(keys KeyStore, counters CounterStore) *Guard {
	return &Guard{keys: keys, counters: counters, now: time.Now}
}

// Admit walks UNVALIDATED -> KEY_CHECKED -> QUOTA_CHECKED and returns the
// admitted key, or ErrInvalidKey/ErrLimitExceeded. Counters are only
// touched for known, permitted keys. The client identity, usually the
// requester IP, feeds the distinct-user counter.
func (g *Guard) Admit(ctx context.Context, keyID string, mode Mode, client string) (Admission, error) {
	if keyID == "" {
		return Admission{KeyTag: "none"}, ErrInvalidKey
	}

	key, found, err := g.keys.Get(ctx, keyID)
	if err != nil {
		log.WithFields(log.Fields{
			"key":   keyID,
			"error": err.Error(),
		}).Error("Cannot look up api key.")

		return Admission{KeyTag: "invalid"}, ErrInvalidKey
	}

	if !found {
		return Admission{KeyTag: "invalid"}, ErrInvalidKey
	}

	admission := Admission{Key: key, KeyTag: key.ValidKey}

	if !key.AllowedFor(mode) {
		return admission, ErrInvalidKey
	}

	today := g.now().UTC()
	limitKey := fmt.Sprintf(limitKeyFormat,
		key.ValidKey, string(mode), today.Format("20060102"))

	count, err := g.counters.Incr(ctx, limitKey, untilEndOfDay(today))
	if err != nil {
		// The counter store is best effort for metering; a broken store
		// must not take the API down, so the request is admitted.
		log.WithFields(log.Fields{
			"key":   key.ValidKey,
			"error": err.Error(),
		}).Warn("Cannot increment rate limit counter.")
	} else if key.MaxReq > 0 && count > int64(key.MaxReq) {
		return admission, ErrLimitExceeded
	}

	g.recordUser(ctx, key.ValidKey, mode, today, client)

	return admission, nil
}

// recordUser feeds the approximate per-day distinct-user counter with the
// client identity. Purely for usage dashboards; failures never affect the
// admission outcome.
func (g *Guard) recordUser(ctx context.Context, keyID string, mode Mode, today time.Time, client string) {
	if client == "" {
		return
	}

	userKey := fmt.Sprintf(userKeyFormat,
		string(mode), keyID, today.Format("2006-01-02"))
	ttl := userCounterBaseTTL + time.Duration(rand.Int63n(int64(24*time.Hour)))

	if err := g.counters.AddUser(ctx, userKey, client, ttl); err != nil {
		log.WithFields(log.Fields{
			"key":   keyID,
			"error": err.Error(),
		}).Warn("Cannot record api user.")
	}
}

func untilEndOfDay(now time.Time) time.Duration {
	next := now.AddDate(0, 0, 1).Truncate(24 * time.Hour)

	// An hour of grace so a counter read right at midnight still works.
	return next.Sub(now) + time.Hour
}
