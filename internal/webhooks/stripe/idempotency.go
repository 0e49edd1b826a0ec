package stripewebhook

import (
	"context"
	"time"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/redis"
)

// GuardScope namespaces payment event ids in the idempotency keyspace.
const GuardScope = "stripe-webhook"

// IdempotencyGuard remembers payment events that were already handled so a
// redelivered event never creates a second order.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency store is required")
	}
	if ttl < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency ttl must be non-negative")
	}
	return &IdempotencyGuard{store: store, ttl: ttl}, nil
}

// CheckAndMark claims the event id and reports whether it had been claimed before.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}
	claimed, err := g.store.SetNX(ctx, g.store.IdempotencyKey(GuardScope, eventID), time.Now().UTC().Format(time.RFC3339), g.ttl)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim webhook event")
	}
	return !claimed, nil
}

// Delete releases the claim so a failed event can be redelivered.
func (g *IdempotencyGuard) Delete(ctx context.Context, eventID string) error {
	if eventID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}
	return g.store.Del(ctx, g.store.IdempotencyKey(GuardScope, eventID))
}
