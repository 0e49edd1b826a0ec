package coupons

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(dbtest.Open(t))})
	require.NoError(t, err)
	return svc
}

func TestCreateNormalizesName(t *testing.T) {
	svc := newTestService(t)
	expire := time.Now().Add(24 * time.Hour)

	coupon, err := svc.Create(context.Background(), CreateCouponRequest{Name: "  summer10 ", Expire: &expire, Discount: 10.005})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER10", coupon.Name)
	assert.Equal(t, 10.01, coupon.Discount)

	_, err = svc.Create(context.Background(), CreateCouponRequest{Name: "Summer10", Expire: &expire, Discount: 5})
	assert.True(t, errors.Is(err, ErrCouponExists), "got %v", err)
}

func TestRedeemable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	_, err := svc.Create(ctx, CreateCouponRequest{Name: "LIVE", Expire: &future, Discount: 20})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCouponRequest{Name: "OLD", Expire: &past, Discount: 20})
	require.NoError(t, err)

	coupon, err := svc.Redeemable(ctx, " live ", now)
	require.NoError(t, err)
	assert.Equal(t, "20", coupon.Discount.String())

	_, err = svc.Redeemable(ctx, "old", now)
	assert.True(t, errors.Is(err, ErrCouponExpired), "got %v", err)

	_, err = svc.Redeemable(ctx, "missing", now)
	assert.True(t, errors.Is(err, ErrCouponNotFound), "got %v", err)

	_, err = svc.Redeemable(ctx, "live", future)
	assert.True(t, errors.Is(err, ErrCouponExpired), "expiry instant itself is no longer redeemable, got %v", err)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	expire := time.Now().Add(time.Hour)
	coupon, err := svc.Create(ctx, CreateCouponRequest{Name: "WINTER", Expire: &expire, Discount: 5})
	require.NoError(t, err)

	name := "winter25"
	discount := 25.0
	updated, err := svc.Update(ctx, coupon.ID, UpdateCouponRequest{Name: &name, Discount: &discount})
	require.NoError(t, err)
	assert.Equal(t, "WINTER25", updated.Name)
	assert.Equal(t, 25.0, updated.Discount)

	require.NoError(t, svc.Delete(ctx, coupon.ID))
	_, err = svc.Get(ctx, coupon.ID)
	assert.True(t, errors.Is(err, ErrCouponNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, uuid.New()), ErrCouponNotFound))
}
