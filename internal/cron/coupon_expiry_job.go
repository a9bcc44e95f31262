package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/carshop-ar/carshop-backend/pkg/logger"
)

type CouponExpiryJobParams struct {
	Logger     *logger.Logger
	Repository couponExpiryRepo
}

type couponExpiryRepo interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// NewCouponExpiryJob deactivates coupons whose validity window has closed, so
// listings reflect expiry without waiting for a redemption attempt.
func NewCouponExpiryJob(params CouponExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &couponExpiryJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type couponExpiryJob struct {
	logg *logger.Logger
	repo couponExpiryRepo
	now  func() time.Time
}

func (j *couponExpiryJob) Name() string { return "coupon-expiry" }

func (j *couponExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	updated, err := j.repo.DeactivateExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("coupon expiry: %w", err)
	}
	if updated > 0 {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"as_of":            now,
			"coupons_disabled": updated,
		}), "expired coupons deactivated")
	}
	return nil
}
