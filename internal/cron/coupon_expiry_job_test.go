package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carshop-ar/carshop-backend/internal/coupons"
	"github.com/carshop-ar/carshop-backend/pkg/db/dbtest"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
)

func TestCouponExpiryJobDeactivatesExpiredCoupons(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	conn := dbtest.Open(t)
	repo := coupons.NewRepository(conn)

	for code, validTo := range map[string]time.Time{
		"OLD":  now.Add(-time.Hour),
		"LIVE": now.Add(time.Hour),
	} {
		coupon := models.Coupon{
			Code:          code,
			DiscountType:  enums.DiscountTypeFixed,
			DiscountValue: decimal.NewFromInt(5),
			Active:        true,
			ValidFrom:     now.AddDate(0, -1, 0),
			ValidTo:       validTo,
		}
		if err := repo.Create(context.Background(), &coupon); err != nil {
			t.Fatalf("create coupon: %v", err)
		}
	}

	jobIface, err := NewCouponExpiryJob(CouponExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewCouponExpiryJob: %v", err)
	}
	job := jobIface.(*couponExpiryJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	active := map[string]bool{}
	var rows []models.Coupon
	if err := conn.Find(&rows).Error; err != nil {
		t.Fatalf("list coupons: %v", err)
	}
	for _, row := range rows {
		active[row.Code] = row.Active
	}
	if active["OLD"] {
		t.Fatal("expired coupon should be inactive")
	}
	if !active["LIVE"] {
		t.Fatal("live coupon should stay active")
	}
}

type failingCouponRepo struct{}

func (failingCouponRepo) DeactivateExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestCouponExpiryJobPropagatesError(t *testing.T) {
	job, err := NewCouponExpiryJob(CouponExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: failingCouponRepo{},
	})
	if err != nil {
		t.Fatalf("NewCouponExpiryJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
