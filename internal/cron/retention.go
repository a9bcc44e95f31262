package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/logger"
)

const (
	notificationRetentionDays = 90
	outboxRetentionDays       = 30
)

// retentionWindow holds what every age-based sweep shares: how far back to
// keep rows and where "now" comes from.
type retentionWindow struct {
	logg *logger.Logger
	days int
	now  func() time.Time
}

func newRetentionWindow(logg *logger.Logger, days, fallback int) (retentionWindow, error) {
	if logg == nil {
		return retentionWindow{}, errors.New("logger required")
	}
	if days <= 0 {
		days = fallback
	}
	return retentionWindow{logg: logg, days: days, now: time.Now}, nil
}

func (w retentionWindow) cutoff() time.Time {
	return w.now().UTC().AddDate(0, 0, -w.days)
}

func (w retentionWindow) report(ctx context.Context, job string, cutoff time.Time, deleted int64) {
	if deleted == 0 {
		return
	}
	w.logg.Info(w.logg.WithFields(ctx, map[string]any{
		"job":            job,
		"cutoff":         cutoff,
		"retention_days": w.days,
		"rows_deleted":   deleted,
	}), "retention sweep removed rows")
}

type NotificationCleanupJobParams struct {
	Logger     *logger.Logger
	Repository notificationsCleanupRepo
	Retention  int
}

type notificationsCleanupRepo interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewNotificationCleanupJob prunes read notifications older than Retention
// days. Unread notifications are kept regardless of age.
func NewNotificationCleanupJob(params NotificationCleanupJobParams) (Job, error) {
	if params.Repository == nil {
		return nil, errors.New("notifications repository required")
	}
	window, err := newRetentionWindow(params.Logger, params.Retention, notificationRetentionDays)
	if err != nil {
		return nil, err
	}
	return &notificationCleanupJob{retentionWindow: window, repo: params.Repository}, nil
}

type notificationCleanupJob struct {
	retentionWindow
	repo notificationsCleanupRepo
}

func (j *notificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *notificationCleanupJob) Run(ctx context.Context) error {
	cutoff := j.cutoff()
	deleted, err := j.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete read notifications before %s: %w", cutoff.Format(time.DateOnly), err)
	}
	j.report(ctx, j.Name(), cutoff, deleted)
	return nil
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type OutboxRetentionJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository outboxRetentionRepo
	Retention  int
}

type outboxRetentionRepo interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// NewOutboxRetentionJob drops published outbox rows past the window. Rows that
// were never published stay for the publisher to retry or an operator to inspect.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.DB == nil {
		return nil, errors.New("db runner required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository required")
	}
	window, err := newRetentionWindow(params.Logger, params.Retention, outboxRetentionDays)
	if err != nil {
		return nil, err
	}
	return &outboxRetentionJob{retentionWindow: window, db: params.DB, repo: params.Repository}, nil
}

type outboxRetentionJob struct {
	retentionWindow
	db   txRunner
	repo outboxRetentionRepo
}

func (j *outboxRetentionJob) Name() string { return "outbox-retention" }

func (j *outboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.cutoff()
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) (err error) {
		deleted, err = j.repo.DeletePublishedBefore(ctx, tx, cutoff)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete published outbox rows before %s: %w", cutoff.Format(time.DateOnly), err)
	}
	j.report(ctx, j.Name(), cutoff, deleted)
	return nil
}
