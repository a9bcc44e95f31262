package cron

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carshop-ar/carshop-backend/pkg/db"
	"github.com/carshop-ar/carshop-backend/pkg/db/dbtest"
	"github.com/carshop-ar/carshop-backend/pkg/db/models"
	"github.com/carshop-ar/carshop-backend/pkg/enums"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
)

func TestNotificationCleanupJobCutoff(t *testing.T) {
	now := time.Date(2026, 1, 31, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		name      string
		retention int
		want      time.Time
	}{
		{name: "default window", retention: 0, want: now.AddDate(0, 0, -notificationRetentionDays)},
		{name: "negative falls back", retention: -3, want: now.AddDate(0, 0, -notificationRetentionDays)},
		{name: "configured window", retention: 7, want: time.Date(2026, 1, 24, 15, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeNotificationRepo{deletedRows: 3}
			job := newNotificationCleanupJob(t, repo, tc.retention)
			job.now = func() time.Time { return now }

			if err := job.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if repo.called != 1 {
				t.Fatalf("expected one delete, got %d", repo.called)
			}
			if !repo.lastCutoff.Equal(tc.want) {
				t.Fatalf("expected cutoff %s, got %s", tc.want, repo.lastCutoff)
			}
		})
	}
}

func TestNotificationCleanupJobWrapsRepositoryError(t *testing.T) {
	boom := errors.New("boom")
	job := newNotificationCleanupJob(t, &fakeNotificationRepo{err: boom}, 0)

	err := job.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestRetentionJobsRequireCollaborators(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	if _, err := NewNotificationCleanupJob(NotificationCleanupJobParams{Logger: logg}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewNotificationCleanupJob(NotificationCleanupJobParams{Repository: &fakeNotificationRepo{}}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewOutboxRetentionJob(OutboxRetentionJobParams{Logger: logg, Repository: outbox.NewRepository(nil)}); err == nil {
		t.Fatal("expected error without db runner")
	}
}

func TestOutboxRetentionJobDeletesOnlyOldPublishedRows(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	conn := dbtest.Open(t)

	old := now.AddDate(0, 0, -45)
	recent := now.AddDate(0, 0, -2)
	insertEvent(t, conn, &old)
	insertEvent(t, conn, &recent)
	keep := insertEvent(t, conn, nil)

	job := newOutboxRetentionJob(t, db.NewFromConn(conn), outbox.NewRepository(conn))
	job.now = func() time.Time { return now }
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var remaining []models.OutboxEvent
	if err := conn.Order("created_at ASC").Find(&remaining).Error; err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining events, got %d", len(remaining))
	}
	found := false
	for _, ev := range remaining {
		if ev.ID == keep {
			found = true
		}
		if ev.PublishedAt != nil && ev.PublishedAt.Before(now.AddDate(0, 0, -outboxRetentionDays)) {
			t.Fatalf("old published event %s survived", ev.ID)
		}
	}
	if !found {
		t.Fatal("unpublished event must never be deleted")
	}
}

func TestOutboxRetentionJobPropagatesError(t *testing.T) {
	job := newOutboxRetentionJob(t, failingTxRunner{err: errors.New("boom")}, outbox.NewRepository(nil))
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newOutboxRetentionJob(t *testing.T, runner txRunner, repo outboxRetentionRepo) *outboxRetentionJob {
	t.Helper()
	jobIface, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:         runner,
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewOutboxRetentionJob: %v", err)
	}
	job, ok := jobIface.(*outboxRetentionJob)
	if !ok {
		t.Fatalf("expected outboxRetentionJob, got %T", jobIface)
	}
	return job
}

func insertEvent(t *testing.T, conn *gorm.DB, publishedAt *time.Time) uuid.UUID {
	t.Helper()
	event := models.OutboxEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
		PublishedAt:   publishedAt,
	}
	if err := conn.Create(&event).Error; err != nil {
		t.Fatalf("insert event: %v", err)
	}
	return event.ID
}

type failingTxRunner struct {
	err error
}

func (f failingTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return f.err
}

func newNotificationCleanupJob(t *testing.T, repo *fakeNotificationRepo, retention int) *notificationCleanupJob {
	t.Helper()
	jobIface, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: repo,
		Retention:  retention,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	return jobIface.(*notificationCleanupJob)
}

type fakeNotificationRepo struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	return f.deletedRows, f.err
}
