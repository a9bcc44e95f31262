package cron

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/carshop-ar/carshop-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
	held     bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held || f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.acquired = false; return nil }

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newTestService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	service, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: registry,
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestRunOnceRunsAllJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "coupon-expiry"}
	failA := &testJob{name: "notification-cleanup", err: errors.New("boom")}
	failB := &testJob{name: "outbox-retention", err: errors.New("bang")}
	lock := &fakeLock{}
	service := newTestService(t, lock, failA, success, failB)

	err := service.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected 2 combined errors, got %d", got)
	}
	if !strings.Contains(err.Error(), "notification-cleanup") || !strings.Contains(err.Error(), "outbox-retention") {
		t.Fatalf("error should name failing jobs: %v", err)
	}
	for _, job := range []*testJob{success, failA, failB} {
		if job.runs != 1 {
			t.Fatalf("expected %s to run once, ran %d", job.name, job.runs)
		}
	}
	if lock.acquired {
		t.Fatal("lock should be released after the cycle")
	}
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "coupon-expiry"}
	service := newTestService(t, &fakeLock{held: true}, job)

	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job should not run without the lock, ran %d", job.runs)
	}
}

func TestNewServiceRequiresLock(t *testing.T) {
	if _, err := NewService(ServiceParams{Logger: logger.New(logger.Options{ServiceName: "cron-test"})}); err == nil {
		t.Fatal("expected error without lock")
	}
}

func TestRunJobRunsOnlyTheNamedJob(t *testing.T) {
	expiry := &testJob{name: "coupon-expiry"}
	cleanup := &testJob{name: "notification-cleanup"}
	lock := &fakeLock{}
	service := newTestService(t, lock, expiry, cleanup)

	if err := service.RunJob(context.Background(), "notification-cleanup"); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if cleanup.runs != 1 || expiry.runs != 0 {
		t.Fatalf("unexpected runs cleanup=%d expiry=%d", cleanup.runs, expiry.runs)
	}
	if lock.acquired {
		t.Fatal("lock should be released")
	}

	err := service.RunJob(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "coupon-expiry") {
		t.Fatalf("expected unknown job error listing known jobs, got %v", err)
	}
}
