package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/lumakara/studio-backend/pkg/logger"
)

type fakeLock struct {
	held     bool
	acquires int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.held = false
	return nil
}

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

func newCronService(t *testing.T, registry *Registry, lock Lock) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: registry,
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	ok := &testJob{name: "sweep"}
	bad := &testJob{name: "broken", err: errors.New("boom")}
	svc := newCronService(t, NewRegistry(ok, bad), &fakeLock{})

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if ok.runs != 1 || bad.runs != 1 {
		t.Fatalf("runs = (%d, %d), want (1, 1)", ok.runs, bad.runs)
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "sweep"}
	lock := &fakeLock{held: true}
	svc := newCronService(t, NewRegistry(job), lock)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job ran %d times while the lock was held elsewhere", job.runs)
	}
	if lock.acquires != 1 {
		t.Fatalf("acquires = %d, want 1", lock.acquires)
	}
}

func TestRegistryIgnoresNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &testJob{name: "only"})
	registry.Register(nil)
	if got := len(registry.Jobs()); got != 1 {
		t.Fatalf("jobs = %d, want 1", got)
	}
}
