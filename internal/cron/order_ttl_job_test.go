package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumakara/studio-backend/internal/orders"
	"github.com/lumakara/studio-backend/pkg/logger"
)

type fakeExpirer struct {
	cutoff time.Time
	result *orders.StaleOrderResult
	err    error
}

func (f *fakeExpirer) ExpireStalePending(ctx context.Context, cutoff time.Time) (*orders.StaleOrderResult, error) {
	f.cutoff = cutoff
	if f.result == nil {
		f.result = &orders.StaleOrderResult{Cutoff: cutoff}
	}
	return f.result, f.err
}

func TestOrderTTLJobUsesConfiguredCutoff(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	expirer := &fakeExpirer{result: &orders.StaleOrderResult{Cancelled: 2}}

	job, err := NewOrderTTLJob(OrderTTLJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Orders:     expirer,
		PendingTTL: 240 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewOrderTTLJob: %v", err)
	}
	job.(*orderTTLJob).now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := now.Add(-240 * time.Hour)
	if !expirer.cutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", expirer.cutoff, want)
	}
}

func TestOrderTTLJobPropagatesSweepErrors(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("row locked")}
	job, err := NewOrderTTLJob(OrderTTLJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Orders: expirer,
	})
	if err != nil {
		t.Fatalf("NewOrderTTLJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected sweep error to surface")
	}
}

func TestRedisLockReleaseOnlyByOwner(t *testing.T) {
	store := &fakeLockStore{values: map[string]string{}}
	lock, err := NewRedisLock(store, "test:lock:cron", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("acquire = (%v, %v), want (true, nil)", ok, err)
	}

	// simulate another instance taking over after expiry
	store.values["test:lock:cron"] = "someone-else"
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["test:lock:cron"] != "someone-else" {
		t.Fatal("release removed a lock owned by another instance")
	}
}

type fakeLockStore struct {
	values map[string]string
}

func (f *fakeLockStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeLockStore) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeLockStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}
