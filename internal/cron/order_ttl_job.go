package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/lumakara/studio-backend/internal/orders"
	"github.com/lumakara/studio-backend/pkg/logger"
)

const defaultPendingTTL = 10 * 24 * time.Hour

// staleOrderExpirer is the slice of the orders service the job needs.
type staleOrderExpirer interface {
	ExpireStalePending(ctx context.Context, cutoff time.Time) (*orders.StaleOrderResult, error)
}

// OrderTTLJobParams configure the stale-order sweep.
type OrderTTLJobParams struct {
	Logger     *logger.Logger
	Orders     staleOrderExpirer
	PendingTTL time.Duration
}

// NewOrderTTLJob builds the job that cancels PENDING orders whose
// payment never arrived within the configured TTL.
func NewOrderTTLJob(params OrderTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	ttl := params.PendingTTL
	if ttl <= 0 {
		ttl = defaultPendingTTL
	}
	return &orderTTLJob{
		logg:   params.Logger,
		orders: params.Orders,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

type orderTTLJob struct {
	logg   *logger.Logger
	orders staleOrderExpirer
	ttl    time.Duration
	now    func() time.Time
}

func (j *orderTTLJob) Name() string { return "order-ttl" }

func (j *orderTTLJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	result, err := j.orders.ExpireStalePending(ctx, cutoff)
	if result != nil {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"cancelled": result.Cancelled,
			"cutoff":    result.Cutoff.Format(time.RFC3339),
		})
		j.logg.Info(logCtx, "stale order sweep complete")
	}
	if err != nil {
		return fmt.Errorf("expire stale orders: %w", err)
	}
	return nil
}
