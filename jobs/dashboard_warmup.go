package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/troveretail/trove-console/internal/dashboard"
)

// DashboardWarmupJob pre-populates the dashboard snapshot cache.
type DashboardWarmupJob struct {
	Dashboard *dashboard.CachedService
	Logger    *slog.Logger
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(svc *dashboard.CachedService, logger *slog.Logger) *DashboardWarmupJob {
	return &DashboardWarmupJob{Dashboard: svc, Logger: logger}
}

// Handle processes TaskDashboardWarmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	logger := j.logger().With(slog.String("reason", payload.Reason))

	snap, err := j.Dashboard.Warm(ctx)
	if err != nil {
		// Every source query failed; retrying immediately would hit the
		// same outage, so let Asynq back off.
		logger.Error("dashboard warmup failed", slog.Any("error", err))
		return err
	}
	logger.Info("dashboard warmup complete",
		slog.Bool("partial", snap.Partial),
		slog.Int("orders", snap.TotalOrders),
		slog.Int("products", snap.TotalProducts))
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
