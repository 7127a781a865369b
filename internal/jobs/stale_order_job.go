package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// StaleOrderJob periodically surfaces orders stuck before pickup: paid orders
// nobody claimed and assigned orders nobody collected within the threshold.
// The job only observes and logs; it never cancels or reassigns an order,
// that call stays with an operator.
type StaleOrderJob struct {
	handler   queries.GetStaleOrdersQueryHandler
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewStaleOrderJob creates a watchdog for orders stuck before pickup.
// Orders older than threshold that are still paid or assigned are reported.
func NewStaleOrderJob(
	handler queries.GetStaleOrdersQueryHandler,
	threshold time.Duration,
	logger *slog.Logger,
) *StaleOrderJob {
	return &StaleOrderJob{
		handler:   handler,
		threshold: threshold,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "stale_order_job"),
	}
}

// Start begins the stale order job to run every minute.
func (j *StaleOrderJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		query, queryErr := queries.NewGetStaleOrdersQuery(time.Now().UTC().Add(-j.threshold))
		if queryErr != nil {
			j.logger.ErrorContext(ctx, "Stale order job failed to build query", "error", queryErr)
			return
		}

		stale, handleErr := j.handler.Handle(ctx, query)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Stale order job failed", "error", handleErr)
			return
		}

		for _, o := range stale {
			j.logger.WarnContext(ctx, "Order is stuck before pickup",
				"order_id", o.ID.String(),
				"status", o.Status,
				"age", time.Since(o.CreatedAt).Round(time.Second).String(),
			)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order job started (running every minute)",
		"threshold", j.threshold.String())
	return nil
}

// Stop stops the stale order job.
func (j *StaleOrderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale order job stopped")
}
