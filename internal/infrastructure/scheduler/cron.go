package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"StockNewsDigest/internal/ports"
)

// CronScheduler drives the daily digest at a configured wall-clock
// time in the configured timezone. Runs never overlap: a tick that
// fires while the previous run is still going is skipped.
type CronScheduler struct {
	timeOfDay string
	location  *time.Location
	logger    *slog.Logger
	cron      *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler takes the "HH:MM" daily trigger and its timezone.
func NewCronScheduler(timeOfDay string, location *time.Location, logger *slog.Logger) *CronScheduler {
	if location == nil {
		location = time.UTC
	}
	return &CronScheduler{
		timeOfDay: timeOfDay,
		location:  location,
		logger:    logger,
	}
}

// Start registers the job and begins ticking.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if c.cron != nil {
		return nil
	}

	spec, err := cronSpec(c.timeOfDay)
	if err != nil {
		return fmt.Errorf("schedule time: %w", err)
	}

	c.cron = cron.New(
		cron.WithLocation(c.location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if _, err := c.cron.AddFunc(spec, func() {
		job(time.Now().In(c.location))
	}); err != nil {
		c.cron = nil
		return fmt.Errorf("add cron job: %w", err)
	}

	c.logger.Info("scheduling daily summary", "time", c.timeOfDay, "timezone", c.location.String())
	c.cron.Start()

	return nil
}

// Stop halts the cron runner, waiting for an in-flight job to finish.
func (c *CronScheduler) Stop(ctx context.Context) error {
	if c.cron == nil {
		return nil
	}

	stopCtx := c.cron.Stop()
	c.cron = nil

	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// cronSpec converts "HH:MM" into a standard five-field cron expression.
func cronSpec(timeOfDay string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(timeOfDay), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, want HH:MM", timeOfDay)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeOfDay)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeOfDay)
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
