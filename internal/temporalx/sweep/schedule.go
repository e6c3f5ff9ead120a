package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/lore-backend/internal/platform/logger"
)

const (
	ScheduleID          = "recap-sweep-schedule"
	scheduledWorkflowID = "recap-sweep"
)

// NextRun validates a standard five-field cron spec and returns its next fire
// time after from, in tz.
func NextRun(spec, tz string, from time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("sweep cron timezone %q: %w", tz, err)
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("sweep cron %q: %w", spec, err)
	}
	return sched.Next(from.In(loc)), nil
}

func scheduleSpec(cfg Config) temporalsdkclient.ScheduleSpec {
	return temporalsdkclient.ScheduleSpec{
		CronExpressions: []string{cfg.Cron},
		TimeZoneName:    cfg.CronTimezone,
	}
}

func scheduleOptions(cfg Config, taskQueue string) temporalsdkclient.ScheduleOptions {
	return temporalsdkclient.ScheduleOptions{
		ID:   ScheduleID,
		Spec: scheduleSpec(cfg),
		Action: &temporalsdkclient.ScheduleWorkflowAction{
			ID:        scheduledWorkflowID,
			Workflow:  WorkflowName,
			TaskQueue: taskQueue,
			Args: []interface{}{Input{
				BatchSize:         cfg.BatchSize,
				ReferenceTimezone: cfg.ReferenceTimezone,
			}},
		},
		Overlap: enums.SCHEDULE_OVERLAP_POLICY_SKIP,
	}
}

// EnsureSchedule creates the periodic sweep schedule, or updates its spec and
// action when it already exists.
func EnsureSchedule(ctx context.Context, c temporalsdkclient.Client, log *logger.Logger, cfg Config, taskQueue string) error {
	if c == nil {
		return fmt.Errorf("temporal client is not configured")
	}
	next, err := NextRun(cfg.Cron, cfg.CronTimezone, time.Now())
	if err != nil {
		return err
	}
	opts := scheduleOptions(cfg, taskQueue)

	sc := c.ScheduleClient()
	_, err = sc.Create(ctx, opts)
	switch {
	case err == nil:
		log.Info("recap sweep schedule created", "schedule_id", ScheduleID, "cron", cfg.Cron, "next_run", next)
		return nil
	case !errors.Is(err, temporal.ErrScheduleAlreadyRunning):
		return fmt.Errorf("create sweep schedule: %w", err)
	}

	h := sc.GetHandle(ctx, ScheduleID)
	err = h.Update(ctx, temporalsdkclient.ScheduleUpdateOptions{
		DoUpdate: func(in temporalsdkclient.ScheduleUpdateInput) (*temporalsdkclient.ScheduleUpdate, error) {
			sched := in.Description.Schedule
			spec := scheduleSpec(cfg)
			sched.Spec = &spec
			sched.Action = opts.Action
			return &temporalsdkclient.ScheduleUpdate{Schedule: &sched}, nil
		},
	})
	if err != nil {
		return fmt.Errorf("update sweep schedule: %w", err)
	}
	log.Info("recap sweep schedule updated", "schedule_id", ScheduleID, "cron", cfg.Cron, "next_run", next)
	return nil
}
