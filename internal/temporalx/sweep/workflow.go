package sweep

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// TriggerRetryPolicy governs host-level retries of a whole page of triggers.
func TriggerRetryPolicy() *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:    time.Minute,
		BackoffCoefficient: 2.0,
		MaximumInterval:    10 * time.Minute,
		MaximumAttempts:    5,
	}
}

// Workflow processes one page of eligible users and continues as new while
// pages come back full.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	logger := workflow.GetLogger(ctx)
	batch := in.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	asOf := workflow.Now(ctx).UTC()
	if in.AsOf != nil && !in.AsOf.IsZero() {
		asOf = in.AsOf.UTC()
	}
	res := Result{Pages: in.Pages, Triggered: in.Triggered, LastCursor: in.Cursor}

	selectCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})
	var page SelectUsersResult
	if err := workflow.ExecuteActivity(selectCtx, ActivitySelectUsers, SelectUsersInput{
		AsOf:   asOf,
		Cursor: in.Cursor,
		Limit:  batch,
	}).Get(ctx, &page); err != nil {
		return res, err
	}
	if len(page.Users) == 0 {
		logger.Info("sweep complete", "pages", res.Pages, "triggered", res.Triggered)
		return res, nil
	}

	triggerCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy:         TriggerRetryPolicy(),
	})
	var tr TriggerResult
	if err := workflow.ExecuteActivity(triggerCtx, ActivityTriggerRecaps, TriggerInput{
		Users:             page.Users,
		AsOf:              asOf,
		ReferenceTimezone: in.ReferenceTimezone,
		Dev:               in.Dev,
	}).Get(ctx, &tr); err != nil {
		return res, err
	}

	res.Pages++
	res.Triggered += tr.Triggered
	res.LastCursor = page.Users[len(page.Users)-1].UserID

	if len(page.Users) < batch {
		logger.Info("sweep complete", "pages", res.Pages, "triggered", res.Triggered)
		return res, nil
	}
	next := in
	next.BatchSize = batch
	next.Cursor = res.LastCursor
	next.AsOf = &asOf
	next.Pages = res.Pages
	next.Triggered = res.Triggered
	return res, workflow.NewContinueAsNewError(ctx, WorkflowName, next)
}
