package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"

	redisclient "github.com/yungbote/lore-backend/internal/clients/redis"
	"github.com/yungbote/lore-backend/internal/data/repos"
	"github.com/yungbote/lore-backend/internal/observability"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/pkg/timewindow"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/temporalx/recapgen"
)

// Starter is the part of the Temporal client used to fire recap workflows.
type Starter interface {
	ExecuteWorkflow(ctx context.Context, options temporalsdkclient.StartWorkflowOptions, workflow interface{}, args ...interface{}) (temporalsdkclient.WorkflowRun, error)
}

type Activities struct {
	Log       *logger.Logger
	UserMeta  repos.UserMetaRepo
	Starter   Starter
	TaskQueue string

	// Leaser is optional; nil disables cross-sweep suppression.
	Leaser      redisclient.Leaser
	LeaseTTL    time.Duration
	Concurrency int

	Now func() time.Time
}

func (a *Activities) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *Activities) SelectUsers(ctx context.Context, in SelectUsersInput) (SelectUsersResult, error) {
	start := time.Now()
	rows, err := a.UserMeta.ListEligible(dbctx.New(ctx), in.AsOf, EligibilityThreshold, in.Cursor, in.Limit)
	if err != nil {
		observability.ObserveActivity(ActivitySelectUsers, "error", time.Since(start))
		return SelectUsersResult{}, fmt.Errorf("select eligible users: %w", err)
	}
	observability.ObserveActivity(ActivitySelectUsers, "ok", time.Since(start))
	observability.IncSweepPage()

	out := SelectUsersResult{Users: make([]Candidate, 0, len(rows))}
	for _, m := range rows {
		out.Users = append(out.Users, Candidate{UserID: m.UserID, Timezone: m.EffectiveTimezone()})
	}
	a.Log.Debug("sweep page selected", "cursor", in.Cursor, "count", len(out.Users))
	return out, nil
}

// TriggerRecaps starts one recap workflow per user concurrently and touches
// each user's last-recap timestamp after a successful start. Failures do not
// cancel siblings; they are joined so the host retries the page.
func (a *Activities) TriggerRecaps(ctx context.Context, in TriggerInput) (TriggerResult, error) {
	start := time.Now()
	loc, err := timewindow.LoadLocation(in.ReferenceTimezone)
	if err != nil {
		return TriggerResult{}, err
	}
	window := timewindow.Yesterday(in.AsOf, loc)
	if in.Dev {
		window = timewindow.Today(in.AsOf, loc)
	}
	date := window.Date(loc)
	window = window.UTC()

	var (
		mu   sync.Mutex
		res  TriggerResult
		errs []error
	)
	record := func(f func()) {
		mu.Lock()
		defer mu.Unlock()
		f()
	}

	var g errgroup.Group
	if a.Concurrency > 0 {
		g.SetLimit(a.Concurrency)
	}
	for _, u := range in.Users {
		g.Go(func() error {
			outcome, err := a.triggerOne(ctx, u, window, date, in)
			record(func() {
				switch {
				case err != nil:
					errs = append(errs, fmt.Errorf("user %s: %w", u.UserID, err))
				case outcome == outcomeSuppressed:
					res.Suppressed++
				case outcome == outcomeAlreadyStarted:
					res.AlreadyStarted++
				default:
					res.Triggered++
				}
			})
			return nil
		})
	}
	_ = g.Wait()

	observability.AddSweepTriggers("triggered", res.Triggered)
	observability.AddSweepTriggers("already_started", res.AlreadyStarted)
	observability.AddSweepTriggers("suppressed", res.Suppressed)
	observability.AddSweepTriggers("failed", len(errs))

	if len(errs) > 0 {
		observability.ObserveActivity(ActivityTriggerRecaps, "error", time.Since(start))
		a.Log.Warn("recap triggers failed", "failed", len(errs), "triggered", res.Triggered, "date", date)
		return res, errors.Join(errs...)
	}
	observability.ObserveActivity(ActivityTriggerRecaps, "ok", time.Since(start))
	a.Log.Info("recap triggers sent", "triggered", res.Triggered, "already_started", res.AlreadyStarted, "suppressed", res.Suppressed, "date", date)
	return res, nil
}

type triggerOutcome int

const (
	outcomeStarted triggerOutcome = iota
	outcomeAlreadyStarted
	outcomeSuppressed
)

func (a *Activities) triggerOne(ctx context.Context, u Candidate, window timewindow.Window, date string, in TriggerInput) (triggerOutcome, error) {
	leaseKey := fmt.Sprintf("recap:%s:%s", u.UserID, date)
	var leaseToken string
	if a.Leaser != nil {
		token, ok, err := a.Leaser.Acquire(ctx, leaseKey, a.leaseTTL())
		switch {
		case err != nil:
			a.Log.Warn("recap lease unavailable; triggering without it", "user_id", u.UserID, "error", err)
		case !ok:
			return outcomeSuppressed, nil
		default:
			leaseToken = token
		}
	}
	release := func() {
		if a.Leaser == nil || leaseToken == "" {
			return
		}
		if err := a.Leaser.Release(context.WithoutCancel(ctx), leaseKey, leaseToken); err != nil {
			a.Log.Warn("recap lease release failed", "user_id", u.UserID, "error", err)
		}
	}

	outcome := outcomeStarted
	_, err := a.Starter.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:                                       recapgen.WorkflowID(u.UserID, date),
		TaskQueue:                                a.TaskQueue,
		WorkflowIDReusePolicy:                    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, recapgen.WorkflowName, recapgen.Input{
		UserID:            u.UserID,
		Timezone:          u.Timezone,
		ReferenceTimezone: in.ReferenceTimezone,
		Dev:               in.Dev,
		WindowStart:       &window.Start,
		WindowEnd:         &window.End,
	})
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &already) {
			release()
			return outcomeStarted, fmt.Errorf("start recap workflow: %w", err)
		}
		outcome = outcomeAlreadyStarted
	}

	if err := a.UserMeta.TouchLastRecapAt(dbctx.New(ctx), u.UserID, a.now()); err != nil {
		release()
		return outcome, fmt.Errorf("touch last recap: %w", err)
	}
	return outcome, nil
}

func (a *Activities) leaseTTL() time.Duration {
	if a.LeaseTTL > 0 {
		return a.LeaseTTL
	}
	return EligibilityThreshold
}
