package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/yungbote/lore-backend/internal/platform/envutil"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/temporalx"
	"github.com/yungbote/lore-backend/internal/temporalx/recapgen"
	"github.com/yungbote/lore-backend/internal/temporalx/sweep"
)

// Runner hosts the recap and sweep workflows on one task queue.
type Runner struct {
	log *logger.Logger
	tc  temporalsdkclient.Client
	cfg temporalx.Config

	sweepCfg sweep.Config
	recap    *recapgen.Activities
	sweep    *sweep.Activities
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	cfg temporalx.Config,
	sweepCfg sweep.Config,
	recapActs *recapgen.Activities,
	sweepActs *sweep.Activities,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if recapActs == nil || sweepActs == nil {
		return nil, fmt.Errorf("temporal worker missing activities")
	}
	return &Runner{
		log:      log.With("component", "TemporalWorker"),
		tc:       tc,
		cfg:      cfg,
		sweepCfg: sweepCfg,
		recap:    recapActs,
		sweep:    sweepActs,
	}, nil
}

// Start polls until ctx is cancelled. Worker start is retried for
// TEMPORAL_WORKER_START_MAX_WAIT so the worker can come up before the cluster.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Info("starting temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	maxWait := envutil.Duration("TEMPORAL_WORKER_START_MAX_WAIT", time.Minute)
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			r.log.Info("temporal worker started", "task_queue", r.cfg.TaskQueue, "attempts", attempt)
			break
		}
		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		missingNS := errors.As(startErr, &nfe)
		if missingNS && r.cfg.AutoRegisterNamespace {
			if err := temporalx.EnsureNamespace(ctx, r.log, r.cfg); err != nil {
				r.log.Warn("temporal namespace ensure failed", "namespace", r.cfg.Namespace, "error", err)
			}
		}
		if maxWait <= 0 || time.Now().After(deadline) {
			if missingNS {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", r.cfg.Namespace, startErr)
			}
			return startErr
		}
		r.log.Warn("temporal worker failed to start; retrying", "attempt", attempt, "error", startErr)
		time.Sleep(temporalx.Backoff(250*time.Millisecond, 5*time.Second, attempt))
	}

	if r.sweepCfg.ScheduleEnabled {
		if err := sweep.EnsureSchedule(ctx, r.tc, r.log, r.sweepCfg, r.cfg.TaskQueue); err != nil {
			return fmt.Errorf("ensure sweep schedule: %w", err)
		}
	}
	return nil
}

func (r *Runner) newWorker() worker.Worker {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})
	recapgen.Register(w, r.recap)
	sweep.Register(w, r.sweep)
	return w
}
