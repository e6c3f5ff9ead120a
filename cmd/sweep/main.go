// Command sweep starts a recap sweep, or a single user's recap, right away
// instead of waiting for the schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/lore-backend/internal/platform/envutil"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/temporalx"
	"github.com/yungbote/lore-backend/internal/temporalx/recapgen"
	"github.com/yungbote/lore-backend/internal/temporalx/sweep"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "generate a recap for this user only")
	dev := flag.Bool("dev", false, "use today's window instead of yesterday's")
	batch := flag.Int("batch", 0, "sweep page size (default RECAP_SWEEP_BATCH_SIZE)")
	wait := flag.Bool("wait", false, "block until the workflow finishes")
	flag.Parse()

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, *userID, *dev, *batch, *wait); err != nil {
		log.Error("sweep failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *logger.Logger, userID string, dev bool, batch int, wait bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg := temporalx.LoadConfig()
	tc, err := temporalx.NewClient(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer tc.Close()

	sweepCfg := sweep.LoadConfig()
	if batch <= 0 {
		batch = sweepCfg.BatchSize
	}

	var wr temporalsdkclient.WorkflowRun
	if userID != "" {
		// ad-hoc runs get a unique id so they never collide with the sweep's
		wr, err = tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
			ID:        fmt.Sprintf("daily-recap-manual:%s:%s", userID, uuid.NewString()),
			TaskQueue: cfg.TaskQueue,
		}, recapgen.WorkflowName, recapgen.Input{
			UserID:            userID,
			ReferenceTimezone: sweepCfg.ReferenceTimezone,
			Dev:               dev,
		})
	} else {
		wr, err = tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
			ID:        "recap-sweep-manual:" + time.Now().UTC().Format("20060102T150405"),
			TaskQueue: cfg.TaskQueue,
		}, sweep.WorkflowName, sweep.Input{
			BatchSize:         batch,
			ReferenceTimezone: sweepCfg.ReferenceTimezone,
			Dev:               dev,
		})
	}
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	log.Info("workflow started", "workflow_id", wr.GetID(), "run_id", wr.GetRunID(), "dev", dev)

	if !wait {
		return nil
	}
	if userID != "" {
		var res recapgen.Result
		if err := wr.Get(ctx, &res); err != nil {
			return err
		}
		log.Info("recap finished", "recap_id", res.RecapID, "moments", res.MomentCount, "skipped", res.Skipped)
		return nil
	}
	var res sweep.Result
	if err := wr.Get(ctx, &res); err != nil {
		return err
	}
	log.Info("sweep finished", "pages", res.Pages, "triggered", res.Triggered)
	return nil
}
