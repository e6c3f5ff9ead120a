package recapgen

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/timewindow"
)

func activityRetry() *temporal.RetryPolicy {
	return &temporal.RetryPolicy{
		InitialInterval:        10 * time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        5 * time.Minute,
		MaximumAttempts:        5,
		NonRetryableErrorTypes: []string{ErrTypeInvalidStyle, ErrTypeImageMissing},
	}
}

// Workflow generates at most one daily recap for a user.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	info := workflow.GetInfo(ctx)
	res := Result{RunKey: info.WorkflowExecution.ID + "/" + info.WorkflowExecution.RunID}
	if strings.TrimSpace(in.UserID) == "" {
		return res, temporal.NewNonRetryableApplicationError("recapgen: missing user_id", "InvalidInput", nil)
	}
	logger := workflow.GetLogger(ctx)

	window, err := resolveWindow(ctx, in)
	if err != nil {
		return res, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
	}

	dbCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         activityRetry(),
	})
	aiCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy:         activityRetry(),
	})

	stage := types.RecapStageLoadMeta
	fail := func(cause error) (Result, error) {
		markCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			StartToCloseTimeout: 30 * time.Second,
			RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
		})
		if err := workflow.ExecuteActivity(markCtx, ActivityMarkFailed, MarkFailedInput{
			RunKey: res.RunKey,
			Stage:  stage,
			Error:  cause.Error(),
		}).Get(markCtx, nil); err != nil {
			logger.Warn("recap failure not recorded", "run_key", res.RunKey, "error", err)
		}
		return res, cause
	}

	var meta UserMetaResult
	if err := workflow.ExecuteActivity(dbCtx, ActivityLoadUserMeta, LoadUserMetaInput{
		RunKey:      res.RunKey,
		UserID:      in.UserID,
		WindowStart: window.Start,
		WindowEnd:   window.End,
	}).Get(ctx, &meta); err != nil {
		return fail(err)
	}

	modifier, err := StyleModifier(types.ArtStyle(meta.ArtStyle))
	if err != nil {
		return fail(temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidStyle, err))
	}

	stage = types.RecapStageLoadMoments
	var moments MomentsResult
	if err := workflow.ExecuteActivity(dbCtx, ActivityLoadMoments, LoadMomentsInput{
		RunKey: res.RunKey,
		UserID: in.UserID,
		Start:  window.Start,
		End:    window.End,
	}).Get(ctx, &moments); err != nil {
		return fail(err)
	}
	res.MomentCount = len(moments.Texts)
	if res.MomentCount == 0 {
		logger.Info("no moments in window; recap skipped", "run_key", res.RunKey)
		res.Skipped = true
		return res, nil
	}

	stage = types.RecapStageNarrative
	var narrative string
	if err := workflow.ExecuteActivity(aiCtx, ActivityGenerateNarrative, NarrativeInput{
		RunKey: res.RunKey,
		Texts:  moments.Texts,
	}).Get(ctx, &narrative); err != nil {
		return fail(err)
	}

	stage = types.RecapStageImagePrompt
	var prompt string
	if err := workflow.ExecuteActivity(aiCtx, ActivityGenerateImagePrompt, ImagePromptInput{
		RunKey:    res.RunKey,
		Narrative: narrative,
	}).Get(ctx, &prompt); err != nil {
		return fail(err)
	}

	render := RenderImageInput{RunKey: res.RunKey, Prompt: prompt, StyleModifier: modifier}
	persist := PersistInput{RunKey: res.RunKey, UserID: in.UserID, Narrative: narrative}

	// one re-render is allowed when the stored image disappears before insert
	for attempt := 0; ; attempt++ {
		stage = types.RecapStageRenderImage
		var img RenderImageResult
		if err := workflow.ExecuteActivity(aiCtx, ActivityRenderImage, render).Get(ctx, &img); err != nil {
			return fail(err)
		}
		res.ImageKey = img.ImageKey
		persist.ImageKey = img.ImageKey

		stage = types.RecapStagePersist
		var out PersistResult
		err := workflow.ExecuteActivity(dbCtx, ActivityPersist, persist).Get(ctx, &out)
		if err == nil {
			res.RecapID = out.RecapID
			return res, nil
		}
		var appErr *temporal.ApplicationError
		if attempt == 0 && errors.As(err, &appErr) && appErr.Type() == ErrTypeImageMissing {
			logger.Warn("stored image missing; rendering again", "run_key", res.RunKey, "image_key", img.ImageKey)
			continue
		}
		return fail(err)
	}
}

// resolveWindow honours an explicit window, otherwise yesterday (or today in
// dev mode) in the reference timezone at workflow time.
func resolveWindow(ctx workflow.Context, in Input) (timewindow.Window, error) {
	if in.WindowStart != nil && in.WindowEnd != nil {
		w := timewindow.Window{Start: *in.WindowStart, End: *in.WindowEnd}.UTC()
		if !w.Valid() {
			return w, fmt.Errorf("recapgen: window start must precede end")
		}
		return w, nil
	}
	loc, err := timewindow.LoadLocation(in.ReferenceTimezone)
	if err != nil {
		return timewindow.Window{}, err
	}
	now := workflow.Now(ctx)
	if in.Dev {
		return timewindow.Today(now, loc).UTC(), nil
	}
	return timewindow.Yesterday(now, loc).UTC(), nil
}
