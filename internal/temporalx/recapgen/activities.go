package recapgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"gorm.io/gorm"

	"github.com/yungbote/lore-backend/internal/data/repos"
	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/observability"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/platform/imaging"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/platform/objectstore"
	"github.com/yungbote/lore-backend/internal/platform/openai"
)

// TextGenerator is the slice of the AI client the narrative steps need.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

var _ TextGenerator = (openai.Client)(nil)

type Activities struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Repos    repos.Set
	AI       TextGenerator
	Images   ImageRenderer
	Store    objectstore.Store
	Prompts  *Prompts
	ImageOpt imaging.Options

	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *Activities) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *Activities) observe(name string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.ObserveActivity(name, status, time.Since(start))
}

func (a *Activities) LoadUserMeta(ctx context.Context, in LoadUserMetaInput) (out UserMetaResult, err error) {
	defer func(start time.Time) { a.observe(ActivityLoadUserMeta, start, err) }(time.Now())
	dbc := dbctx.New(ctx)

	if _, err = a.Repos.RecapRuns.Begin(dbc, &types.RecapRun{
		RunKey:      in.RunKey,
		UserID:      in.UserID,
		WindowStart: in.WindowStart,
		WindowEnd:   in.WindowEnd,
	}); err != nil {
		return out, fmt.Errorf("begin recap run: %w", err)
	}

	meta, err := a.Repos.UserMeta.Get(dbc, in.UserID)
	if err != nil {
		return out, fmt.Errorf("load user meta: %w", err)
	}
	out.ArtStyle = string(meta.EffectiveArtStyle())
	out.Timezone = meta.EffectiveTimezone()
	out.Found = meta != nil
	return out, nil
}

func (a *Activities) LoadMoments(ctx context.Context, in LoadMomentsInput) (out MomentsResult, err error) {
	defer func(start time.Time) { a.observe(ActivityLoadMoments, start, err) }(time.Now())
	dbc := dbctx.New(ctx)

	rows, err := a.Repos.Moments.ListForUserBetween(dbc, in.UserID, in.Start, in.End)
	if err != nil {
		return out, fmt.Errorf("load moments: %w", err)
	}
	out.Texts = make([]string, 0, len(rows))
	for _, m := range rows {
		out.Texts = append(out.Texts, m.Text)
	}

	updates := map[string]interface{}{"stage": types.RecapStageLoadMoments}
	if len(rows) == 0 {
		updates["status"] = types.RecapRunStatusSkipped
		updates["stage"] = types.RecapStageDone
		observability.IncRecapRun(types.RecapRunStatusSkipped)
	}
	if err := a.Repos.RecapRuns.UpdateFields(dbc, in.RunKey, updates); err != nil {
		a.Log.Warn("recap ledger update failed", "run_key", in.RunKey, "error", err)
	}
	return out, nil
}

func (a *Activities) GenerateNarrative(ctx context.Context, in NarrativeInput) (out string, err error) {
	defer func(start time.Time) { a.observe(ActivityGenerateNarrative, start, err) }(time.Now())
	if len(in.Texts) == 0 {
		return "", temporal.NewNonRetryableApplicationError("no moments to narrate", "InvalidInput", nil)
	}
	system, user := a.Prompts.NarrativeRequest(in.Texts)
	out, err = a.AI.GenerateText(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("generate narrative: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("generate narrative: %w", openai.ErrEmptyOutput)
	}
	a.markStage(ctx, in.RunKey, types.RecapStageNarrative)
	return out, nil
}

func (a *Activities) GenerateImagePrompt(ctx context.Context, in ImagePromptInput) (out string, err error) {
	defer func(start time.Time) { a.observe(ActivityGenerateImagePrompt, start, err) }(time.Now())
	system, user := a.Prompts.ImagePromptRequest(in.Narrative)
	out, err = a.AI.GenerateText(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("generate image prompt: %w", err)
	}
	out = BoundWords(out, a.Prompts.ImagePrompt.MaxWords)
	if out == "" {
		return "", fmt.Errorf("generate image prompt: %w", openai.ErrEmptyOutput)
	}
	a.markStage(ctx, in.RunKey, types.RecapStageImagePrompt)
	return out, nil
}

// RenderImage synthesizes, normalizes and stores the recap image. A key already
// recorded for the run is returned as-is while the object still exists.
func (a *Activities) RenderImage(ctx context.Context, in RenderImageInput) (out RenderImageResult, err error) {
	defer func(start time.Time) { a.observe(ActivityRenderImage, start, err) }(time.Now())
	dbc := dbctx.New(ctx)

	run, err := a.Repos.RecapRuns.Get(dbc, in.RunKey)
	if err != nil {
		return out, fmt.Errorf("load recap run: %w", err)
	}
	if run != nil && run.ImageKey != nil && *run.ImageKey != "" {
		exists, err := a.Store.Exists(ctx, *run.ImageKey)
		if err != nil {
			return out, fmt.Errorf("check stored image: %w", err)
		}
		if exists {
			return RenderImageResult{ImageKey: *run.ImageKey, Reused: true}, nil
		}
	}

	prompt := strings.TrimSpace(in.Prompt + " " + in.StyleModifier)
	raw, err := a.Images.Render(ctx, prompt)
	if err != nil {
		return out, fmt.Errorf("render image: %w", err)
	}
	jpg, err := imaging.ToJPEG(raw, a.ImageOpt)
	if err != nil {
		return out, temporal.NewApplicationErrorWithCause("normalize image", "InvalidImage", err)
	}

	key, err := a.freeImageKey(ctx)
	if err != nil {
		return out, err
	}
	if err := a.Store.Put(ctx, key, bytes.NewReader(jpg), "image/jpeg"); err != nil {
		return out, fmt.Errorf("store image: %w", err)
	}
	if err := a.Repos.RecapRuns.UpdateFields(dbc, in.RunKey, map[string]interface{}{
		"image_key": key,
		"stage":     types.RecapStageRenderImage,
	}); err != nil {
		return out, fmt.Errorf("record image key: %w", err)
	}
	a.Log.Info("recap image stored", "run_key", in.RunKey, "image_key", key, "bytes", len(jpg))
	return RenderImageResult{ImageKey: key}, nil
}

// freeImageKey picks a millisecond key not yet present in the store.
func (a *Activities) freeImageKey(ctx context.Context) (string, error) {
	t := a.now()
	for i := 0; i < 8; i++ {
		key := ImageKey(t.Add(time.Duration(i) * time.Millisecond))
		exists, err := a.Store.Exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check image key: %w", err)
		}
		if !exists {
			return key, nil
		}
	}
	return "", fmt.Errorf("no free image key near %d", t.UnixMilli())
}

func (a *Activities) Persist(ctx context.Context, in PersistInput) (out PersistResult, err error) {
	defer func(start time.Time) { a.observe(ActivityPersist, start, err) }(time.Now())
	dbc := dbctx.New(ctx)

	run, err := a.Repos.RecapRuns.Get(dbc, in.RunKey)
	if err != nil {
		return out, fmt.Errorf("load recap run: %w", err)
	}
	if run != nil && run.RecapID != nil {
		return PersistResult{RecapID: *run.RecapID}, nil
	}

	exists, err := a.Store.Exists(ctx, in.ImageKey)
	if err != nil {
		return out, fmt.Errorf("check stored image: %w", err)
	}
	if !exists {
		_ = a.Repos.RecapRuns.UpdateFields(dbc, in.RunKey, map[string]interface{}{"image_key": nil})
		return out, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("stored image %s not found", in.ImageKey), ErrTypeImageMissing, objectstore.ErrObjectNotFound)
	}

	imageKey := in.ImageKey
	err = a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		recap, err := a.Repos.Recaps.CreateOnce(txc, &types.Recap{
			UserID:    in.UserID,
			Text:      in.Narrative,
			CreatedAt: a.now(),
			Type:      types.RecapTypeDaily,
			ImageID:   &imageKey,
			RunKey:    in.RunKey,
		})
		if err != nil {
			return err
		}
		out.RecapID = recap.ID
		return a.Repos.RecapRuns.UpdateFields(txc, in.RunKey, map[string]interface{}{
			"recap_id": recap.ID,
			"status":   types.RecapRunStatusSucceeded,
			"stage":    types.RecapStageDone,
			"error":    "",
		})
	})
	if err != nil {
		return PersistResult{}, fmt.Errorf("persist recap: %w", err)
	}
	observability.IncRecapRun(types.RecapRunStatusSucceeded)
	a.Log.Info("recap persisted", "run_key", in.RunKey, "user_id", in.UserID, "recap_id", out.RecapID)
	return out, nil
}

func (a *Activities) MarkFailed(ctx context.Context, in MarkFailedInput) error {
	observability.IncRecapRun(types.RecapRunStatusFailed)
	var cause error
	if in.Error != "" {
		cause = errors.New(in.Error)
	}
	a.Log.Warn("recap run failed", "run_key", in.RunKey, "stage", in.Stage, "error", in.Error)
	return a.Repos.RecapRuns.MarkFailed(dbctx.New(ctx), in.RunKey, in.Stage, cause)
}

func (a *Activities) markStage(ctx context.Context, runKey, stage string) {
	if err := a.Repos.RecapRuns.MarkStage(dbctx.New(ctx), runKey, stage); err != nil {
		a.Log.Warn("recap ledger update failed", "run_key", runKey, "stage", stage, "error", err)
	}
}
