package recapgen

import (
	"fmt"
	"time"
)

const (
	WorkflowName = "daily_recap"

	ActivityLoadUserMeta        = "recap_load_user_meta"
	ActivityLoadMoments         = "recap_load_moments"
	ActivityGenerateNarrative   = "recap_generate_narrative"
	ActivityGenerateImagePrompt = "recap_generate_image_prompt"
	ActivityRenderImage         = "recap_render_image"
	ActivityPersist             = "recap_persist"
	ActivityMarkFailed          = "recap_mark_failed"

	ImageKeyPrefix = "recap-images/"

	// ErrTypeImageMissing marks a persist attempt whose stored image vanished.
	ErrTypeImageMissing = "ImageMissing"
	ErrTypeInvalidStyle = "InvalidArtStyle"
)

// WorkflowID is the deterministic id for one user's recap of one local day.
func WorkflowID(userID, date string) string {
	return fmt.Sprintf("daily-recap:%s:%s", userID, date)
}

// ImageKey is the object key for an image stored at t.
func ImageKey(t time.Time) string {
	return fmt.Sprintf("%s%d.jpg", ImageKeyPrefix, t.UnixMilli())
}

type Input struct {
	UserID string `json:"user_id"`
	// Timezone is the user's stored zone; windows use ReferenceTimezone.
	Timezone          string     `json:"timezone,omitempty"`
	ReferenceTimezone string     `json:"reference_timezone,omitempty"`
	Dev               bool       `json:"dev,omitempty"`
	WindowStart       *time.Time `json:"window_start,omitempty"`
	WindowEnd         *time.Time `json:"window_end,omitempty"`
}

type Result struct {
	RunKey      string `json:"run_key"`
	RecapID     int64  `json:"recap_id,omitempty"`
	ImageKey    string `json:"image_key,omitempty"`
	MomentCount int    `json:"moment_count"`
	Skipped     bool   `json:"skipped,omitempty"`
}

type LoadUserMetaInput struct {
	RunKey      string    `json:"run_key"`
	UserID      string    `json:"user_id"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

type UserMetaResult struct {
	ArtStyle string `json:"art_style"`
	Timezone string `json:"timezone"`
	Found    bool   `json:"found"`
}

type LoadMomentsInput struct {
	RunKey string    `json:"run_key"`
	UserID string    `json:"user_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type MomentsResult struct {
	Texts []string `json:"texts"`
}

type NarrativeInput struct {
	RunKey string   `json:"run_key"`
	Texts  []string `json:"texts"`
}

type ImagePromptInput struct {
	RunKey    string `json:"run_key"`
	Narrative string `json:"narrative"`
}

type RenderImageInput struct {
	RunKey        string `json:"run_key"`
	Prompt        string `json:"prompt"`
	StyleModifier string `json:"style_modifier"`
}

type RenderImageResult struct {
	ImageKey string `json:"image_key"`
	Reused   bool   `json:"reused,omitempty"`
}

type PersistInput struct {
	RunKey    string `json:"run_key"`
	UserID    string `json:"user_id"`
	Narrative string `json:"narrative"`
	ImageKey  string `json:"image_key"`
}

type PersistResult struct {
	RecapID int64 `json:"recap_id"`
}

type MarkFailedInput struct {
	RunKey string `json:"run_key"`
	Stage  string `json:"stage"`
	Error  string `json:"error"`
}
