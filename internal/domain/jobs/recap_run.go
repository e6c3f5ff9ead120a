package jobs

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RecapRunStatusRunning   = "running"
	RecapRunStatusSucceeded = "succeeded"
	RecapRunStatusSkipped   = "skipped"
	RecapRunStatusFailed    = "failed"
)

const (
	RecapStageLoadMeta    = "load_meta"
	RecapStageLoadMoments = "load_moments"
	RecapStageNarrative   = "narrative"
	RecapStageImagePrompt = "image_prompt"
	RecapStageRenderImage = "render_image"
	RecapStagePersist     = "persist"
	RecapStageDone        = "done"
)

// RecapRun is the step-completion ledger for one recap generation run.
// Durable stage outputs (ImageKey, RecapID) let a retried stage return the
// recorded result instead of repeating its side effect.
type RecapRun struct {
	RunKey      string         `gorm:"column:run_key;primaryKey" json:"run_key"`
	UserID      string         `gorm:"column:user_id;not null;index" json:"user_id"`
	WindowStart time.Time      `gorm:"column:window_start;not null" json:"window_start"`
	WindowEnd   time.Time      `gorm:"column:window_end;not null" json:"window_end"`
	Status      string         `gorm:"column:status;not null;index" json:"status"`
	Stage       string         `gorm:"column:stage;not null" json:"stage"`
	ImageKey    *string        `gorm:"column:image_key" json:"image_key,omitempty"`
	RecapID     *int64         `gorm:"column:recap_id" json:"recap_id,omitempty"`
	Error       string         `gorm:"column:error" json:"error,omitempty"`
	Attempts    int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Details     datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (RecapRun) TableName() string { return "recap_run" }
