package journal

import (
	"fmt"
	"time"
)

type RecapType string

const (
	RecapTypeDaily   RecapType = "daily"
	RecapTypeWeekly  RecapType = "weekly"
	RecapTypeMonthly RecapType = "monthly"
)

func (t RecapType) Valid() bool {
	switch t {
	case RecapTypeDaily, RecapTypeWeekly, RecapTypeMonthly:
		return true
	default:
		return false
	}
}

// Recap is a generated narrative with an optional stored illustration.
// RunKey ties the row to the generation run that produced it; one recap per run.
type Recap struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index:idx_recap_user_created,priority:1" json:"user_id"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_recap_user_created,priority:2" json:"created_at"`
	Type      RecapType `gorm:"column:type;not null;default:daily" json:"type"`
	ImageID   *string   `gorm:"column:image_id" json:"image_id"`
	RunKey    string    `gorm:"column:run_key;not null;uniqueIndex" json:"-"`
}

func (Recap) TableName() string { return "recap" }

func (r *Recap) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("recap: user id required")
	}
	if r.RunKey == "" {
		return fmt.Errorf("recap: run key required")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("recap: invalid type %q", r.Type)
	}
	return nil
}
