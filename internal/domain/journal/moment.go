package journal

import "time"

// Moment is a short user-submitted entry. Rows are never updated.
type Moment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index:idx_moment_user_created,priority:1" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_moment_user_created,priority:2" json:"created_at"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
}

func (Moment) TableName() string { return "moment" }
