package user

import "time"

const DefaultTimezone = "America/Los_Angeles"

// UserMeta is the per-user preference row, created lazily.
type UserMeta struct {
	UserID      string     `gorm:"column:user_id;primaryKey" json:"user_id"`
	Email       string     `gorm:"column:email;not null" json:"email"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	Timezone    string     `gorm:"column:timezone;not null;default:America/Los_Angeles" json:"timezone"`
	LastRecapAt *time.Time `gorm:"column:last_recap_at;index" json:"last_recap_at"`
	ArtStyle    ArtStyle   `gorm:"column:art_style;not null;default:classical painting" json:"art_style"`
}

func (UserMeta) TableName() string { return "user_meta" }

// NewUserMeta returns a row with the documented defaults.
func NewUserMeta(userID, email string) *UserMeta {
	if email == "" {
		email = userID
	}
	return &UserMeta{
		UserID:   userID,
		Email:    email,
		Timezone: DefaultTimezone,
		ArtStyle: DefaultArtStyle,
	}
}

// EffectiveArtStyle falls back to the default for a nil row or blank column.
func (m *UserMeta) EffectiveArtStyle() ArtStyle {
	if m == nil || m.ArtStyle == "" {
		return DefaultArtStyle
	}
	return m.ArtStyle
}

func (m *UserMeta) EffectiveTimezone() string {
	if m == nil || m.Timezone == "" {
		return DefaultTimezone
	}
	return m.Timezone
}
