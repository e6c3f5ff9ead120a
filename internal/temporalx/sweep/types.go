package sweep

import "time"

const (
	WorkflowName          = "recap_sweep"
	ActivitySelectUsers   = "sweep_select_users"
	ActivityTriggerRecaps = "sweep_trigger_recaps"

	DefaultBatchSize = 100
	// EligibilityThreshold is how long a user waits between recaps.
	EligibilityThreshold = 24 * time.Hour
)

type Input struct {
	BatchSize         int        `json:"batch_size,omitempty"`
	Cursor            string     `json:"cursor,omitempty"`
	AsOf              *time.Time `json:"as_of,omitempty"`
	ReferenceTimezone string     `json:"reference_timezone,omitempty"`
	Dev               bool       `json:"dev,omitempty"`

	// carried across continue-as-new
	Pages     int `json:"pages,omitempty"`
	Triggered int `json:"triggered,omitempty"`
}

type Result struct {
	Pages      int    `json:"pages"`
	Triggered  int    `json:"triggered"`
	LastCursor string `json:"last_cursor,omitempty"`
}

type SelectUsersInput struct {
	AsOf   time.Time `json:"as_of"`
	Cursor string    `json:"cursor,omitempty"`
	Limit  int       `json:"limit"`
}

type Candidate struct {
	UserID   string `json:"user_id"`
	Timezone string `json:"timezone"`
}

type SelectUsersResult struct {
	Users []Candidate `json:"users"`
}

type TriggerInput struct {
	Users             []Candidate `json:"users"`
	AsOf              time.Time   `json:"as_of"`
	ReferenceTimezone string      `json:"reference_timezone,omitempty"`
	Dev               bool        `json:"dev,omitempty"`
}

type TriggerResult struct {
	Triggered      int `json:"triggered"`
	AlreadyStarted int `json:"already_started,omitempty"`
	Suppressed     int `json:"suppressed,omitempty"`
}
