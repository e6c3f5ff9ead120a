package sweep

import (
	"time"

	"github.com/yungbote/lore-backend/internal/pkg/timewindow"
	"github.com/yungbote/lore-backend/internal/platform/envutil"
)

type Config struct {
	BatchSize         int
	Cron              string
	CronTimezone      string
	ReferenceTimezone string
	LeaseTTL          time.Duration
	Concurrency       int
	ScheduleEnabled   bool
}

func LoadConfig() Config {
	return Config{
		BatchSize:         envutil.Int("RECAP_SWEEP_BATCH_SIZE", DefaultBatchSize),
		Cron:              envutil.String("RECAP_SWEEP_CRON", "0 8 * * *"),
		CronTimezone:      envutil.String("RECAP_SWEEP_CRON_TZ", "UTC"),
		ReferenceTimezone: envutil.String("RECAP_REFERENCE_TIMEZONE", timewindow.DefaultReferenceTimezone),
		LeaseTTL:          envutil.Duration("RECAP_TRIGGER_LEASE_TTL", EligibilityThreshold),
		Concurrency:       envutil.Int("RECAP_SWEEP_CONCURRENCY", 16),
		ScheduleEnabled:   envutil.Bool("RECAP_SWEEP_SCHEDULE_ENABLED", true),
	}
}
