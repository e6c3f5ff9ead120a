package timewindow

import (
	"fmt"
	"time"
	// workers must agree on zone rules regardless of host tzdata
	_ "time/tzdata"
)

const DefaultReferenceTimezone = "America/Los_Angeles"

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Valid() bool {
	return !w.Start.IsZero() && w.Start.Before(w.End)
}

// UTC returns the same instants expressed in UTC.
func (w Window) UTC() Window {
	return Window{Start: w.Start.UTC(), End: w.End.UTC()}
}

// Date is the local calendar date of Start in loc, e.g. 2024-03-09.
func (w Window) Date(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return w.Start.In(loc).Format("2006-01-02")
}

// Day returns the calendar day containing now in loc, shifted by offsetDays.
// Start and End are local midnights, so DST days are 23 or 25 hours long.
func Day(now time.Time, loc *time.Location, offsetDays int) Window {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	return Window{
		Start: time.Date(y, m, d+offsetDays, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+offsetDays+1, 0, 0, 0, 0, loc),
	}
}

func Today(now time.Time, loc *time.Location) Window { return Day(now, loc, 0) }

func Yesterday(now time.Time, loc *time.Location) Window { return Day(now, loc, -1) }

func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultReferenceTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
