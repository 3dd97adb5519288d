package statcache

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DefaultResetTimezone = "America/New_York"
	DefaultResetHour     = 3
	DayKeyLayout         = "2006-01-02"
)

// DayKeyer maps instants onto the upstream's daily-problem buckets. A bucket
// starts at ResetHour local time in Location, not at midnight.
type DayKeyer struct {
	loc       *time.Location
	resetHour int
}

func NewDayKeyer(timezone string, resetHour int) (*DayKeyer, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		timezone = DefaultResetTimezone
	}
	if resetHour < 0 || resetHour > 23 {
		return nil, fmt.Errorf("reset hour %d out of range 0-23", resetHour)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &DayKeyer{loc: loc, resetHour: resetHour}, nil
}

func (k *DayKeyer) Location() *time.Location { return k.loc }
func (k *DayKeyer) ResetHour() int           { return k.resetHour }

// DayKey returns the YYYY-MM-DD bucket in effect at now.
func (k *DayKeyer) DayKey(now time.Time) string {
	y, m, d := k.inEffectDate(now)
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Range returns the [start, end) instants of the bucket in effect at now.
func (k *DayKeyer) Range(now time.Time) (start, end time.Time) {
	y, m, d := k.inEffectDate(now)
	start = time.Date(y, m, d, k.resetHour, 0, 0, 0, k.loc)
	end = time.Date(y, m, d+1, k.resetHour, 0, 0, 0, k.loc)
	return start, end
}

func (k *DayKeyer) inEffectDate(now time.Time) (int, time.Month, int) {
	local := now.In(k.loc)
	y, m, d := local.Date()
	if local.Hour() < k.resetHour {
		// Noon keeps the arithmetic clear of DST transitions.
		prev := time.Date(y, m, d-1, 12, 0, 0, 0, k.loc)
		return prev.Date()
	}
	return y, m, d
}
