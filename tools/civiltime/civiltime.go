package civiltime

import (
	"fmt"
	"time"

	// Containers often ship without /usr/share/zoneinfo.
	_ "time/tzdata"
)

// Layout is the stored format of created_at and modified_at (YYYY-MM-DD HH:mm:ss)
const Layout = "2006-01-02 15:04:05"

// DefaultZone is the civil zone the back office records timestamps in
const DefaultZone = "Asia/Kolkata"

// Clock renders the current time as a civil date-time string in a fixed zone
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a clock for the named IANA zone
func NewClock(zone string) (*Clock, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone '%s': %w", zone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixedClock creates a clock that always reports t, for tests
func NewFixedClock(zone string, t time.Time) (*Clock, error) {
	c, err := NewClock(zone)
	if err != nil {
		return nil, err
	}
	c.now = func() time.Time { return t }
	return c, nil
}

// Now returns the current time formatted with Layout
func (c *Clock) Now() string {
	return c.now().In(c.loc).Format(Layout)
}
