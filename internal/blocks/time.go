package blocks

import (
	"context"
	"fmt"
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/block"
)

// Clock shows the local time as HH:MM.
type Clock struct {
	block.Base
	now func() time.Time
}

// NewClock creates a clock block. A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{Base: block.Base{BlockName: "clock"}, now: now}
}

func (c *Clock) Update(context.Context) error {
	c.Text = c.now().Format("15:04")
	return nil
}

// Date shows the local date as "Monday 2nd of January".
type Date struct {
	block.Base
	now func() time.Time
}

// NewDate creates a date block. A nil now uses time.Now.
func NewDate(now func() time.Time) *Date {
	if now == nil {
		now = time.Now
	}
	return &Date{Base: block.Base{BlockName: "date"}, now: now}
}

func (d *Date) Update(context.Context) error {
	d.Text = FormatDate(d.now())
	return nil
}

// FormatDate renders t as weekday, ordinal day of month and month name.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s of %s", t.Weekday(), t.Day(), ordinalSuffix(t.Day()), t.Month())
}

func ordinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}
