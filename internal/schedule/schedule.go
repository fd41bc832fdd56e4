// Package schedule decides when the monitor sweeps.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule tells the sweep times to the monitor.
type Schedule interface {
	fmt.Stringer

	// Next returns the time of the sweep that follows a sweep at t.
	// The zero time means that no more sweeps are scheduled.
	Next(t time.Time) time.Time

	// SweepsAtStart reports whether the monitor sweeps as soon as it starts, before the first Next.
	SweepsAtStart() bool
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Parse reads a schedule relative to the current time.
// See ParseAt for the accepted forms.
func Parse(spec string) (Schedule, error) {
	return ParseAt(spec, time.Now())
}

// ParseAt reads a schedule that starts at now.
//
// It accepts a duration like "10m", "@every 10m", a cron spec like "*/10 * * * *" or "@hourly",
// "@after 5m" that sweeps once after the delay, and "@reboot" that sweeps only once at start.
func ParseAt(spec string, now time.Time) (Schedule, error) {
	spec = strings.TrimSpace(spec)

	switch {
	case spec == "":
		return nil, fmt.Errorf("%w: empty", ErrInvalidSchedule)
	case spec == "@reboot":
		return Once{}, nil
	case strings.HasPrefix(spec, "@after "):
		d, err := parseDuration(spec, spec[len("@after "):])
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("%w: %q: delay must not be negative", ErrInvalidSchedule, spec)
		}
		if d == 0 {
			return Once{}, nil
		}
		return Once{Delay: d, At: now.Add(d)}, nil
	case strings.HasPrefix(spec, "@every "):
		return parseEvery(spec, spec[len("@every "):])
	}

	if _, err := time.ParseDuration(spec); err == nil {
		return parseEvery(spec, spec)
	}

	c, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidSchedule, spec, err)
	}
	return Cron{Spec: spec, schedule: c}, nil
}

func parseDuration(spec, s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %s", ErrInvalidSchedule, spec, err)
	}
	return d, nil
}

func parseEvery(spec, s string) (Schedule, error) {
	d, err := parseDuration(spec, s)
	if err != nil {
		return nil, err
	}
	if d <= 0 {
		return nil, fmt.Errorf("%w: %q: interval must be positive", ErrInvalidSchedule, spec)
	}
	return Every{Interval: d}, nil
}

// Every sweeps at start, then every Interval after the previous sweep.
type Every struct {
	Interval time.Duration
}

func (e Every) Next(t time.Time) time.Time {
	return t.Add(e.Interval)
}

func (e Every) SweepsAtStart() bool {
	return true
}

func (e Every) String() string {
	return e.Interval.String()
}

// Cron sweeps at the times a cron spec matches, in the local time zone.
type Cron struct {
	Spec     string
	schedule cron.Schedule
}

func (c Cron) Next(t time.Time) time.Time {
	return c.schedule.Next(t)
}

func (c Cron) SweepsAtStart() bool {
	return false
}

func (c Cron) String() string {
	return c.Spec
}

// Once sweeps only one time.
// With zero Delay that is at start, otherwise at At.
type Once struct {
	Delay time.Duration
	At    time.Time
}

func (o Once) Next(t time.Time) time.Time {
	if o.Delay > 0 && t.Before(o.At) {
		return o.At
	}
	return time.Time{}
}

func (o Once) SweepsAtStart() bool {
	return o.Delay == 0
}

func (o Once) String() string {
	if o.Delay == 0 {
		return "@reboot"
	}
	return "@after " + o.Delay.String()
}
