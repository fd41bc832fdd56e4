package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/schedule"
	"github.com/google/go-cmp/cmp"
)

var start = time.Date(2026, 10, 19, 9, 3, 0, 0, time.Local)

// sweeps lists the first n sweep times of s that starts at start.
func sweeps(s schedule.Schedule, n int) []time.Time {
	var ts []time.Time

	t := start
	if s.SweepsAtStart() {
		ts = append(ts, t)
	}
	for len(ts) < n {
		t = s.Next(t)
		if t.IsZero() {
			break
		}
		ts = append(ts, t)
	}

	return ts
}

func at(hour, min int) time.Time {
	return time.Date(2026, 10, 19, hour, min, 0, 0, time.Local)
}

func TestParseAt(t *testing.T) {
	tests := []struct {
		Spec   string
		String string
		Sweeps []time.Time
	}{
		{"10m", "10m0s", []time.Time{at(9, 3), at(9, 13), at(9, 23)}},
		{" 1h ", "1h0m0s", []time.Time{at(9, 3), at(10, 3), at(11, 3)}},
		{"@every 30m", "30m0s", []time.Time{at(9, 3), at(9, 33), at(10, 3)}},
		{"*/10 * * * *", "*/10 * * * *", []time.Time{at(9, 10), at(9, 20), at(9, 30)}},
		{"0 * * * ?", "0 * * * ?", []time.Time{at(10, 0), at(11, 0), at(12, 0)}},
		{"@hourly", "@hourly", []time.Time{at(10, 0), at(11, 0), at(12, 0)}},
		{"@reboot", "@reboot", []time.Time{at(9, 3)}},
		{"@after 0s", "@reboot", []time.Time{at(9, 3)}},
		{"@after 5m", "@after 5m0s", []time.Time{at(9, 8)}},
	}

	for _, tt := range tests {
		t.Run(tt.Spec, func(t *testing.T) {
			s, err := schedule.ParseAt(tt.Spec, start)
			if err != nil {
				t.Fatalf("failed to parse: %s", err)
			}

			if s.String() != tt.String {
				t.Errorf("unexpected string: expected %q but got %q", tt.String, s.String())
			}

			if diff := cmp.Diff(tt.Sweeps, sweeps(s, 3)); diff != "" {
				t.Errorf("unexpected sweeps (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAt_error(t *testing.T) {
	tests := []struct {
		Spec  string
		Error string
	}{
		{"", `invalid schedule: empty`},
		{"0s", `invalid schedule: "0s": interval must be positive`},
		{"-5m", `invalid schedule: "-5m": interval must be positive`},
		{"@every 0s", `invalid schedule: "@every 0s": interval must be positive`},
		{"@every soon", `invalid schedule: "@every soon": time: invalid duration "soon"`},
		{"@after -1m", `invalid schedule: "@after -1m": delay must not be negative`},
		{"1 2 3", `invalid schedule: "1 2 3": expected exactly 5 fields, found 3: [1 2 3]`},
		{"every day", `invalid schedule: "every day": expected exactly 5 fields, found 2: [every day]`},
	}

	for _, tt := range tests {
		t.Run(tt.Spec, func(t *testing.T) {
			_, err := schedule.ParseAt(tt.Spec, start)
			if err == nil {
				t.Fatal("expected an error but got nil")
			}
			if !errors.Is(err, schedule.ErrInvalidSchedule) {
				t.Errorf("expected ErrInvalidSchedule but got %v", err)
			}
			if err.Error() != tt.Error {
				t.Errorf("unexpected error:\nexpected: %s\n but got: %s", tt.Error, err)
			}
		})
	}
}

func TestOnce_Next(t *testing.T) {
	s, err := schedule.ParseAt("@after 5m", start)
	if err != nil {
		t.Fatalf("failed to parse: %s", err)
	}

	if n := s.Next(at(9, 0)); !n.Equal(at(9, 8)) {
		t.Errorf("unexpected next before the delay: %s", n)
	}
	if n := s.Next(at(9, 8)); !n.IsZero() {
		t.Errorf("expected no more sweeps but got %s", n)
	}
}
