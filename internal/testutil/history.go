// Package testutil has helpers shared by the tests of Cloud-Pulse.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/history"
)

// BaseTime is the time of the first snapshot of SampleHistory and NewHistoryStore.
var BaseTime = time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)

// SampleHistory returns two sweeps of services A and B.
// B is offline in the first sweep and recovers in the second.
func SampleHistory() history.History {
	return history.History{
		{
			Time:     BaseTime,
			Statuses: map[string]string{"A": "Operational", "B": "Offline (HTTP 503)"},
		},
		{
			Time:     BaseTime.Add(10 * time.Minute),
			Statuses: map[string]string{"A": "Operational", "B": "Operational"},
		},
	}
}

// NewHistoryStore makes a history.Store in a temporary directory.
// Its clock starts at BaseTime and advances 10 minutes on every call.
func NewHistoryStore(t testing.TB) *history.Store {
	t.Helper()

	s := history.New(filepath.Join(t.TempDir(), "data", "status_history.json"))

	n := 0
	s.Now = func() time.Time {
		tm := BaseTime.Add(time.Duration(n) * 10 * time.Minute)
		n++
		return tm
	}

	return s
}

// WriteHistory writes h as a history file in a temporary directory and returns its path.
func WriteHistory(t testing.TB, h history.History) string {
	t.Helper()

	b, err := history.Encode(h)
	if err != nil {
		t.Fatalf("failed to encode history: %s", err)
	}
	return WriteHistoryFile(t, b)
}

// WriteHistoryFile writes raw bytes as a history file in a temporary directory and returns its path.
func WriteHistoryFile(t testing.TB, raw []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "status_history.json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("failed to prepare history file: %s", err)
	}
	return path
}
