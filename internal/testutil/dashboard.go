package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/dashboard"
	"github.com/cloudpulse/cloudpulse/internal/oplog"
)

// StartTestServer starts a dashboard that reads the history file at path.
// The clock of the dashboard is fixed to now.
func StartTestServer(t testing.TB, path string, now time.Time) *httptest.Server {
	t.Helper()

	src := dashboard.NewFileSource(path, oplog.Discard())
	src.Clock = func() time.Time {
		return now
	}

	srv := httptest.NewServer(dashboard.New(src))
	t.Cleanup(srv.Close)

	return srv
}
