package dashboard_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/cloudpulse/cloudpulse/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestHistoryEndpoint(t *testing.T) {
	srv := testutil.StartTestServer(t, testutil.WriteHistory(t, testutil.SampleHistory()), testNow)

	tests := []struct {
		Format      string
		ContentType string
	}{
		{"csv", "text/csv; charset=UTF-8"},
		{"json", "application/json"},
		{"ltsv", "text/plain; charset=UTF-8"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}

	for _, tt := range tests {
		t.Run(tt.Format, func(t *testing.T) {
			resp, body := get(t, srv, srv.URL+"/history."+tt.Format)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("unexpected status: %s", resp.Status)
			}

			if ct := resp.Header.Get("Content-Type"); ct != tt.ContentType {
				t.Errorf("unexpected content type: %s", ct)
			}

			want := "attachment; filename=cloud_pulse_audit_20261019." + tt.Format
			if cd := resp.Header.Get("Content-Disposition"); cd != want {
				t.Errorf("unexpected content disposition: %s", cd)
			}

			if len(body) == 0 {
				t.Errorf("body is empty")
			}
		})
	}
}

func TestHistoryEndpoint_csv(t *testing.T) {
	srv := testutil.StartTestServer(t, testutil.WriteHistory(t, testutil.SampleHistory()), testNow)

	_, body := get(t, srv, srv.URL+"/history.csv")

	want := strings.Join([]string{
		"timestamp,A,B,health_percent",
		"2026-10-19 09:00:00,Operational,Offline (HTTP 503),50.0",
		"2026-10-19 09:10:00,Operational,Operational,100.0",
		"",
	}, "\n")

	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("unexpected body:\n%s", diff)
	}
}

func TestHistoryEndpoint_jsonFromSingleObject(t *testing.T) {
	raw := []byte(`{"timestamp": "2026-10-19 09:00:00", "A": "Operational"}`)
	srv := testutil.StartTestServer(t, testutil.WriteHistoryFile(t, raw), testNow)

	_, body := get(t, srv, srv.URL+"/history.json")

	h, err := history.Decode([]byte(body), history.SequenceOnly)
	if err != nil {
		t.Fatalf("response should be a list: %s", err)
	}
	if len(h) != 1 {
		t.Errorf("unexpected length: %d", len(h))
	}
}
