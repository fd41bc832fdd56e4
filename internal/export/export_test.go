package export_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/export"
	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func testHistory() history.History {
	return history.History{
		{
			Time: time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local),
			Statuses: map[string]string{
				"A": "Operational",
				"B": "Offline (HTTP 503)",
			},
		},
		{
			Time: time.Date(2026, 10, 19, 9, 10, 0, 0, time.Local),
			Statuses: map[string]string{
				"A": "Operational",
				"B": "Operational",
				"C": "Degraded, partial outage",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		Input string
		Want  export.Format
		Error bool
	}{
		{"csv", export.CSV, false},
		{".json", export.JSON, false},
		{"LTSV", export.LTSV, false},
		{"xlsx", export.XLSX, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.Input, func(t *testing.T) {
			f, err := export.ParseFormat(tt.Input)
			if tt.Error {
				if !errors.Is(err, export.ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat but got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if f != tt.Want {
				t.Errorf("expected %q but got %q", tt.Want, f)
			}
		})
	}
}

func TestFormat_FileName(t *testing.T) {
	at := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)

	if name := export.XLSX.FileName(at); name != "cloud_pulse_audit_20261019.xlsx" {
		t.Errorf("unexpected file name: %s", name)
	}
	if name := export.CSV.FileName(at); name != "cloud_pulse_audit_20261019.csv" {
		t.Errorf("unexpected file name: %s", name)
	}
}

func TestColumns(t *testing.T) {
	want := []string{"timestamp", "A", "B", "C", "health_percent"}
	if diff := cmp.Diff(want, export.Columns(testHistory())); diff != "" {
		t.Errorf("unexpected columns:\n%s", diff)
	}

	want = []string{"timestamp", "health_percent"}
	if diff := cmp.Diff(want, export.Columns(nil)); diff != "" {
		t.Errorf("unexpected columns of empty history:\n%s", diff)
	}
}

func TestToCSV(t *testing.T) {
	var w bytes.Buffer

	if err := export.ToCSV(&w, testHistory()); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	want := "timestamp,A,B,C,health_percent\n" +
		"2026-10-19 09:00:00,Operational,Offline (HTTP 503),,50.0\n" +
		"2026-10-19 09:10:00,Operational,Operational,\"Degraded, partial outage\",66.7\n"

	if diff := cmp.Diff(want, w.String()); diff != "" {
		t.Errorf("unexpected output:\n%s", diff)
	}
}

func TestToLTSV(t *testing.T) {
	h := testHistory()
	h[0].Statuses["B:C"] = "line1\nline2"

	var w bytes.Buffer

	if err := export.ToLTSV(&w, h); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	want := "timestamp:2026-10-19 09:00:00\tA:Operational\tB:Offline (HTTP 503)\tB_C:line1\\nline2\thealth_percent:33.3\n" +
		"timestamp:2026-10-19 09:10:00\tA:Operational\tB:Operational\tC:Degraded, partial outage\thealth_percent:66.7\n"

	if diff := cmp.Diff(want, w.String()); diff != "" {
		t.Errorf("unexpected output:\n%s", diff)
	}
}

func TestToJSON(t *testing.T) {
	var w bytes.Buffer

	if err := export.ToJSON(&w, testHistory()); err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	h, err := history.Decode(w.Bytes(), history.SequenceOnly)
	if err != nil {
		t.Fatalf("failed to decode output: %s", err)
	}
	if diff := cmp.Diff(testHistory(), h); diff != "" {
		t.Errorf("output is not the same history:\n%s", diff)
	}
}

func TestToXlsx(t *testing.T) {
	var w bytes.Buffer

	err := export.ToXlsx(&w, testHistory(), time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("failed to convert: %s", err)
	}

	f, err := excelize.OpenReader(&w)
	if err != nil {
		t.Fatalf("failed to open output: %s", err)
	}
	defer f.Close()

	rows, err := f.GetRows("audit", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("failed to read rows: %s", err)
	}
	if len(rows) != 3 {
		t.Fatalf("unexpected number of rows: %d", len(rows))
	}

	if diff := cmp.Diff([]string{"timestamp (UTC)", "A", "B", "C", "health_percent"}, rows[0]); diff != "" {
		t.Errorf("unexpected header:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Operational", "Offline (HTTP 503)", "", "50"}, rows[1][1:]); diff != "" {
		t.Errorf("unexpected first row:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Operational", "Operational", "Degraded, partial outage"}, rows[2][1:4]); diff != "" {
		t.Errorf("unexpected second row:\n%s", diff)
	}
}

func TestWrite(t *testing.T) {
	for _, f := range export.Formats {
		t.Run(string(f), func(t *testing.T) {
			var w bytes.Buffer
			if err := export.Write(&w, f, testHistory(), time.Now()); err != nil {
				t.Fatalf("failed to write: %s", err)
			}
			if w.Len() == 0 {
				t.Errorf("output is empty")
			}
		})
	}

	var w bytes.Buffer
	if err := export.Write(&w, export.Format("xml"), testHistory(), time.Now()); !errors.Is(err, export.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat but got %v", err)
	}
}
