// Package export converts the history into audit log formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/history"
)

// Format is an output format of the audit log.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	LTSV Format = "ltsv"
	XLSX Format = "xlsx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Formats is the list of every supported format.
var Formats = []Format{CSV, JSON, LTSV, XLSX}

// ParseFormat parses a format name such as "csv" or ".xlsx".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, x := range Formats {
		if f == x {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv; charset=UTF-8"
	case JSON:
		return "application/json"
	case LTSV:
		return "text/plain; charset=UTF-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// FileName returns the name of the audit log file that made at t, like "cloud_pulse_audit_20261019.csv".
func (f Format) FileName(t time.Time) string {
	return "cloud_pulse_audit_" + t.Format("20060102") + "." + string(f)
}

// Write writes h to w in the format f.
// createdAt is used as the document properties of XLSX.
func Write(w io.Writer, f Format, h history.History, createdAt time.Time) error {
	switch f {
	case CSV:
		return ToCSV(w, h)
	case JSON:
		return ToJSON(w, h)
	case LTSV:
		return ToLTSV(w, h)
	case XLSX:
		return ToXlsx(w, h, createdAt)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Columns returns the header of the audit table: timestamp, every service, and health_percent.
func Columns(h history.History) []string {
	cols := []string{"timestamp"}
	cols = append(cols, h.Services()...)
	return append(cols, "health_percent")
}

// Row is a line of the audit table.
type Row struct {
	Time     time.Time
	Statuses []string
	Percent  float64
}

// Rows makes the audit table in the order of Columns.
// A service that was not checked in a sweep has an empty status.
func Rows(h history.History) []Row {
	services := h.Services()
	rows := make([]Row, len(h))

	for i, s := range h {
		ss := make([]string, len(services))
		for j, name := range services {
			ss[j] = s.Statuses[name]
		}
		rows[i] = Row{
			Time:     s.Time,
			Statuses: ss,
			Percent:  health.Percent(s),
		}
	}

	return rows
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}
