package dashboard

import (
	"time"

	"github.com/cloudpulse/cloudpulse/internal/export"
	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/history"
)

// ServiceStatus is the latest status of a service.
type ServiceStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Healthy bool   `json:"healthy"`
}

type Assessment struct {
	Level   string   `json:"level"`
	Issues  []string `json:"issues"`
	Message string   `json:"message"`
}

// Report is what the dashboard shows.
type Report struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	LastSync      *time.Time      `json:"last_sync,omitempty"`
	Services      []ServiceStatus `json:"services"`
	HealthPercent float64         `json:"health_percent"`
	Assessment    Assessment      `json:"assessment"`
	Trend         []health.Point  `json:"trend"`
	Entries       int             `json:"entries"`

	// Columns and Audit are the audit table, newest first.
	Columns []string     `json:"-"`
	Audit   []export.Row `json:"-"`
}

// HasData reports whether any sweep has been recorded.
func (r Report) HasData() bool {
	return r.Entries > 0
}

// HasTrend reports whether there are enough snapshots to draw a trend.
func (r Report) HasTrend() bool {
	return len(r.Trend) >= 2
}

// MakeReport summarizes a history.
func MakeReport(h history.History, now time.Time) Report {
	r := Report{
		GeneratedAt:   now,
		Services:      []ServiceStatus{},
		HealthPercent: 100,
		Assessment:    Assessment{Level: health.LevelNominal.String(), Issues: []string{}},
		Trend:         health.Trend(h),
		Entries:       len(h),
	}

	last, ok := h.Last()
	if !ok {
		return r
	}

	if !last.Time.IsZero() {
		t := last.Time
		r.LastSync = &t
	}

	for _, name := range last.Names() {
		s := last.Statuses[name]
		r.Services = append(r.Services, ServiceStatus{
			Name:    name,
			Status:  s,
			Healthy: health.IsHealthy(s),
		})
	}

	r.HealthPercent = health.Percent(last)

	a := health.Assess(last)
	r.Assessment = Assessment{
		Level:   a.Level.String(),
		Issues:  a.Issues,
		Message: a.Message,
	}
	if r.Assessment.Issues == nil {
		r.Assessment.Issues = []string{}
	}

	r.Columns = export.Columns(h)

	rows := export.Rows(h)
	r.Audit = make([]export.Row, len(rows))
	for i, row := range rows {
		r.Audit[len(rows)-i-1] = row
	}

	return r
}
