// Package health derives health metrics from recorded statuses.
//
// Statuses are free text, so they are classified by keywords.
package health

import (
	"sort"
	"strings"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/history"
)

var (
	// HealthyKeywords marks a status as healthy if its lower case form contains any of them.
	HealthyKeywords = []string{"operational", "active", "online", "up"}

	// StableKeywords is the narrower set used to find active issues.
	StableKeywords = []string{"operational", "active"}
)

func containsAny(status string, keywords []string) bool {
	s := strings.ToLower(status)
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// IsHealthy reports whether a status looks healthy.
func IsHealthy(status string) bool {
	return containsAny(status, HealthyKeywords)
}

// IsStable reports whether a status looks operational in the narrower sense of StableKeywords.
func IsStable(status string) bool {
	return containsAny(status, StableKeywords)
}

// Percent is the ratio of healthy services in a snapshot, in 0-100.
// A snapshot without services is 100.
func Percent(s history.Snapshot) float64 {
	total := len(s.Statuses)
	if total == 0 {
		return 100
	}

	healthy := 0
	for _, v := range s.Statuses {
		if IsHealthy(v) {
			healthy++
		}
	}

	return float64(healthy) * 100 / float64(total)
}

// Point is a health percentage at a time.
type Point struct {
	Time    time.Time `json:"time"`
	Percent float64   `json:"percent"`
}

// Trend computes Percent for every snapshot, ordered by time.
// Snapshots with the same time keep their order in the history.
func Trend(h history.History) []Point {
	ps := make([]Point, len(h))
	for i, s := range h {
		ps[i] = Point{Time: s.Time, Percent: Percent(s)}
	}

	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Time.Before(ps[j].Time)
	})

	return ps
}

// Issues returns the names of services that are not stable, in dictionary order.
func Issues(s history.Snapshot) []string {
	var xs []string
	for _, name := range s.Names() {
		if !IsStable(s.Statuses[name]) {
			xs = append(xs, name)
		}
	}
	return xs
}

// Level is the risk level of an Assessment.
type Level int8

const (
	LevelNominal Level = iota
	LevelIsolated
	LevelCascading
)

func (l Level) String() string {
	switch l {
	case LevelIsolated:
		return "isolated"
	case LevelCascading:
		return "cascading"
	default:
		return "nominal"
	}
}

// Assessment is a short summary of the risk in a snapshot.
type Assessment struct {
	Level   Level
	Issues  []string
	Message string
}

// Assess classifies a snapshot by the number of active issues.
func Assess(s history.Snapshot) Assessment {
	issues := Issues(s)

	switch {
	case len(issues) > 1:
		return Assessment{
			Level:   LevelCascading,
			Issues:  issues,
			Message: "High risk. Pattern suggests a potential cascading failure across: " + strings.Join(issues, ", ") + ".",
		}
	case len(issues) == 1:
		return Assessment{
			Level:   LevelIsolated,
			Issues:  issues,
			Message: "Isolated instability detected at " + issues[0] + ". Overall ecosystem risk remains low.",
		}
	default:
		return Assessment{
			Level:   LevelNominal,
			Message: "All systems operational.",
		}
	}
}
