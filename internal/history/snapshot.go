package history

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/jsonpath"
	"github.com/goccy/go-json"
)

const (
	// TimeFormat is the layout of the timestamp field in the history file.
	TimeFormat = "2006-01-02 15:04:05"

	timestampKey = "timestamp"
)

var timeLayouts = []string{
	TimeFormat,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseTime parses a timestamp of the history file.
// It accepts TimeFormat in local time and RFC3339.
func ParseTime(s string) (time.Time, error) {
	for _, l := range timeLayouts {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %q", s)
}

// Snapshot is the statuses of every service observed in a sweep.
type Snapshot struct {
	Time     time.Time
	Statuses map[string]string
}

// Get returns the status of a service.
func (s Snapshot) Get(name string) (status string, ok bool) {
	status, ok = s.Statuses[name]
	return
}

// Names returns the service names in dictionary order.
func (s Snapshot) Names() []string {
	ns := make([]string, 0, len(s.Statuses))
	for n := range s.Statuses {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}

// MarshalJSON makes a flat object; the timestamp comes first and the services follow in dictionary order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	ts, err := json.Marshal(s.Time.Format(TimeFormat))
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"` + timestampKey + `":`)
	buf.Write(ts)

	for _, name := range s.Names() {
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.Statuses[name])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat object.
// A missing or broken timestamp leaves Time zero, and non-string statuses are converted into strings.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("snapshot must be an object")
	}

	*s = Snapshot{Statuses: make(map[string]string, len(raw))}

	for k, v := range raw {
		if k == timestampKey {
			if str, ok := v.(string); ok {
				s.Time, _ = ParseTime(str)
			}
			continue
		}
		s.Statuses[k] = jsonpath.Stringify(v)
	}

	return nil
}

// History is a list of snapshots, oldest first.
type History []Snapshot

// Last returns the newest snapshot.
func (h History) Last() (Snapshot, bool) {
	if len(h) == 0 {
		return Snapshot{}, false
	}
	return h[len(h)-1], true
}

// Services returns every service name that appears in the history, in dictionary order.
func (h History) Services() []string {
	seen := make(map[string]struct{})
	var ns []string

	for _, s := range h {
		for n := range s.Statuses {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				ns = append(ns, n)
			}
		}
	}

	sort.Strings(ns)
	return ns
}

// Tail returns the newest n snapshots at most.
func (h History) Tail(n int) History {
	if n < 0 {
		n = 0
	}
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}
