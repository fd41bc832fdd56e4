// Package history persists the sweep results of Cloud-Pulse as a capped JSON file.
package history

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/oplog"
	"github.com/cloudpulse/cloudpulse/internal/pulseerr"
	"github.com/goccy/go-json"
)

const (
	// MaxEntries is the number of snapshots kept in the history file.
	MaxEntries = 100
)

var (
	ErrCorrupted   = errors.New("history file is corrupted")
	ErrNotSequence = errors.New("history is not a list")
	ErrSave        = errors.New("failed to save history")
)

// ReadPolicy decides how a history document that is a single object is treated.
type ReadPolicy int8

const (
	// SequenceOnly reports a single object as ErrNotSequence.
	// This is the policy of the monitor.
	SequenceOnly ReadPolicy = iota

	// AcceptSingleObject reads a single object as a one-entry history.
	// This is the policy of the dashboard.
	AcceptSingleObject
)

// Decode parses a history document.
// An empty document is an empty history.
func Decode(data []byte, policy ReadPolicy) (History, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return History{}, nil
	}

	switch data[0] {
	case '[':
		var h History
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, pulseerr.Wrap(ErrCorrupted, err)
		}
		if h == nil {
			h = History{}
		}
		return h, nil
	case '{':
		if policy != AcceptSingleObject {
			return nil, pulseerr.Wrap(ErrCorrupted, ErrNotSequence)
		}
		var s Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, pulseerr.Wrap(ErrCorrupted, err)
		}
		return History{s}, nil
	default:
		return nil, pulseerr.Wrap(ErrCorrupted, ErrNotSequence)
	}
}

// ReadFile reads a history file.
// A file that does not exist is an empty history.
func ReadFile(path string, policy ReadPolicy) (History, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return History{}, nil
	} else if err != nil {
		return nil, err
	}

	return Decode(data, policy)
}

// Encode makes the history document, indented by four spaces.
func Encode(h History) ([]byte, error) {
	if h == nil {
		h = History{}
	}
	return json.MarshalIndent(h, "", "    ")
}

// Store is the history file.
// It assumes a single writer; there is no locking between processes.
type Store struct {
	path string

	// Now is the clock to stamp snapshots. It is replaceable for testing.
	Now func() time.Time

	// Logger receives a report when a corrupted file is discarded.
	Logger *oplog.Logger
}

// New makes a Store for the file at path.
func New(path string) *Store {
	return &Store{
		path: path,
		Now:  time.Now,
	}
}

// Path returns path to the history file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the history.
// A missing file, a corrupted file, or a document that is not a list are all read as an empty history.
func (s *Store) Load() (History, error) {
	h, err := ReadFile(s.path, SequenceOnly)
	if errors.Is(err, ErrCorrupted) {
		if s.Logger != nil {
			s.Logger.Error("history", "%s: %s: start with empty history", s.path, err)
		}
		return History{}, nil
	}
	return h, err
}

// Append stamps entry with the current time, appends it to the history, and saves the newest MaxEntries snapshots.
func (s *Store) Append(entry map[string]string) (Snapshot, error) {
	h, err := s.Load()
	if err != nil {
		return Snapshot{}, pulseerr.Wrap(ErrSave, err)
	}

	statuses := make(map[string]string, len(entry))
	for k, v := range entry {
		statuses[k] = v
	}

	snap := Snapshot{
		Time:     s.Now().Truncate(time.Second),
		Statuses: statuses,
	}

	h = append(h, snap).Tail(MaxEntries)

	if err := s.Save(h); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Save overwrites the history file with h.
// The parent directory is created if it does not exist.
func (s *Store) Save(h History) error {
	data, err := Encode(h)
	if err != nil {
		return pulseerr.Wrap(ErrSave, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pulseerr.Wrap(ErrSave, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return pulseerr.Wrap(ErrSave, err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Chmod(0644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, s.path)
	}
	if err != nil {
		os.Remove(tmp)
		return pulseerr.Wrap(ErrSave, err)
	}

	return nil
}
