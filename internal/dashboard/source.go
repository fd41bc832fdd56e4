package dashboard

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/cloudpulse/cloudpulse/internal/oplog"
)

// Source is where the dashboard reads the recorded statuses.
type Source interface {
	// History returns the recorded snapshots, oldest first.
	History() (history.History, error)

	// Now returns the current time.
	Now() time.Time

	// ReportInternalError reports an error that happened while serving a request.
	ReportInternalError(scope, message string)

	// Health reports the state of the history file for /healthz.
	Health() Health
}

// Health is the state of the history file as the dashboard sees it.
type Health struct {
	// Readable is false if the history file exists but can not be read.
	Readable bool

	// Notes are the messages shown below the verdict line.
	Notes []string

	// Entries is the number of snapshots in the history.
	Entries int

	// Last is the newest snapshot. It is zero if Entries is 0.
	Last history.Snapshot
}

// FileSource reads the history file on every call.
// It never writes the file, so it can run alongside the monitor.
type FileSource struct {
	Path   string
	Logger *oplog.Logger

	// Clock is the current time. time.Now is used if nil.
	Clock func() time.Time
}

// NewFileSource makes a FileSource for the history file at path.
func NewFileSource(path string, logger *oplog.Logger) *FileSource {
	if logger == nil {
		logger = oplog.Discard()
	}
	return &FileSource{
		Path:   path,
		Logger: logger,
	}
}

// History reads the history file.
// A single snapshot object is read as a history of one entry, and a corrupted file is read as an empty history.
func (s *FileSource) History() (history.History, error) {
	h, err := history.ReadFile(s.Path, history.AcceptSingleObject)
	if errors.Is(err, history.ErrCorrupted) {
		s.Logger.Error("dashboard", "%s: %s", s.Path, err)
		return history.History{}, nil
	}
	return h, err
}

func (s *FileSource) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *FileSource) ReportInternalError(scope, message string) {
	s.Logger.Error(scope, "%s", message)
}

func (s *FileSource) Health() Health {
	h, err := history.ReadFile(s.Path, history.AcceptSingleObject)
	if err != nil {
		return Health{Notes: []string{fmt.Sprintf("%s: %s", s.Path, err)}}
	}

	last, ok := h.Last()
	if !ok {
		if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
			return Health{Readable: true, Notes: []string{"history file is not created yet"}}
		}
		return Health{Readable: true}
	}

	return Health{
		Readable: true,
		Entries:  len(h),
		Last:     last,
	}
}
