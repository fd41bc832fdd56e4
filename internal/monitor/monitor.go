// Package monitor runs sweeps over the service registry and records the results.
package monitor

import (
	"context"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/cloudpulse/cloudpulse/internal/oplog"
	"github.com/cloudpulse/cloudpulse/internal/registry"
	"github.com/cloudpulse/cloudpulse/internal/schedule"
	"github.com/google/uuid"
)

// Fetcher retrieves the current status of a service.
// It must not fail; failures are described by the returned status.
type Fetcher interface {
	Fetch(ctx context.Context, svc registry.Service) string
}

// Store is where sweep results are recorded.
type Store interface {
	Load() (history.History, error)
	Append(entry map[string]string) (history.Snapshot, error)
}

// Change is a status that differs from the one in the previous sweep.
type Change struct {
	Service  string
	Previous string
	Current  string
}

// ChangeHandler is called for every detected Change.
type ChangeHandler func(Change)

// Result is the outcome of a sweep.
type Result struct {
	ID       uuid.UUID
	Snapshot history.Snapshot
	Changes  []Change
}

// Monitor checks every service in the registry, one after another.
type Monitor struct {
	Registry registry.Registry
	Fetcher  Fetcher
	Store    Store
	Logger   *oplog.Logger

	OnStatusChanged []ChangeHandler

	// Now is the clock for scheduling. It is replaceable for testing.
	Now func() time.Time
}

// New makes a Monitor.
func New(reg registry.Registry, f Fetcher, s Store, logger *oplog.Logger) *Monitor {
	if logger == nil {
		logger = oplog.Discard()
	}

	return &Monitor{
		Registry: reg,
		Fetcher:  f,
		Store:    s,
		Logger:   logger,
		Now:      time.Now,
	}
}

// DetectChange compares a status with the previous one.
// The first observation of a service, that has no previous status, is never a change.
func DetectChange(last history.Snapshot, name, current string) (Change, bool) {
	prev, ok := last.Get(name)
	if !ok || prev == current {
		return Change{}, false
	}

	return Change{
		Service:  name,
		Previous: prev,
		Current:  current,
	}, true
}

// Sweep checks all services once and appends the result to the store.
//
// A cancelled sweep is not recorded. An error of the store is returned as is.
func (m *Monitor) Sweep(ctx context.Context) (Result, error) {
	id := uuid.New()

	h, err := m.Store.Load()
	if err != nil {
		m.Logger.Error("history", "failed to read history: %s: compare with empty history", err)
	}
	last, _ := h.Last()

	m.Logger.Info("monitor", "start sweep %s: %d services", id, len(m.Registry))

	statuses := make(map[string]string, len(m.Registry))
	var changes []Change

	for _, svc := range m.Registry {
		current := m.Fetcher.Fetch(ctx, svc)

		if c, ok := DetectChange(last, svc.Name, current); ok {
			m.Logger.Alert(svc.Name, "changed from %q to %q", c.Previous, c.Current)
			changes = append(changes, c)

			for _, cb := range m.OnStatusChanged {
				cb(c)
			}
		} else {
			m.Logger.Info(svc.Name, "%s", current)
		}

		statuses[svc.Name] = current
	}

	if err := ctx.Err(); err != nil {
		m.Logger.Info("monitor", "abort sweep %s", id)
		return Result{}, err
	}

	snap, err := m.Store.Append(statuses)
	if err != nil {
		m.Logger.Error("history", "%s", err)
		return Result{}, err
	}

	m.Logger.Info("monitor", "finish sweep %s: %d changes", id, len(changes))

	return Result{
		ID:       id,
		Snapshot: snap,
		Changes:  changes,
	}, nil
}

// Run sweeps by sched until ctx is done.
//
// Sweeps never overlap; the next time is decided after the previous sweep finished.
// When sched has no more sweeps, Run waits for ctx without sweeping.
// It returns nil when ctx is done, or the error if a sweep failed to record the result.
func (m *Monitor) Run(ctx context.Context, sched schedule.Schedule) error {
	if sched.SweepsAtStart() {
		if err := m.sweepInLoop(ctx); err != nil {
			return err
		}
	}

	for {
		now := m.Now()
		next := sched.Next(now)

		if next.IsZero() {
			m.Logger.Info("monitor", "no more sweeps are scheduled by %s", sched)
			<-ctx.Done()
			return nil
		}

		m.Logger.Info("monitor", "next sweep at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if err := m.sweepInLoop(ctx); err != nil {
			return err
		}
	}
}

func (m *Monitor) sweepInLoop(ctx context.Context) error {
	if _, err := m.Sweep(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
