package main

import (
	"context"
	"fmt"

	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/monitor"
)

// RunOneshot sweeps once.
// The exit code is 1 if any service looks unhealthy or the result could not be recorded.
func (cmd *CloudPulseCommand) RunOneshot(ctx context.Context, m *monitor.Monitor) (exitCode int) {
	r, err := m.Sweep(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 1
	}

	for _, name := range r.Snapshot.Names() {
		if !health.IsHealthy(r.Snapshot.Statuses[name]) {
			return 1
		}
	}

	return 0
}
