package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/dashboard"
	"github.com/cloudpulse/cloudpulse/internal/monitor"
)

// RunServer runs the monitor loop and the dashboard until ctx is done.
// The dashboard is not started if ListenPort is 0.
func (cmd *CloudPulseCommand) RunServer(ctx context.Context, m *monitor.Monitor) (exitCode int) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var serverFailed atomic.Bool

	var srv *http.Server
	if cmd.ListenPort != 0 {
		listen := fmt.Sprintf("0.0.0.0:%d", cmd.ListenPort)

		ln, err := net.Listen("tcp", listen)
		if err != nil {
			fmt.Fprintf(cmd.ErrStream, "error: failed to listen %s: %s\n", listen, err)
			return 1
		}

		srv = &http.Server{
			Handler:           dashboard.New(dashboard.NewFileSource(cmd.HistoryPath, m.Logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		m.Logger.Info("server", "start Cloud-Pulse dashboard on http://%s", listen)

		go func() {
			if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
				m.Logger.Error("dashboard", "%s", err)
				serverFailed.Store(true)
				cancel()
			}
		}()
	}

	m.Logger.Info("server", "start monitoring %d services: schedule %s: history %s", len(m.Registry), cmd.Schedule, cmd.HistoryPath)

	wg := &sync.WaitGroup{}
	wg.Add(1)

	var runErr error
	go func() {
		defer wg.Done()
		runErr = m.Run(ctx, cmd.Schedule)
		cancel()
	}()

	<-ctx.Done()
	wg.Wait()

	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			m.Logger.Error("dashboard", "%s", err)
		}
	}

	if runErr != nil {
		m.Logger.Error("server", "stop monitoring: %s", runErr)
		return 1
	}

	m.Logger.Info("server", "stop Cloud-Pulse")

	if serverFailed.Load() {
		return 1
	}
	return 0
}
