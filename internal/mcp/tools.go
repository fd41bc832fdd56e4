// Package mcp provides Model Context Protocol tools to query the statuses of Cloud-Pulse.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Store is where the tools read the statuses.
type Store interface {
	// History returns the recorded snapshots, oldest first.
	History() (history.History, error)

	// ReportInternalError reports an error that happened while serving a request.
	ReportInternalError(scope, message string)
}

func readHistory(s Store, scope string) (history.History, error) {
	h, err := s.History()
	if err != nil {
		s.ReportInternalError("mcp:"+scope, fmt.Sprintf("failed to read history: %v", err))
		return nil, errors.New("internal server error")
	}
	return h, nil
}

// StatusInput is the input for query_status tool.
type StatusInput struct {
	JQ string `json:"jq,omitempty" jsonschema:"A jq query string to filter and/or aggregate status. Query receives an array. Each object is like '{\"service\": \"...\", \"status\": \"...\", \"healthy\": true, \"checked_at\": \"{RFC 3339}\"}'. For example, 'map(select(.healthy | not))' to get services that look unhealthy."`
}

// FetchStatusByJQ fetches the latest status of each service and applies jq query.
func FetchStatusByJQ(ctx context.Context, s Store, input StatusInput) (Output, error) {
	jq, err := CompileJQ(input.JQ)
	if err != nil {
		return Output{}, err
	}

	h, err := readHistory(s, "query_status")
	if err != nil {
		return Output{}, err
	}

	services := []any{}
	if last, ok := h.Last(); ok {
		for _, name := range last.Names() {
			status := last.Statuses[name]
			services = append(services, map[string]any{
				"service":    name,
				"status":     status,
				"healthy":    health.IsHealthy(status),
				"checked_at": last.Time.Format(time.RFC3339),
			})
		}
	}

	return jq.Run(ctx, services)
}

// HistoryInput is the input for query_history tool.
type HistoryInput struct {
	Since string `json:"since,omitempty" jsonschema:"The start time of sweeps to fetch, in RFC3339 format. If omitted, from the oldest sweep."`
	Until string `json:"until,omitempty" jsonschema:"The end time of sweeps to fetch, in RFC3339 format. If omitted, until the latest sweep."`
	JQ    string `json:"jq,omitempty" jsonschema:"A jq query string to filter and/or aggregate sweeps. Query receives an array, oldest first. Each object is like '{\"timestamp\": \"{RFC 3339}\", \"statuses\": {\"{service}\": \"...\"}, \"health_percent\": 100}'. For example, 'map(select(.health_percent < 100)) | length' to count sweeps that had any trouble."`
}

func parseOptionalTime(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%s time must be in RFC3339 format but got %q", name, s)
	}
	return &t, nil
}

// FetchHistoryByJQ fetches sweeps in the time range and applies jq query.
func FetchHistoryByJQ(ctx context.Context, s Store, input HistoryInput) (Output, error) {
	since, err := parseOptionalTime("since", input.Since)
	if err != nil {
		return Output{}, err
	}
	until, err := parseOptionalTime("until", input.Until)
	if err != nil {
		return Output{}, err
	}

	jq, err := CompileJQ(input.JQ)
	if err != nil {
		return Output{}, err
	}

	h, err := readHistory(s, "query_history")
	if err != nil {
		return Output{}, err
	}

	sweeps := []any{}
	for _, snap := range h {
		if since != nil && snap.Time.Before(*since) {
			continue
		}
		if until != nil && snap.Time.After(*until) {
			continue
		}

		statuses := make(map[string]any, len(snap.Statuses))
		for k, v := range snap.Statuses {
			statuses[k] = v
		}

		sweeps = append(sweeps, map[string]any{
			"timestamp":      snap.Time.Format(time.RFC3339),
			"statuses":       statuses,
			"health_percent": health.Percent(snap),
		})
	}

	return jq.Run(ctx, sweeps)
}

// AddReadOnlyTools adds the query tools to the MCP server.
// These tools are: query_status, query_history.
func AddReadOnlyTools(server *mcp.Server, s Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_status",
		Title:       "Query status",
		Description: "Fetch the latest status of each service from Cloud-Pulse.",
		Annotations: &mcp.ToolAnnotations{
			IdempotentHint: true,
			ReadOnlyHint:   true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, Output, error) {
		output, err := FetchStatusByJQ(ctx, s, input)
		return nil, output, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_history",
		Title:       "Query history",
		Description: "Fetch recorded sweeps from Cloud-Pulse. Only the latest 100 sweeps are kept.",
		Annotations: &mcp.ToolAnnotations{
			IdempotentHint: true,
			ReadOnlyHint:   true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, Output, error) {
		output, err := FetchHistoryByJQ(ctx, s, input)
		return nil, output, err
	})
}
