package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/registry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Checker fetches the current status of a service.
type Checker interface {
	Fetch(ctx context.Context, svc registry.Service) string
}

// CheckInput is the input for check_service tool.
type CheckInput struct {
	Services []string `json:"services,omitempty" jsonschema:"Names of the services to check. All registered services are checked if omitted."`
	JQ       string   `json:"jq,omitempty" jsonschema:"A jq query string to filter and/or aggregate results. Query receives an array in the same format as query_status."`
}

// CheckServices fetches the current statuses of the services without recording them.
func CheckServices(ctx context.Context, reg registry.Registry, c Checker, input CheckInput) (Output, error) {
	jq, err := CompileJQ(input.JQ)
	if err != nil {
		return Output{}, err
	}

	targets := reg
	if len(input.Services) > 0 {
		targets = make(registry.Registry, 0, len(input.Services))
		for _, name := range input.Services {
			svc, ok := reg.Lookup(name)
			if !ok {
				return Output{}, fmt.Errorf("unknown service: %q: available services are %s", name, strings.Join(reg.Names(), ", "))
			}
			targets = append(targets, svc)
		}
	}

	results := []any{}
	for _, svc := range targets {
		status := c.Fetch(ctx, svc)
		results = append(results, map[string]any{
			"service":    svc.Name,
			"status":     status,
			"healthy":    health.IsHealthy(status),
			"checked_at": time.Now().Format(time.RFC3339),
		})
	}

	return jq.Run(ctx, results)
}

// AddLocalTools adds the tools that only the local MCP server has.
// These tools are: check_service.
func AddLocalTools(server *mcp.Server, reg registry.Registry, c Checker) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_service",
		Title:       "Check service",
		Description: "Fetch the current status of services right now. The result is not recorded in the history. Registered services are: " + strings.Join(reg.Names(), ", ") + ".",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint: true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input CheckInput) (*mcp.CallToolResult, Output, error) {
		output, err := CheckServices(ctx, reg, c, input)
		return nil, output, err
	})
}
