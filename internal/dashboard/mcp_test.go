package dashboard_test

import (
	"testing"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/mcp"
	"github.com/cloudpulse/cloudpulse/internal/testutil"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestNew_mcp(t *testing.T) {
	srv := testutil.StartTestServer(t, testutil.WriteHistory(t, testutil.SampleHistory()), testNow)

	lastSync := testutil.BaseTime.Add(10 * time.Minute).Format(time.RFC3339)

	tests := []struct {
		Tool   string
		Args   map[string]any
		Expect mcp.Output
		Error  string
	}{
		{
			Tool: "query_status",
			Args: map[string]any{},
			Expect: mcp.Output{Result: []any{
				map[string]any{"service": "A", "status": "Operational", "healthy": true, "checked_at": lastSync},
				map[string]any{"service": "B", "status": "Operational", "healthy": true, "checked_at": lastSync},
			}},
		},
		{
			Tool:   "query_history",
			Args:   map[string]any{"jq": "map(.health_percent)"},
			Expect: mcp.Output{Result: []any{50.0, 100.0}},
		},
		{
			Tool:   "query_history",
			Args:   map[string]any{"since": lastSync, "jq": ".[].statuses.B"},
			Expect: mcp.Output{Result: "Operational"},
		},
		{
			Tool:  "query_history",
			Args:  map[string]any{"since": "yesterday"},
			Error: `since time must be in RFC3339 format but got "yesterday"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Tool, func(t *testing.T) {
			client := mcpsdk.NewClient(&mcpsdk.Implementation{
				Name:    "test-client",
				Version: "none",
			}, nil)
			sess, err := client.Connect(t.Context(), &mcpsdk.StreamableClientTransport{
				Endpoint: srv.URL + "/mcp",
			}, nil)
			if err != nil {
				t.Fatalf("failed to connect to MCP server: %v", err)
			}
			defer sess.Close()

			result, err := sess.CallTool(t.Context(), &mcpsdk.CallToolParams{
				Name:      tt.Tool,
				Arguments: tt.Args,
			})
			if err != nil {
				t.Fatalf("failed to call tool %q: %v", tt.Tool, err)
			}

			if len(result.Content) != 1 {
				t.Fatalf("expected 1 content, got %#v", result.Content)
			}
			text, ok := result.Content[0].(*mcpsdk.TextContent)
			if !ok {
				t.Fatalf("expected TextContent, got %#v", result.Content[0])
			}

			if tt.Error != "" {
				if text.Text != tt.Error {
					t.Errorf("expected error %q, got %q", tt.Error, text.Text)
				}
				if !result.IsError {
					t.Errorf("expected IsError to be true, but got false")
				}
				return
			}

			var output mcp.Output
			if err := json.Unmarshal([]byte(text.Text), &output); err != nil {
				t.Fatalf("failed to unmarshal result: %v", err)
			}
			if diff := cmp.Diff(tt.Expect, output); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
			if result.IsError {
				t.Errorf("expected IsError to be false, but got true")
			}
		})
	}
}
