package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/jsonpath"
	"github.com/itchyny/gojq"
)

// jqFunctions are the functions that the tools add to the jq builtins.
var jqFunctions = []gojq.CompilerOption{
	gojq.WithFunction("is_healthy", 0, 0, jqStatusTest("is_healthy", health.IsHealthy)),
	gojq.WithFunction("is_stable", 0, 0, jqStatusTest("is_stable", health.IsStable)),
	gojq.WithFunction("age", 0, 0, jqAge),
}

func jqStatusTest(name string, test func(string) bool) func(any, []any) any {
	return func(x any, _ []any) any {
		s, ok := x.(string)
		if !ok {
			return fmt.Errorf("%s/0: expected a status string but got %T (%v)", name, x, x)
		}
		return test(s)
	}
}

// jqNow is the clock of age/0.
var jqNow = time.Now

// jqAge converts an RFC 3339 timestamp into seconds elapsed until now.
func jqAge(x any, _ []any) any {
	s, ok := x.(string)
	if !ok {
		return fmt.Errorf("age/0: expected an RFC 3339 timestamp but got %T (%v)", x, x)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("age/0: %q is not an RFC 3339 timestamp", s)
	}
	return jqNow().Sub(t).Seconds()
}

// JQ is a query that the tools apply to their data.
type JQ struct {
	query jsonpath.Query
}

// CompileJQ compiles a jq query with the status functions.
// An empty query is the same as ".".
func CompileJQ(src string) (JQ, error) {
	q, err := jsonpath.CompileQuery(src, jqFunctions...)
	if err != nil {
		return JQ{}, err
	}
	return JQ{query: q}, nil
}

// Output is the result of a tool call.
type Output struct {
	Result any `json:"result" jsonschema:"The result of the query."`
}

// Run applies the query to input.
// The result is the output itself if the query outputs only one value, otherwise a list of the outputs.
func (q JQ) Run(ctx context.Context, input any) (Output, error) {
	vs, err := q.query.All(ctx, input)
	if err != nil {
		return Output{}, err
	}

	if len(vs) == 1 {
		return Output{Result: vs[0]}, nil
	}
	return Output{Result: vs}, nil
}
