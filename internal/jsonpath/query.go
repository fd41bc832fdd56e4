package jsonpath

import (
	"context"
	"errors"

	"github.com/cloudpulse/cloudpulse/internal/pulseerr"
	"github.com/itchyny/gojq"
)

var (
	ErrInvalidQuery = errors.New("invalid jq query")
)

// Query is a compiled jq expression, used in place of a Path when a status lives somewhere a Path can not express.
type Query struct {
	src  string
	code *gojq.Code
}

// CompileQuery parses and compiles a jq expression.
// The options add functions or variables to the builtins.
func CompileQuery(src string, opts ...gojq.CompilerOption) (Query, error) {
	if src == "" {
		src = "."
	}

	q, err := gojq.Parse(src)
	if err != nil {
		return Query{}, pulseerr.Wrapf(ErrInvalidQuery, err, "%q", src)
	}

	c, err := gojq.Compile(q, opts...)
	if err != nil {
		return Query{}, pulseerr.Wrapf(ErrInvalidQuery, err, "%q", src)
	}

	return Query{src: src, code: c}, nil
}

func (q Query) String() string {
	return q.src
}

// Extract implements Extractor.
// Only the first output of the query is used.
func (q Query) Extract(ctx context.Context, doc any) (Result, error) {
	iter := q.code.RunWithContext(ctx, doc)

	v, ok := iter.Next()
	if !ok {
		return Result{Kind: NoResult}, nil
	}
	if halt, ok := v.(*gojq.HaltError); ok && halt.ExitCode() == 0 {
		return Result{Kind: NoResult}, nil
	}
	if err, ok := v.(error); ok {
		return Result{}, err
	}

	return Result{Kind: Found, Value: v}, nil
}

// All runs the query and collects every output.
// A halt stops the query without error, but halt_error with a non-zero exit code fails.
func (q Query) All(ctx context.Context, input any) ([]any, error) {
	var vs []any

	iter := q.code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return vs, nil
		}
		if halt, ok := v.(*gojq.HaltError); ok && halt.ExitCode() == 0 {
			return vs, nil
		}
		if err, ok := v.(error); ok {
			return nil, err
		}
		vs = append(vs, v)
	}
}
