package pulseerr

import (
	"fmt"
	"strings"
)

// Problem is an error found at a location of a document, like "services[2].url".
type Problem struct {
	At  string
	Err error
}

func (p Problem) Error() string {
	if p.At == "" {
		return p.Err.Error()
	}
	return p.At + ": " + p.Err.Error()
}

func (p Problem) Unwrap() error {
	return p.Err
}

// Problems collects everything a validation found, so that all of them can be fixed at once.
//
// errors.Is reports true for What and for the error of every Problem.
type Problems struct {
	What error
	List []Problem
}

// Add records err at the location. A nil err is ignored.
func (ps *Problems) Add(at string, err error) {
	if err != nil {
		ps.List = append(ps.List, Problem{At: at, Err: err})
	}
}

// Addf records a problem at the location, formatted by fmt.Errorf.
func (ps *Problems) Addf(at, format string, args ...interface{}) {
	ps.Add(at, fmt.Errorf(format, args...))
}

// Err returns the problems as an error, or nil if nothing has been recorded.
func (ps *Problems) Err() error {
	if len(ps.List) == 0 {
		return nil
	}
	return Problems{What: ps.What, List: append([]Problem(nil), ps.List...)}
}

// Error lists the problems one per line, below What.
func (ps Problems) Error() string {
	var sb strings.Builder
	sb.WriteString(ps.What.Error())
	sb.WriteString(":")

	for _, p := range ps.List {
		for _, line := range strings.Split(p.Error(), "\n") {
			sb.WriteString("\n  ")
			sb.WriteString(line)
		}
	}

	return sb.String()
}

func (ps Problems) Unwrap() []error {
	errs := make([]error, 0, len(ps.List)+1)
	errs = append(errs, ps.What)
	for _, p := range ps.List {
		errs = append(errs, p)
	}
	return errs
}
