package fetcher

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestDescribeError(t *testing.T) {
	dial := func(errno syscall.Errno) error {
		return &net.OpError{
			Op:   "dial",
			Net:  "tcp",
			Addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 80},
			Err:  os.NewSyscallError("connect", errno),
		}
	}

	tests := []struct {
		Name  string
		Error error
		Want  string
	}{
		{"refused", dial(syscall.ECONNREFUSED), "10.0.0.1:80: connection refused"},
		{"no-route", dial(syscall.EHOSTUNREACH), "dial tcp 10.0.0.1:80: connect: no route to host"},
		{"unreachable", dial(syscall.ENETUNREACH), "dial tcp 10.0.0.1:80: connect: network is unreachable"},
		{"not-found", &net.DNSError{Err: "no such host", Name: "status.example.com", IsNotFound: true}, "lookup status.example.com: not found"},
		{"redirect", ErrRedirectLoopDetected, "redirect loop detected"},
		{"other", errors.New("  something wrong \n"), "something wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if got := describeError(context.Background(), tt.Error); got != tt.Want {
				t.Errorf("expected %q but got %q", tt.Want, got)
			}
		})
	}
}
