// Package fetcher retrieves the current status string of a service.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/registry"
	"github.com/goccy/go-json"
)

var (
	HTTPUserAgent = "cloudpulse status check"
)

const (
	DefaultTimeout   = 10 * time.Second
	HTTPRedirectMax  = 10
	MaxResponseBytes = 1024 * 1024
)

var (
	ErrRedirectLoopDetected = errors.New("redirect loop detected")
	ErrTrailingData         = errors.New("unexpected data after the document")
	httpClient              = &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		},
		CheckRedirect: checkHTTPRedirect,
	}
)

func checkHTTPRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > HTTPRedirectMax {
		return ErrRedirectLoopDetected
	}
	return nil
}

// OfflineStatus is the status of a service that replied with a non-2xx code.
func OfflineStatus(code int) string {
	return fmt.Sprintf("Offline (HTTP %d)", code)
}

// ErrorStatus is the status of a service that could not be checked.
func ErrorStatus(message string) string {
	return "Error: " + message
}

// Fetcher checks services over HTTP.
type Fetcher struct {
	// Client is the HTTP client. The shared default client is used if nil.
	Client *http.Client

	// Timeout bounds each request. DefaultTimeout is used if zero.
	Timeout time.Duration

	// UserAgent is sent as the User-Agent header. HTTPUserAgent is used if empty.
	UserAgent string
}

// New makes a Fetcher with default settings.
func New() *Fetcher {
	return &Fetcher{Timeout: DefaultTimeout}
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return httpClient
}

func (f *Fetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return DefaultTimeout
}

func (f *Fetcher) userAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return HTTPUserAgent
}

// Fetch returns the current status of svc.
// It never fails; every failure is described in the returned status.
func (f *Fetcher) Fetch(ctx context.Context, svc registry.Service) string {
	ctx, cancel := context.WithTimeout(ctx, f.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.URL, nil)
	if err != nil {
		return ErrorStatus(err.Error())
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := f.client().Do(req)
	if err != nil {
		return ErrorStatus(describeError(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || 299 < resp.StatusCode {
		return OfflineStatus(resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, MaxResponseBytes))

	var doc any
	if err := dec.DecodeContext(ctx, &doc); err != nil {
		if ctx.Err() != nil {
			return ErrorStatus(describeError(ctx, err))
		}
		return ErrorStatus("invalid JSON response: " + err.Error())
	}

	var rest json.RawMessage
	if err := dec.DecodeContext(ctx, &rest); !errors.Is(err, io.EOF) {
		if ctx.Err() != nil {
			return ErrorStatus(describeError(ctx, ctx.Err()))
		}
		return ErrorStatus("invalid JSON response: " + ErrTrailingData.Error())
	}

	return Extract(ctx, svc, doc)
}

// Extract takes the status of svc out of a decoded response document.
func Extract(ctx context.Context, svc registry.Service, doc any) string {
	ex, err := svc.Extractor()
	if err != nil {
		return ErrorStatus(err.Error())
	}

	r, err := ex.Extract(ctx, doc)
	if err != nil {
		return ErrorStatus(err.Error())
	}

	return r.Status()
}

func describeError(ctx context.Context, err error) string {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return "request timed out"
	case context.Canceled:
		return "request aborted"
	}

	dnsErr := &net.DNSError{}
	opErr := &net.OpError{}

	switch {
	case errors.As(err, &dnsErr):
		msg := dnsErr.Error()
		if dnsErr.IsNotFound {
			msg = "lookup " + dnsErr.Name + ": not found"
		}
		return msg
	case errors.Is(err, ErrRedirectLoopDetected):
		return ErrRedirectLoopDetected.Error()
	case errors.As(err, &opErr) && opErr.Op == "dial" && opErr.Addr != nil && errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Sprintf("%s: connection refused", opErr.Addr)
	case errors.As(err, &opErr):
		return opErr.Error()
	}

	return strings.TrimSpace(err.Error())
}
