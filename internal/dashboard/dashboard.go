// Package dashboard serves the status page and the audit log of Cloud-Pulse over HTTP.
package dashboard

import (
	"fmt"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/cloudpulse/cloudpulse/internal/mcp"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// New makes the dashboard handler.
func New(s Source) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/status.html", http.StatusFound)
	})

	r.Get("/status", http.RedirectHandler("/status.html", http.StatusMovedPermanently).ServeHTTP)
	r.Get("/status.html", StatusHTMLEndpoint(s))
	r.Get("/status.txt", StatusTextEndpoint(s))
	r.Get("/status.json", StatusJSONEndpoint(s))

	r.Get("/history", http.RedirectHandler("/history.json", http.StatusMovedPermanently).ServeHTTP)
	r.Get("/history.{format}", HistoryEndpoint(s))

	r.Get("/metrics", MetricsEndpoint(s))
	r.Get("/healthz", HealthzEndpoint(s))

	r.Handle("/mcp", mcp.Handler(s))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, "404 page not found")
	})

	return gziphandler.GzipHandler(r)
}

func handleError(s Source, scope string, err error) {
	if err != nil {
		s.ReportInternalError("dashboard:"+scope, err.Error())
	}
}

// loadReport reads the history and summarizes it.
// It writes an error response and returns false if the history is not readable.
func loadReport(s Source, scope string, w http.ResponseWriter) (Report, bool) {
	h, err := s.History()
	if err != nil {
		handleError(s, scope, err)
		http.Error(w, "failed to read history", http.StatusInternalServerError)
		return Report{}, false
	}
	return MakeReport(h, s.Now()), true
}
