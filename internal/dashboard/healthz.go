package dashboard

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudpulse/cloudpulse/internal/history"
)

// HealthzEndpoint answers HEALTHY while the history file is readable, and FAILURE with status 500 otherwise.
// The newest sweep is summarized after the verdict.
func HealthzEndpoint(s Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := s.Health()

		var b strings.Builder
		if h.Readable {
			b.WriteString("HEALTHY\n")
		} else {
			b.WriteString("FAILURE\n")
		}
		for _, n := range h.Notes {
			fmt.Fprintln(&b, n)
		}
		if h.Entries > 0 {
			fmt.Fprintf(&b, "entries: %d\n", h.Entries)
			fmt.Fprintf(&b, "last sweep: %s\n", h.Last.Time.Format(history.TimeFormat))
			fmt.Fprintf(&b, "services: %s\n", strings.Join(h.Last.Names(), ", "))
		}

		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		if !h.Readable {
			w.WriteHeader(http.StatusInternalServerError)
		}
		fmt.Fprint(w, b.String())
	}
}
