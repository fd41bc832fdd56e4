package dashboard

import (
	"io"
	"net/http"

	"github.com/cloudpulse/cloudpulse/internal/export"
	"github.com/go-chi/chi/v5"
)

// HistoryEndpoint serves the audit log as a downloadable file.
// The format is decided by the extension, one of json, csv, ltsv, and xlsx.
func HistoryEndpoint(s Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := export.ParseFormat(chi.URLParam(r, "format"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		h, err := s.History()
		if err != nil {
			handleError(s, "history."+string(f), err)
			http.Error(w, "failed to read history", http.StatusInternalServerError)
			return
		}

		now := s.Now()

		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition", "attachment; filename="+f.FileName(now))

		handleError(s, "history."+string(f), writeRendered(w, func(out io.Writer) error {
			return export.Write(out, f, h, now)
		}))
	}
}
