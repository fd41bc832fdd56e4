package dashboard

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// writeRendered renders the whole body into memory before sending anything.
// If render fails, the client gets a 500 instead of a cut-off page.
func writeRendered(w http.ResponseWriter, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		http.Error(w, "failed to render the page", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, err := buf.WriteTo(w)
	return err
}
