package dashboard

import (
	_ "embed"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

//go:embed templates/status.html
var statusHTMLTemplate string

func StatusHTMLEndpoint(s Source) http.HandlerFunc {
	tmpl := loadHTMLTemplate("status.html", statusHTMLTemplate)

	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := loadReport(s, "status.html", w)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=UTF-8")

		handleError(s, "status.html", writeRendered(w, func(out io.Writer) error {
			return tmpl.Execute(out, report)
		}))
	}
}

//go:embed templates/status.txt
var statusTextTemplate string

type textReport struct {
	Report

	HealthyMark string
	FailureMark string
}

func StatusTextEndpoint(s Source) http.HandlerFunc {
	tmpl := loadTextTemplate("status.txt", statusTextTemplate)

	return func(w http.ResponseWriter, r *http.Request) {
		data := textReport{HealthyMark: "✓", FailureMark: "✗"}

		switch r.URL.Query().Get("charset") {
		case "", "unicode", "utf8", "utf-8":
		case "ascii":
			data.HealthyMark = "+"
			data.FailureMark = "!"
		default:
			http.Error(w, "unsupported charset", http.StatusBadRequest)
			return
		}

		report, ok := loadReport(s, "status.txt", w)
		if !ok {
			return
		}
		data.Report = report

		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")

		handleError(s, "status.txt", writeRendered(w, func(out io.Writer) error {
			return tmpl.Execute(out, data)
		}))
	}
}

func StatusJSONEndpoint(s Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := loadReport(s, "status.json", w)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET")

		handleError(s, "status.json", writeRendered(w, func(out io.Writer) error {
			return json.NewEncoder(out).Encode(report)
		}))
	}
}
