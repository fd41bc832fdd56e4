package dashboard

import (
	"fmt"
	"html/template"
	"strings"
	textTemplate "text/template"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/dustin/go-humanize"
)

var (
	templateFuncs = map[string]interface{}{
		"time2str": func(t time.Time) string {
			return t.Format(history.TimeFormat)
		},
		"time2rfc3339": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"since": func(t, now time.Time) string {
			return humanize.RelTime(t, now, "ago", "from now")
		},
		"percent": func(p float64) string {
			return humanize.FtoaWithDigits(p, 1) + "%"
		},
		"is_healthy": health.IsHealthy,
		"trend_points": func(ps []health.Point) string {
			return trendPoints(ps, 100, 40)
		},
	}
)

// trendPoints makes the points attribute of an SVG polyline in a width x height box.
// The top of the box is 100% and the bottom is 0%.
func trendPoints(ps []health.Point, width, height float64) string {
	if len(ps) < 2 {
		return ""
	}

	xs := make([]string, len(ps))
	for i, p := range ps {
		x := width * float64(i) / float64(len(ps)-1)
		y := height * (1 - p.Percent/100)
		xs[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	return strings.Join(xs, " ")
}

func loadHTMLTemplate(name, s string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).Parse(s))
}

func loadTextTemplate(name, s string) *textTemplate.Template {
	return textTemplate.Must(textTemplate.New(name).Funcs(templateFuncs).Parse(s))
}
