package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/history"
)

var (
	ltsvEscaper      = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)
	ltsvLabelEscaper = strings.NewReplacer(":", "_", "\t", "_", "\n", "_", "\r", "_")
)

// ToLTSV writes a line per snapshot.
// The label of a status is the service name; a service not checked in the sweep is omitted.
func ToLTSV(w io.Writer, h history.History) error {
	for _, s := range h {
		if _, err := fmt.Fprintf(w, "timestamp:%s", s.Time.Format(history.TimeFormat)); err != nil {
			return err
		}

		for _, name := range s.Names() {
			label := ltsvLabelEscaper.Replace(name)
			if _, err := fmt.Fprintf(w, "\t%s:%s", label, ltsvEscaper.Replace(s.Statuses[name])); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "\thealth_percent:%s\n", formatPercent(health.Percent(s))); err != nil {
			return err
		}
	}

	return nil
}
