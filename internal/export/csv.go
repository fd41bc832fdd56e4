package export

import (
	"encoding/csv"
	"io"

	"github.com/cloudpulse/cloudpulse/internal/history"
)

func ToCSV(w io.Writer, h history.History) error {
	c := csv.NewWriter(w)

	if err := c.Write(Columns(h)); err != nil {
		return err
	}

	for _, r := range Rows(h) {
		line := make([]string, 0, len(r.Statuses)+2)
		line = append(line, r.Time.Format(history.TimeFormat))
		line = append(line, r.Statuses...)
		line = append(line, formatPercent(r.Percent))

		if err := c.Write(line); err != nil {
			return err
		}
	}

	c.Flush()

	return c.Error()
}
