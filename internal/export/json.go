package export

import (
	"io"

	"github.com/cloudpulse/cloudpulse/internal/history"
)

// ToJSON writes the history in the same form as the history file.
func ToJSON(w io.Writer, h history.History) error {
	b, err := history.Encode(h)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
