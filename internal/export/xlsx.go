package export

import (
	"fmt"
	"io"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/health"
	"github.com/cloudpulse/cloudpulse/internal/history"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "audit"

	healthyColor   = "89C923"
	unhealthyColor = "FF2D00"
)

func excelPos(x, y int) string {
	pos, err := excelize.CoordinatesToCellName(x+1, y+1)
	if err != nil {
		panic(err)
	}
	return pos
}

// ToXlsx writes an Excel book that has a sheet named "audit".
// Status cells are underlined green if healthy, or red if not.
func ToXlsx(w io.Writer, h history.History, createdAt time.Time) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	if err := xlsx.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	xlsx.SetAppProps(&excelize.AppProperties{
		Application: "Cloud-Pulse",
	})
	xlsx.SetDocProps(&excelize.DocProperties{
		Created:        createdAt.Format(time.RFC3339),
		Modified:       createdAt.Format(time.RFC3339),
		Creator:        "Cloud-Pulse",
		LastModifiedBy: "Cloud-Pulse",
		Title:          "Cloud-Pulse audit log",
	})

	cols := Columns(h)
	zone, _ := createdAt.Zone()
	for x, c := range cols {
		if x == 0 {
			c = fmt.Sprintf("timestamp (%s)", zone)
		}
		xlsx.SetCellStr(sheetName, excelPos(x, 0), c)
	}

	headerStyle, err := xlsx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "bottom", Style: 2, Color: "000000"}},
	})
	if err != nil {
		return err
	}
	xlsx.SetRowStyle(sheetName, 1, 1, headerStyle)

	datefmt := "yyyy-mm-dd hh:mm:ss"
	percentfmt := "0.0\"%\""

	styles := make(map[string]int)
	style := func(color string, format *string) int {
		key := color
		if format != nil {
			key += *format
		}
		if id, ok := styles[key]; ok {
			return id
		}
		id, _ := xlsx.NewStyle(&excelize.Style{
			CustomNumFmt: format,
			Border:       []excelize.Border{{Type: "bottom", Style: 1, Color: color}},
		})
		styles[key] = id
		return id
	}

	setValue := func(x, y int, value any, style int) {
		pos := excelPos(x, y)
		xlsx.SetCellValue(sheetName, pos, value)
		xlsx.SetCellStyle(sheetName, pos, pos, style)
	}

	for i, r := range Rows(h) {
		y := i + 1

		color := healthyColor
		if r.Percent < 100 {
			color = unhealthyColor
		}

		setValue(0, y, r.Time.In(createdAt.Location()), style(color, &datefmt))

		for j, s := range r.Statuses {
			c := healthyColor
			if !health.IsHealthy(s) {
				c = unhealthyColor
			}
			setValue(1+j, y, s, style(c, nil))
		}

		setValue(len(cols)-1, y, r.Percent, style(color, &percentfmt))
	}

	err = xlsx.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return err
	}

	xlsx.SetColWidth(sheetName, "A", "A", 22)
	if len(cols) > 2 {
		last, _ := excelize.ColumnNumberToName(len(cols) - 1)
		xlsx.SetColWidth(sheetName, "B", last, 24)
	}

	if err := xlsx.AutoFilter(sheetName, "A1:"+excelPos(len(cols)-1, 0), nil); err != nil {
		return err
	}

	return xlsx.Write(w)
}
