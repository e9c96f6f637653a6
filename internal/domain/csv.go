package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// csvTimeLayout renders UTC instants with an explicit +00:00 offset.
const csvTimeLayout = "2006-01-02 15:04:05-07:00"

// WriteCSV writes the table as comma-separated text with a header row.
// Missing values are empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	scrape := formatTime(t.ScrapeTime)
	lat := formatFloat(t.Lat)
	lon := formatFloat(t.Lon)
	record := make([]string, 0, 4+len(t.Columns))
	for i, ft := range t.ForecastTimes {
		record = append(record[:0], scrape, lat, lon, formatTime(ft))
		for _, c := range t.Columns {
			record = append(record, formatCell(c, i))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatCell(c Column, row int) string {
	switch c.Kind {
	case NumericColumn:
		if v := c.Numbers[row]; v != nil {
			return formatFloat(*v)
		}
	case FlagColumn:
		if v := c.Flags[row]; v != nil {
			if *v {
				return "True"
			}
			return "False"
		}
	}
	return ""
}

func formatTime(t time.Time) string {
	return t.UTC().Format(csvTimeLayout)
}

// formatFloat renders the shortest round-trip digits. Decimal exponents below
// -4 or from 16 up use exponent form ("1e-07", "1e+20"); plain integral values
// keep a trailing ".0".
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	if exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
