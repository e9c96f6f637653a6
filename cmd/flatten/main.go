// Command flatten converts a DWML document on disk into the flattened table
// the scraper uploads, without touching the network or object storage. It is
// used to inspect live responses and to regenerate test fixtures.
//
// Usage:
//
//	go run ./cmd/flatten \
//	  -in internal/domain/testdata/digital_dwml.xml \
//	  -scrape-time 2025-08-20T12:31:05Z \
//	  -format csv
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/nws-dwml-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("flatten", flag.ContinueOnError)
	in := fs.String("in", "-", "DWML file to read, - for stdin")
	out := fs.String("out", "-", "output path, - for stdout")
	format := fs.String("format", "csv", "output format: csv, json, or summary")
	lat := fs.Float64("lat", 41.94, "latitude stamped on every row")
	lon := fs.Float64("lon", -72.685, "longitude stamped on every row")
	scrapeTime := fs.String("scrape-time", "", "RFC 3339 scrape instant (default now)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// A fixed clock makes fixture output reproducible.
	if *scrapeTime != "" {
		ts, err := time.Parse(time.RFC3339, *scrapeTime)
		if err != nil {
			return fmt.Errorf("parse -scrape-time: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(ts))
		defer domain.SetClock(nil)
	}

	data, err := readInput(*in, stdin)
	if err != nil {
		return err
	}

	table, err := domain.Flatten(data, domain.RunMeta{
		ScrapeTime: domain.ScrapeInstant(),
		Lat:        *lat,
		Lon:        *lon,
	})
	if err != nil {
		return err
	}

	if *out == "-" {
		return writeTable(stdout, *format, table)
	}
	f, err := createOutput(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeTable(f, *format, table); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func writeTable(w io.Writer, format string, table *domain.Table) error {
	switch format {
	case "csv":
		return table.WriteCSV(w)
	case "json":
		return writeJSON(w, table)
	case "summary":
		return writeSummary(w, table)
	default:
		return fmt.Errorf("unknown -format %q: want csv, json, or summary", format)
	}
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// writeJSON emits one object per row. Missing values are null.
func writeJSON(w io.Writer, table *domain.Table) error {
	rows := make([]map[string]any, 0, table.Len())
	for _, r := range table.Rows() {
		obj := map[string]any{
			domain.ColScrapeTime:   r.ScrapeTime.Format(time.RFC3339),
			domain.ColLat:          r.Lat,
			domain.ColLon:          r.Lon,
			domain.ColForecastTime: r.ForecastTime.Format(time.RFC3339),
		}
		for name, v := range r.Numbers {
			obj[name] = v
		}
		for name, v := range r.Flags {
			obj[name] = v
		}
		rows = append(rows, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// writeSummary reports the table shape and how many rows each column fills.
func writeSummary(w io.Writer, table *domain.Table) error {
	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d\n", table.Len())
	if table.Len() > 0 {
		first, last := table.ForecastTimes[0], table.ForecastTimes[table.Len()-1]
		fmt.Fprintf(&b, "forecast range: %s .. %s\n", first.Format(time.RFC3339), last.Format(time.RFC3339))
	}
	for _, c := range table.Columns {
		fmt.Fprintf(&b, "  %-40s %d/%d\n", c.Name, filled(c), table.Len())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func filled(c domain.Column) int {
	n := 0
	switch c.Kind {
	case domain.NumericColumn:
		for _, v := range c.Numbers {
			if v != nil {
				n++
			}
		}
	case domain.FlagColumn:
		for _, v := range c.Flags {
			if v != nil {
				n++
			}
		}
	}
	return n
}
