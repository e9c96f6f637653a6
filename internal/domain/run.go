package domain

import (
	"fmt"
	"time"
)

// Content types of the persisted artifacts.
const (
	ContentTypeXML = "application/xml"
	ContentTypeCSV = "text/csv"
)

// runStampLayout is the UTCSTAMP format shared by both object keys of a run.
const runStampLayout = "20060102T150405Z"

// RunStamp formats the scrape instant for object keys, e.g. 20250820T143000Z.
func RunStamp(t time.Time) string {
	return t.UTC().Format(runStampLayout)
}

// RawObjectKey is the object key of the verbatim DWML document.
func RawObjectKey(prefix, stamp string) string {
	return fmt.Sprintf("%sdwml_%s.xml", prefix, stamp)
}

// CSVObjectKey is the object key of the flattened table.
func CSVObjectKey(prefix, stamp string) string {
	return fmt.Sprintf("%sflat_%s.csv", prefix, stamp)
}

// RunResult is returned to the invoker after a successful run.
type RunResult struct {
	RawXML    string `json:"raw_xml"`
	PerRunCSV string `json:"per_run_csv"`
	Rows      int    `json:"rows_this_run"`

	Stamp      string    `json:"-"`
	ScrapeTime time.Time `json:"-"`
	Columns    []string  `json:"-"`
}
