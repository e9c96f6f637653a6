package domain

import (
	"fmt"
	"time"
)

// timeLayoutFormats are the timestamp shapes accepted in start-valid-time.
// Every accepted shape carries an explicit offset so the instant is absolute.
var timeLayoutFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
}

// ResolveTimeLayouts reads every <time-layout> in the document into a map of
// layout key to UTC timestamps. Output order within a layout is document
// order, not necessarily chronological. A later layout with a repeated key
// replaces the earlier one. Any unparseable timestamp fails the whole
// document with ErrParse.
func ResolveTimeLayouts(doc *Document) (map[string][]time.Time, error) {
	layouts := make(map[string][]time.Time)
	for _, tl := range doc.root.descendants("time-layout") {
		keys := tl.children("layout-key")
		if len(keys) == 0 {
			return nil, fmt.Errorf("%w: time-layout without layout-key", ErrParse)
		}
		key := keys[0].text()

		starts := tl.children("start-valid-time")
		times := make([]time.Time, 0, len(starts))
		for _, st := range starts {
			ts, err := parseTimestamp(st.text())
			if err != nil {
				return nil, fmt.Errorf("%w: time-layout %q: %w", ErrParse, key, err)
			}
			times = append(times, ts)
		}
		layouts[key] = times
	}
	return layouts, nil
}

// parseTimestamp parses an offset-qualified timestamp and normalizes it to UTC.
func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayoutFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, firstErr)
}
