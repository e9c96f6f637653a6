package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// excludedParameters are parameter elements that never become numeric
// columns. Weather conditions are handled by ExtractWeatherFlags.
var excludedParameters = map[string]bool{
	"weather":         true,
	"conditions-icon": true,
}

// NumericSeries is one weather variable aligned to the timestamps of its
// time-layout. Times and Values have equal length; a nil value is missing.
type NumericSeries struct {
	Name   string
	Times  []time.Time
	Values []*float64
}

// Len returns the number of aligned points.
func (s NumericSeries) Len() int { return len(s.Times) }

// ExtractParameterSeries builds a named numeric series for every qualifying
// child of every <parameters> block, in document order.
//
// A child qualifies when it has at least one <value> child, is not excluded,
// and references a time-layout present in layouts. Values pair positionally
// with the layout's timestamps and are truncated to the shorter of the two;
// a series that aligns zero points is skipped. Names are not deduplicated.
func ExtractParameterSeries(doc *Document, layouts map[string][]time.Time) []NumericSeries {
	var out []NumericSeries
	for _, params := range doc.parameterBlocks() {
		for i := range params.Children {
			node := &params.Children[i]
			if excludedParameters[node.tag()] {
				continue
			}
			values := node.children("value")
			if len(values) == 0 {
				continue
			}
			key, ok := node.attr("time-layout")
			if !ok || key == "" {
				continue
			}
			times, ok := layouts[key]
			if !ok {
				continue
			}

			n := min(len(values), len(times))
			if n == 0 {
				continue
			}

			s := NumericSeries{
				Name:   seriesName(node),
				Times:  make([]time.Time, n),
				Values: make([]*float64, n),
			}
			copy(s.Times, times[:n])
			for j := 0; j < n; j++ {
				s.Values[j] = CoerceValue(values[j].text())
			}
			out = append(out, s)
		}
	}
	return out
}

// seriesName derives a column name: the tag, suffixed with _<type> when the
// element carries a non-empty type attribute.
func seriesName(node *element) string {
	if typ, ok := node.attr("type"); ok && typ != "" {
		return node.tag() + "_" + typ
	}
	return node.tag()
}

// CoerceValue converts DWML value text to a number. Empty text (including an
// absent or nil value), "NA", and anything that does not parse as a finite or
// infinite number yield nil. Coercion is lossy and silent.
func CoerceValue(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "NA" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}
