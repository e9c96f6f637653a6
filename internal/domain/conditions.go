package domain

import (
	"strings"
	"time"
)

// Keyword sets matched against the case-folded condition text.
var (
	rainKeywords    = []string{"rain", "shower", "drizzle"}
	thunderKeywords = []string{"thunder", "tstm", "tstorm"}
	fogKeywords     = []string{"fog", "mist"}
)

// conditionAttributes are concatenated, in this order, into the scratch
// text a condition record is matched against.
var conditionAttributes = []string{"weather-type", "intensity", "coverage", "additive"}

// WeatherFlags holds the three boolean condition series derived from the
// <weather> block. All slices share Times; the zero value means no block.
type WeatherFlags struct {
	Times   []time.Time
	Rain    []bool
	Thunder []bool
	Fog     []bool
}

// Len returns the number of aligned condition records.
func (f WeatherFlags) Len() int { return len(f.Times) }

// ExtractWeatherFlags derives rain, thunder, and fog flags from the first
// <weather> element directly under a <parameters> block. Conditions pair
// positionally with the referenced layout's timestamps, truncated to the
// shorter of the two. A missing block or unresolvable layout yields empty flags.
func ExtractWeatherFlags(doc *Document, layouts map[string][]time.Time) WeatherFlags {
	node := firstWeatherBlock(doc)
	if node == nil {
		return WeatherFlags{}
	}
	key, _ := node.attr("time-layout")
	times := layouts[key]
	conds := node.children("weather-conditions")

	n := min(len(times), len(conds))
	if n == 0 {
		return WeatherFlags{}
	}

	flags := WeatherFlags{
		Times:   make([]time.Time, n),
		Rain:    make([]bool, n),
		Thunder: make([]bool, n),
		Fog:     make([]bool, n),
	}
	copy(flags.Times, times[:n])
	for i := 0; i < n; i++ {
		txt := conditionText(conds[i])
		flags.Rain[i] = containsAny(txt, rainKeywords)
		flags.Thunder[i] = containsAny(txt, thunderKeywords)
		flags.Fog[i] = containsAny(txt, fogKeywords)
	}
	return flags
}

func firstWeatherBlock(doc *Document) *element {
	for _, params := range doc.parameterBlocks() {
		if ws := params.children("weather"); len(ws) > 0 {
			return ws[0]
		}
	}
	return nil
}

// conditionText joins the attribute values of a condition record and all of
// its descendants, grouped per attribute, and lower-cases the result.
func conditionText(cond *element) string {
	parts := make([]string, 0, len(conditionAttributes))
	for _, name := range conditionAttributes {
		parts = append(parts, strings.Join(cond.attrValues(name), " "))
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
