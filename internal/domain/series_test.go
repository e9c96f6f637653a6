package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"empty", "", nil},
		{"NA", "NA", nil},
		{"whitespace only", "   ", nil},
		{"decimal", "42.5", f64(42.5)},
		{"integer", "71", f64(71)},
		{"negative", "-3", f64(-3)},
		{"padded", " 18 ", f64(18)},
		{"non-numeric", "calm", nil},
		{"nan", "NaN", nil},
		{"lowercase na", "na", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceValue(tt.in))
		})
	}
}

func TestCoerceValue_Infinity(t *testing.T) {
	v := CoerceValue("inf")
	require.NotNil(t, v)
	assert.True(t, math.IsInf(*v, 1))
}

func TestResolveTimeLayouts(t *testing.T) {
	doc, err := ParseDocument(dwml(
		`<time-layout><layout-key>k1</layout-key>`+
			`<start-valid-time>2025-08-20T10:00:00-04:00</start-valid-time>`+
			`<start-valid-time>2025-08-20T09:00:00-04:00</start-valid-time>`+
			`</time-layout>`+
			`<time-layout><layout-key>empty</layout-key></time-layout>`,
		"",
	))
	require.NoError(t, err)

	layouts, err := ResolveTimeLayouts(doc)
	require.NoError(t, err)

	// Document order, normalized to UTC.
	assert.Equal(t, []time.Time{hourUTC(14), hourUTC(13)}, layouts["k1"])
	for _, ts := range layouts["k1"] {
		assert.Equal(t, time.UTC, ts.Location())
	}
	assert.Empty(t, layouts["empty"])
	assert.Contains(t, layouts, "empty")
}

func TestResolveTimeLayouts_AcceptedShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"rfc3339", "2025-08-20T10:00:00-04:00"},
		{"fractional seconds", "2025-08-20T10:00:00.000-04:00"},
		{"compact offset", "2025-08-20T10:00:00-0400"},
		{"no seconds", "2025-08-20T10:00-04:00"},
		{"space separated", "2025-08-20 10:00:00-04:00"},
		{"space separated compact offset", "2025-08-20 10:00:00-0400"},
		{"space separated utc", "2025-08-20 14:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument(dwml(
				`<time-layout><layout-key>k1</layout-key><start-valid-time>`+tt.in+`</start-valid-time></time-layout>`,
				"",
			))
			require.NoError(t, err)

			layouts, err := ResolveTimeLayouts(doc)
			require.NoError(t, err)
			assert.Equal(t, []time.Time{hourUTC(14)}, layouts["k1"])
		})
	}
}

func TestResolveTimeLayouts_NaiveTimestampRejected(t *testing.T) {
	doc, err := ParseDocument(dwml(
		`<time-layout><layout-key>k1</layout-key><start-valid-time>2025-08-20 10:00:00</start-valid-time></time-layout>`,
		"",
	))
	require.NoError(t, err)

	_, err = ResolveTimeLayouts(doc)
	assert.ErrorIs(t, err, ErrParse)
}

func TestResolveTimeLayouts_DuplicateKeyLaterWins(t *testing.T) {
	doc, err := ParseDocument(dwml(layoutXML("k1", hourUTC(0))+layoutXML("k1", hourUTC(5), hourUTC(6)), ""))
	require.NoError(t, err)

	layouts, err := ResolveTimeLayouts(doc)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{hourUTC(5), hourUTC(6)}, layouts["k1"])
}

func TestExtractParameterSeries(t *testing.T) {
	doc, err := ParseDocument(dwml(
		layoutXML("k1", hourUTC(0), hourUTC(1)),
		valuesXML("temperature", "hourly", "k1", "50", "")+
			valuesXML("cig", "", "k1", "1200")+
			`<conditions-icon time-layout="k1"><value>x</value></conditions-icon>`+
			`<weather time-layout="k1"><value>1</value></weather>`+
			`<wordedForecast time-layout="k1"><text>Sunny</text></wordedForecast>`,
	))
	require.NoError(t, err)
	layouts, err := ResolveTimeLayouts(doc)
	require.NoError(t, err)

	series := ExtractParameterSeries(doc, layouts)
	require.Len(t, series, 2)

	assert.Equal(t, "temperature_hourly", series[0].Name)
	assert.Equal(t, []time.Time{hourUTC(0), hourUTC(1)}, series[0].Times)
	assert.Equal(t, []*float64{f64(50), nil}, series[0].Values)

	assert.Equal(t, "cig", series[1].Name)
	assert.Equal(t, 1, series[1].Len())
}

func TestExtractWeatherFlags_NoBlock(t *testing.T) {
	doc, err := ParseDocument(dwml(layoutXML("k1", hourUTC(0)), valuesXML("cig", "", "k1", "1")))
	require.NoError(t, err)
	layouts, err := ResolveTimeLayouts(doc)
	require.NoError(t, err)

	flags := ExtractWeatherFlags(doc, layouts)
	assert.Equal(t, 0, flags.Len())
}

func TestExtractWeatherFlags_Keywords(t *testing.T) {
	tests := []struct {
		attrs              string
		rain, thunder, fog bool
	}{
		{`weather-type="drizzle"`, true, false, false},
		{`weather-type="showers"`, true, false, false},
		{`weather-type="TSTM"`, false, true, false},
		{`weather-type="tstorms"`, false, true, false},
		{`weather-type="mist"`, false, false, true},
		{`weather-type="snow" coverage="likely"`, false, false, false},
		{`intensity="heavy" weather-type="rain" additive="and fog"`, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.attrs, func(t *testing.T) {
			doc, err := ParseDocument(dwml(
				layoutXML("k1", hourUTC(0)),
				`<weather time-layout="k1"><weather-conditions><value `+tt.attrs+`/></weather-conditions></weather>`,
			))
			require.NoError(t, err)
			layouts, err := ResolveTimeLayouts(doc)
			require.NoError(t, err)

			flags := ExtractWeatherFlags(doc, layouts)
			require.Equal(t, 1, flags.Len())
			assert.Equal(t, tt.rain, flags.Rain[0], "rain")
			assert.Equal(t, tt.thunder, flags.Thunder[0], "thunder")
			assert.Equal(t, tt.fog, flags.Fog[0], "fog")
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{71, "71.0"},
		{-3, "-3.0"},
		{42.5, "42.5"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e-7, "1e-07"},
		{1.5e-7, "1.5e-07"},
		{9999999999999998, "9999999999999998.0"},
		{1e16, "1e+16"},
		{1e20, "1e+20"},
		{-2.5e20, "-2.5e+20"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFloat(tt.in))
		})
	}
}

func TestUnionTimeline(t *testing.T) {
	a := []time.Time{hourUTC(3), hourUTC(1)}
	b := []time.Time{hourUTC(2), hourUTC(3)}
	eastern := time.FixedZone("EDT", -4*3600)
	c := []time.Time{hourUTC(2).In(eastern)}

	got := UnionTimeline(a, b, c)
	assert.Equal(t, []time.Time{hourUTC(1), hourUTC(2), hourUTC(3)}, got)

	assert.Equal(t, UnionTimeline(b, a), UnionTimeline(a, b), "commutative")
	assert.Equal(t, UnionTimeline(a), UnionTimeline(a, a), "idempotent")
	assert.Empty(t, UnionTimeline())
}

func TestFriendlyName(t *testing.T) {
	assert.Equal(t, "temp_F", FriendlyName("temperature_hourly"))
	assert.Equal(t, "pressure_hPa", FriendlyName("pressure_sea-level"))
	assert.Equal(t, "wind_dir_deg", FriendlyName("direction"))
	assert.Equal(t, "hourly-qpf_floating", FriendlyName("hourly-qpf_floating"))
}

func TestRunStampAndKeys(t *testing.T) {
	stamp := RunStamp(time.Date(2025, time.August, 20, 8, 3, 9, 0, time.FixedZone("EDT", -4*3600)))
	assert.Equal(t, "20250820T120309Z", stamp)
	assert.Equal(t, "nws_raw/dwml_20250820T120309Z.xml", RawObjectKey("nws_raw/", stamp))
	assert.Equal(t, "nws_flat/flat_20250820T120309Z.csv", CSVObjectKey("nws_flat/", stamp))
}

func TestScrapeInstant(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.August, 20, 12, 31, 5, 999_000_000, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, testScrapeTime, ScrapeInstant())
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "fetch", ErrorKind(ErrFetch))
	assert.Equal(t, "parse", ErrorKind(ErrParse))
	assert.Equal(t, "upload", ErrorKind(ErrUpload))
	assert.Equal(t, "internal", ErrorKind(assert.AnError))
}
