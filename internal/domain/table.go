package domain

import (
	"fmt"
	"time"
)

// Leading columns present in every table, in output order.
const (
	ColScrapeTime   = "scrape_time_utc"
	ColLat          = "location_lat"
	ColLon          = "location_lon"
	ColForecastTime = "forecast_time_utc"

	ColWeatherRain    = "weather_rain"
	ColWeatherThunder = "weather_thunder"
	ColWeatherFog     = "weather_fog"
)

// friendlyNames maps element-derived column names to stable output names.
var friendlyNames = map[string]string{
	"temperature_hourly":           "temp_F",
	"temperature_apparent":         "heat_index_F",
	"dewpoint_hourly":              "dewpoint_F",
	"wind-speed_sustained":         "wind_speed_mph",
	"wind-speed_gust":              "wind_gust_mph",
	"direction":                    "wind_dir_deg",
	"probability-of-precipitation": "pop_pct",
	"cloud-amount":                 "sky_cover_pct",
	"humidity_relative":            "rh_pct",
	"pressure_sea-level":           "pressure_hPa",
	"visibility":                   "visibility_mi",
	"cig":                          "ceiling_ft",
}

// FriendlyName returns the output name for a derived column name.
// Unmapped names pass through unchanged.
func FriendlyName(name string) string {
	if friendly, ok := friendlyNames[name]; ok {
		return friendly
	}
	return name
}

// ColumnKind distinguishes numeric value columns from boolean flag columns.
type ColumnKind int

const (
	NumericColumn ColumnKind = iota
	FlagColumn
)

// Column is one value column aligned to the table's forecast times.
// Exactly one of Numbers or Flags is populated, according to Kind.
// Nil entries are missing values.
type Column struct {
	Name    string
	Kind    ColumnKind
	Numbers []*float64
	Flags   []*bool
}

// RunMeta carries the per-run constants stamped onto every row.
type RunMeta struct {
	ScrapeTime time.Time
	Lat        float64
	Lon        float64
}

// Table is the flattened forecast: one row per forecast time, ascending.
type Table struct {
	RunMeta
	ForecastTimes []time.Time
	Columns       []Column
}

// FlatRow is a single row of a Table.
type FlatRow struct {
	ScrapeTime   time.Time
	Lat          float64
	Lon          float64
	ForecastTime time.Time
	Numbers      map[string]*float64
	Flags        map[string]*bool
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.ForecastTimes) }

// Header returns the column names in output order.
func (t *Table) Header() []string {
	header := []string{ColScrapeTime, ColLat, ColLon, ColForecastTime}
	for _, c := range t.Columns {
		header = append(header, c.Name)
	}
	return header
}

// Column looks up a value column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Rows materializes the table row by row.
func (t *Table) Rows() []FlatRow {
	rows := make([]FlatRow, t.Len())
	for i, ft := range t.ForecastTimes {
		row := FlatRow{
			ScrapeTime:   t.ScrapeTime,
			Lat:          t.Lat,
			Lon:          t.Lon,
			ForecastTime: ft,
			Numbers:      make(map[string]*float64),
			Flags:        make(map[string]*bool),
		}
		for _, c := range t.Columns {
			switch c.Kind {
			case NumericColumn:
				row.Numbers[c.Name] = c.Numbers[i]
			case FlagColumn:
				row.Flags[c.Name] = c.Flags[i]
			}
		}
		rows[i] = row
	}
	return rows
}

// columnSet is an insertion-ordered set of columns where re-inserting a name
// replaces the earlier column in place rather than merging with it.
type columnSet struct {
	cols  []Column
	index map[string]int
}

func newColumnSet() *columnSet {
	return &columnSet{index: make(map[string]int)}
}

func (s *columnSet) set(c Column) {
	if i, ok := s.index[c.Name]; ok {
		s.cols[i] = c
		return
	}
	s.index[c.Name] = len(s.cols)
	s.cols = append(s.cols, c)
}

// AssembleTable combines numeric series and weather flags into a wide table
// indexed by the union of all their timestamps.
//
// Series are assigned in order; a repeated name replaces the earlier column.
// Flag columns are attached only when flags is non-empty. Friendly names are
// applied last. Returns ErrNoTimestamps when nothing contributes a timestamp.
func AssembleTable(series []NumericSeries, flags WeatherFlags, meta RunMeta) (*Table, error) {
	sets := make([][]time.Time, 0, len(series)+1)
	for _, s := range series {
		sets = append(sets, s.Times)
	}
	if flags.Len() > 0 {
		sets = append(sets, flags.Times)
	}
	timeline := UnionTimeline(sets...)
	if len(timeline) == 0 {
		return nil, ErrNoTimestamps
	}
	idx := timelineIndex(timeline)

	cols := newColumnSet()
	for _, s := range series {
		cols.set(Column{
			Name:    s.Name,
			Kind:    NumericColumn,
			Numbers: reindex(timeline, idx, s.Times, s.Values),
		})
	}
	if flags.Len() > 0 {
		for _, f := range []struct {
			name   string
			values []bool
		}{
			{ColWeatherRain, flags.Rain},
			{ColWeatherThunder, flags.Thunder},
			{ColWeatherFog, flags.Fog},
		} {
			cols.set(Column{
				Name:  f.name,
				Kind:  FlagColumn,
				Flags: reindex(timeline, idx, flags.Times, boolPtrs(f.values)),
			})
		}
	}

	for i := range cols.cols {
		cols.cols[i].Name = FriendlyName(cols.cols[i].Name)
	}

	// Rows follow the timeline, which UnionTimeline returns ascending and unique.
	return &Table{
		RunMeta: RunMeta{
			ScrapeTime: meta.ScrapeTime.UTC(),
			Lat:        meta.Lat,
			Lon:        meta.Lon,
		},
		ForecastTimes: timeline,
		Columns:       cols.cols,
	}, nil
}

// Flatten parses a DWML document and assembles its wide table.
func Flatten(data []byte, meta RunMeta) (*Table, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	layouts, err := ResolveTimeLayouts(doc)
	if err != nil {
		return nil, err
	}
	series := ExtractParameterSeries(doc, layouts)
	flags := ExtractWeatherFlags(doc, layouts)

	table, err := AssembleTable(series, flags, meta)
	if err != nil {
		return nil, fmt.Errorf("flatten dwml: %w", err)
	}
	return table, nil
}
