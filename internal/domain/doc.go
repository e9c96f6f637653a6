// Package domain flattens National Weather Service (NWS) DWML forecasts.
//
// # Data Source
//
// DWML (Digital Weather Markup Language) is served by the NWS point forecast
// endpoint, e.g.
// https://forecast.weather.gov/MapClick.php?lat=41.94&lon=-72.685&unit=0&lg=english&FcstType=digitalDWML.
// One document describes a single forecast point.
//
// # DWML Conventions
//
// Time layouts:
//
//	<time-layout>
//	  <layout-key>k-p1h-n1-0</layout-key>
//	  <start-valid-time>2025-08-20T08:00:00-04:00</start-valid-time>
//	  ...
//	</time-layout>
//
//	A document holds several layouts. Each is a named sequence of
//	offset-qualified instants; they are normalized to UTC on read.
//
// Parameters:
//
//	<parameters applicable-location="point1">
//	  <temperature type="hourly" units="Fahrenheit" time-layout="k-p1h-n1-0">
//	    <value>71</value>
//	    ...
//
//	Each child of <parameters> is one series. Its column name is the tag,
//	suffixed with the type attribute when present ("temperature_hourly").
//	Values pair positionally with the referenced layout; lengths may differ
//	and the longer side is truncated. Empty, nil, "NA", and non-numeric
//	values are missing.
//
// Weather conditions:
//
//	<weather time-layout="k-p1h-n1-0">
//	  <weather-conditions>
//	    <value coverage="chance" intensity="light" weather-type="rain showers"/>
//	    <value additive="and" coverage="chance" weather-type="thunderstorms"/>
//	  </weather-conditions>
//	  <weather-conditions/>
//
//	Each <weather-conditions> is matched by keyword against its weather-type,
//	intensity, coverage, and additive attributes:
//
//	  rain:    rain | shower | drizzle
//	  thunder: thunder | tstm | tstorm
//	  fog:     fog | mist
//
// # Output
//
// The flattened [Table] has one row per instant in the union of every
// contributing series, ascending. Leading columns are scrape_time_utc,
// location_lat, location_lon, and forecast_time_utc, followed by value
// columns in assembly order with friendly names applied (see [FriendlyName]).
package domain
