package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span names.
const (
	SpanFindFuelStations = "fuel.find_stations"
	SpanSampleQuery      = "fuel.sample_query"
	SpanOptimizeStops    = "optimizer.optimize_stop_order"
	SpanLLMReorder       = "optimizer.llm_reorder"
	SpanCalculateRoute   = "route.calculate"
	SpanSaveOptimization = "optimization.save"
)

// Attribute keys.
const (
	AttrStopCount     = attribute.Key("fuelroute.stop_count")
	AttrSampleCount   = attribute.Key("fuelroute.sample_count")
	AttrSampleIndex   = attribute.Key("fuelroute.sample_index")
	AttrStationCount  = attribute.Key("fuelroute.station_count")
	AttrWaypointCount = attribute.Key("fuelroute.waypoint_count")
	AttrStrategy      = attribute.Key("fuelroute.strategy")
)
