package telemetry

// Span names.
const (
	SpanSubmitMarker = "marker.submit"
	SpanRender       = "map.render"
	SpanRecenter     = "map.recenter"
	SpanMapClick     = "map.click"
)
