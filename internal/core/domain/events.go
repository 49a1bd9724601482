package domain

// Frame types pushed to map clients.
const (
	FrameRender = "render"
	FrameView   = "view"
)

// RenderedMarker is one marker as the map draws it.
type RenderedMarker struct {
	Index   int               `json:"index"`
	Point   GeoPoint          `json:"point"`
	Display DisplayCoordinate `json:"display"`
	Label   string            `json:"label"`
}

// RenderFrame replaces every marker the client shows.
type RenderFrame struct {
	Type      string           `json:"type"`
	SessionID string           `json:"session_id"`
	Markers   []RenderedMarker `json:"markers"`
}

// ViewFrame moves the client's viewport.
type ViewFrame struct {
	Type       string            `json:"type"`
	SessionID  string            `json:"session_id"`
	Center     GeoPoint          `json:"center"`
	Display    DisplayCoordinate `json:"display"`
	Zoom       float64           `json:"zoom"`
	Animated   bool              `json:"animated"`
	DurationMS int               `json:"duration_ms,omitempty"`
}
