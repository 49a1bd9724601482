package domain

// MarkerStore is the ordered list of committed points. Insertion order is
// display order and duplicates are allowed.
type MarkerStore struct {
	points []GeoPoint
}

// Append adds p at the end.
func (s *MarkerStore) Append(p GeoPoint) {
	s.points = append(s.points, p)
}

// Len returns the number of markers.
func (s *MarkerStore) Len() int { return len(s.points) }

// Last returns the newest marker.
func (s *MarkerStore) Last() (GeoPoint, bool) {
	if len(s.points) == 0 {
		return GeoPoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// All returns a copy of the markers in insertion order.
func (s *MarkerStore) All() []GeoPoint {
	out := make([]GeoPoint, len(s.points))
	copy(out, s.points)
	return out
}

// MarkerEntry is a listed marker with its display labels.
type MarkerEntry struct {
	Index int      `json:"index"`
	Point GeoPoint `json:"point"`
	Lat   string   `json:"lat_dms"`
	Lon   string   `json:"lon_dms"`
	// DistanceM is the great-circle distance from the previous marker.
	DistanceM *float64 `json:"distance_m,omitempty"`
}

// Entries lists every marker in order.
func (s *MarkerStore) Entries() []MarkerEntry {
	out := make([]MarkerEntry, len(s.points))
	for i, p := range s.points {
		lat, lon := p.DMS()
		out[i] = MarkerEntry{Index: i, Point: p, Lat: lat.String(), Lon: lon.String()}
		if i > 0 {
			d := s.points[i-1].DistanceTo(p)
			out[i].DistanceM = &d
		}
	}
	return out
}
