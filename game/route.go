package game

// RouteMarker is one recorded sample of a movement route: where the
// player was, when, and how healthy they were at that point.
type RouteMarker struct {
	Location Vec3    `json:"location"`
	Time     float64 `json:"time"`
	Health   float64 `json:"health"`
}

// RouteTrail is a recorded, ordered movement path a bot can play back.
// GrabTime marks when the recording player picked up the flag, relative
// to the start of the recording.
type RouteTrail struct {
	Name string `json:"name"`
	Team int    `json:"team"`

	// GrabTime is seconds into the route at which the flag grab happens.
	GrabTime float64 `json:"grab_time"`

	// MarkerInterval is the recording cadence in seconds. Modulus is
	// the down-sampling factor applied when the trail was stored at low
	// precision; full-precision trails use 1.
	MarkerInterval float64 `json:"marker_interval"`
	Modulus        int     `json:"modulus"`

	Markers []RouteMarker `json:"markers"`
}

// GrabMarkerIndex returns the marker index at which the recorded flag
// grab happens.
func (rt RouteTrail) GrabMarkerIndex() int {
	if rt.MarkerInterval <= 0 || rt.Modulus <= 0 {
		return 0
	}
	return int(rt.GrabTime / rt.MarkerInterval / float64(rt.Modulus))
}

// MarkerIndexAtTime returns the marker index corresponding to a time
// offset into the route.
func (rt RouteTrail) MarkerIndexAtTime(seconds float64) int {
	if rt.MarkerInterval <= 0 || rt.Modulus <= 0 {
		return 0
	}
	return int(seconds / rt.MarkerInterval / float64(rt.Modulus))
}

// Start returns the first recorded position, or the zero vector for an
// empty trail.
func (rt RouteTrail) Start() Vec3 {
	if len(rt.Markers) == 0 {
		return Vec3{}
	}
	return rt.Markers[0].Location
}
