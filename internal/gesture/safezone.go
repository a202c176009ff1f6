package gesture

// SafeZone is an axis-aligned rectangle in normalized screen coordinates.
// Gestures outside it are ignored, cutting accidental triggers near frame
// edges where detection is least reliable.
type SafeZone struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// DefaultSafeZone covers the central 60% of the frame on both axes.
func DefaultSafeZone() SafeZone {
	return SafeZone{XMin: 0.2, XMax: 0.8, YMin: 0.2, YMax: 0.8}
}

// Contains reports whether the point lies inside the zone, borders included.
func (z SafeZone) Contains(x, y float64) bool {
	return z.XMin <= x && x <= z.XMax && z.YMin <= y && y <= z.YMax
}
