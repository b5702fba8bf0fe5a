package geo

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// Point is a geographic coordinate. Longitude comes first on the wire
// (GeoJSON order), but callers always address the fields by name so the
// order can never be swapped silently.
type Point struct {
	Longitude float64 `json:"longitude" db:"longitude"`
	Latitude  float64 `json:"latitude" db:"latitude"`
}

// Validate checks the point lies inside the valid coordinate ranges.
func (p Point) Validate() error {
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", p.Longitude)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", p.Latitude)
	}
	return nil
}

// Distance returns the great-circle distance between two points in meters,
// computed with the haversine formula.
func Distance(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Polygon is a closed ring of vertices. The closing edge from the last
// vertex back to the first is implicit.
type Polygon []Point

// NewPolygon validates and builds a polygon from a vertex list. At least
// three vertices are required; a trailing vertex equal to the first is
// dropped so both open and explicitly closed rings are accepted.
func NewPolygon(vertices []Point) (Polygon, error) {
	if len(vertices) > 1 && vertices[0] == vertices[len(vertices)-1] {
		vertices = vertices[:len(vertices)-1]
	}
	if len(vertices) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(vertices))
	}
	for i, v := range vertices {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	return Polygon(vertices), nil
}

// Contains reports whether p lies inside the polygon, using the ray-casting
// algorithm on the planar lng/lat projection. Points exactly on an edge may
// fall on either side.
func (poly Polygon) Contains(p Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := poly[i], poly[j]
		if (vi.Latitude > p.Latitude) != (vj.Latitude > p.Latitude) {
			cross := (vj.Longitude-vi.Longitude)*(p.Latitude-vi.Latitude)/
				(vj.Latitude-vi.Latitude) + vi.Longitude
			if p.Longitude < cross {
				inside = !inside
			}
		}
	}
	return inside
}
