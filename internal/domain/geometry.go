package domain

import "math"

// Report whether p lies inside polygon using ray casting on the
// (lng, lat) plane. Points exactly on an edge may land on either side.
func PolygonContains(polygon []Coordinates, p Coordinates) bool {
	if len(polygon) < MinTerritoryPoints {
		return false
	}

	inside := false
	x, y := p.Lng, p.Lat
	for i, j := 0, len(polygon)-1; i < len(polygon); j, i = i, i+1 {
		xi, yi := polygon[i].Lng, polygon[i].Lat
		xj, yj := polygon[j].Lng, polygon[j].Lat

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// Smallest lat/lng box enclosing polygon.
func PolygonBounds(polygon []Coordinates) (min, max Coordinates) {
	min = Coordinates{Lat: math.Inf(1), Lng: math.Inf(1)}
	max = Coordinates{Lat: math.Inf(-1), Lng: math.Inf(-1)}
	for _, c := range polygon {
		min.Lat = math.Min(min.Lat, c.Lat)
		min.Lng = math.Min(min.Lng, c.Lng)
		max.Lat = math.Max(max.Lat, c.Lat)
		max.Lng = math.Max(max.Lng, c.Lng)
	}
	return min, max
}
