package domain

import (
	"bytes"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// Geographic point in degrees (latitude, longitude).
// On the wire a point is a two element array [lat, lng]; map clients may
// also send Leaflet style {"lat": .., "lng": ..} objects.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lat, lng] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lng} }

func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lng) &&
		!math.IsInf(c.Lat, 0) && !math.IsInf(c.Lng, 0)
}

func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.CoordsToList())
}

func (c *Coordinates) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("coordinates: %w", err)
		}
		if obj.Lat == nil || obj.Lng == nil {
			return fmt.Errorf("coordinates: object needs lat and lng: %w", ErrInvalidFormat)
		}
		c.Lat, c.Lng = *obj.Lat, *obj.Lng
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("coordinates: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinates: want [lat, lng], got %d values: %w", len(pair), ErrInvalidFormat)
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}
