package domain

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Minimum number of vertices of a territory polygon.
const MinTerritoryPoints = 3

// Named polygon territory. Coords is the ordered vertex list.
//
// Older documents store a territory as a bare list of [lat, lng] pairs.
// Such entries decode with Legacy set and are written back in the same
// bare form until they are renamed.
type Area struct {
	Coords []Coordinates
	Name   string
	Legacy bool
}

type areaObject struct {
	Coords []Coordinates `json:"coords"`
	Name   string        `json:"name"`
}

// Default display name for the territory at the given zero-based position.
func DefaultAreaName(index int) string {
	return fmt.Sprintf("Territory %d", index+1)
}

func (a Area) MarshalJSON() ([]byte, error) {
	coords := a.Coords
	if coords == nil {
		coords = []Coordinates{}
	}
	if a.Legacy {
		return json.Marshal(coords)
	}
	return json.Marshal(areaObject{Coords: coords, Name: a.Name})
}

func (a *Area) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var coords []Coordinates
		if err := json.Unmarshal(b, &coords); err != nil {
			return fmt.Errorf("area: legacy list: %w", err)
		}
		*a = Area{Coords: coords, Legacy: true}
		return nil
	}

	var obj areaObject
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("area: %w", err)
	}
	*a = Area{Coords: obj.Coords, Name: obj.Name}
	return nil
}
