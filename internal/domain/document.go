package domain

import (
	"fmt"
	"strings"
)

// The combined areas + locations document. It is loaded whole and
// rewritten whole on every mutation; entities are addressed by position.
type Document struct {
	Areas     []Area     `json:"areas"`
	Locations []Location `json:"locations"`
}

func NewDocument() *Document {
	return &Document{Areas: []Area{}, Locations: []Location{}}
}

// Normalize fills missing collections and resolves unnamed territories to
// their positional default name. It runs once after a document is loaded.
func (d *Document) Normalize() {
	if d.Areas == nil {
		d.Areas = []Area{}
	}
	if d.Locations == nil {
		d.Locations = []Location{}
	}
	for i := range d.Areas {
		if d.Areas[i].Name == "" {
			d.Areas[i].Name = DefaultAreaName(i)
		}
	}
}

// Append loc unless an identical (lat, lng, image) record exists.
// Reports whether the document changed.
func (d *Document) AddLocation(loc Location) bool {
	for _, existing := range d.Locations {
		if existing.Same(loc) {
			return false
		}
	}
	d.Locations = append(d.Locations, loc)
	return true
}

func (d *Document) UpdateLocation(index int, lat, lng float64) error {
	if index < 0 || index >= len(d.Locations) {
		return fmt.Errorf("update location %d: %w", index, ErrInvalidIndex)
	}
	c := Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return fmt.Errorf("update location %d: %w", index, ErrInvalidFormat)
	}
	d.Locations[index].Lat = lat
	d.Locations[index].Lng = lng
	return nil
}

// Remove and return the location at index.
func (d *Document) RemoveLocation(index int) (Location, error) {
	if index < 0 || index >= len(d.Locations) {
		return Location{}, fmt.Errorf("remove location %d: %w", index, ErrInvalidIndex)
	}
	removed := d.Locations[index]
	d.Locations = append(d.Locations[:index], d.Locations[index+1:]...)
	return removed, nil
}

// Append a new territory. An empty name gets the positional default.
func (d *Document) AddArea(coords []Coordinates, name string) (Area, error) {
	if len(coords) < MinTerritoryPoints {
		return Area{}, fmt.Errorf("add area: %d points, need at least %d: %w",
			len(coords), MinTerritoryPoints, ErrInvalidTerritory)
	}
	for i, c := range coords {
		if !c.Valid() {
			return Area{}, fmt.Errorf("add area: point %d: %w", i, ErrInvalidTerritory)
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultAreaName(len(d.Areas))
	}

	area := Area{Coords: append([]Coordinates(nil), coords...), Name: name}
	d.Areas = append(d.Areas, area)
	return area, nil
}

// Rename the territory at index. A legacy entry becomes a named object.
func (d *Document) RenameArea(index int, name string) error {
	if index < 0 || index >= len(d.Areas) {
		return fmt.Errorf("rename area %d: %w", index, ErrInvalidIndex)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename area %d: name: %w", index, ErrMissingField)
	}
	d.Areas[index].Name = name
	d.Areas[index].Legacy = false
	return nil
}

func (d *Document) RemoveArea(index int) error {
	if index < 0 || index >= len(d.Areas) {
		return fmt.Errorf("remove area %d: %w", index, ErrInvalidIndex)
	}
	d.Areas = append(d.Areas[:index], d.Areas[index+1:]...)
	return nil
}
