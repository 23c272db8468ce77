package dto

import (
	"geo-photo-game/internal/domain"

	"github.com/goccy/go-json"
)

type AreaResponse struct {
	Coords []domain.Coordinates `json:"coords"`
	Name   string               `json:"name"`
}

func NewAreaResponse(a domain.Area) AreaResponse {
	coords := a.Coords
	if coords == nil {
		coords = []domain.Coordinates{}
	}
	return AreaResponse{Coords: coords, Name: a.Name}
}

// Area stays raw so a malformed vertex reads as a bad territory rather
// than a bad request body.
type CreateAreaRequest struct {
	Area json.RawMessage `json:"area"`
	Name string          `json:"name"`
}

func (r CreateAreaRequest) Vertices() ([]domain.Coordinates, error) {
	var coords []domain.Coordinates
	if len(r.Area) == 0 {
		return coords, nil
	}
	if err := json.Unmarshal(r.Area, &coords); err != nil {
		return nil, err
	}
	return coords, nil
}

type RenameAreaRequest struct {
	Name string `json:"name"`
}
