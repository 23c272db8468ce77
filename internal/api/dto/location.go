package dto

import "geo-photo-game/internal/domain"

type LocationResponse struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Image string  `json:"image"`
}

func NewLocationResponse(l domain.Location) LocationResponse {
	return LocationResponse{Lat: l.Lat, Lng: l.Lng, Image: l.Image}
}

type UpdateLocationRequest struct {
	Lat Number `json:"lat"`
	Lng Number `json:"lng"`
}
