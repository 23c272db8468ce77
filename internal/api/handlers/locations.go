package handlers

import (
	"geo-photo-game/internal/api/dto"
	"geo-photo-game/internal/services"
	"net/http"
)

type LocationHandler struct {
	Locations *services.LocationService
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Locations.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list locations", err)
		return
	}

	res := make([]dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		res = append(res, dto.NewLocationResponse(l))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	idx, ok := parseIndex(r)
	if !ok {
		writeInvalidIndex(w, r)
		return
	}

	var req dto.UpdateLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	lat, err := req.Lat.Float()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid coordinates")
		return
	}
	lng, err := req.Lng.Float()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid coordinates")
		return
	}

	if err := h.Locations.Update(r.Context(), idx, lat, lng); err != nil {
		writeServiceError(w, r, "update location", err)
		return
	}
	writeSuccess(w, r)
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idx, ok := parseIndex(r)
	if !ok {
		writeInvalidIndex(w, r)
		return
	}

	if _, err := h.Locations.Delete(r.Context(), idx); err != nil {
		writeServiceError(w, r, "delete location", err)
		return
	}
	writeSuccess(w, r)
}
