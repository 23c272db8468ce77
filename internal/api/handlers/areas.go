package handlers

import (
	"geo-photo-game/internal/api/dto"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/services"
	"net/http"
)

type AreaHandler struct {
	Areas *services.AreaService
}

func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request) {
	areas, err := h.Areas.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list areas", err)
		return
	}

	res := make([]dto.AreaResponse, 0, len(areas))
	for _, a := range areas {
		res = append(res, dto.NewAreaResponse(a))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *AreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAreaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	coords, err := req.Vertices()
	if err != nil || validate.Var(coords, "min=3") != nil {
		writeServiceError(w, r, "create area", domain.ErrInvalidTerritory)
		return
	}

	if _, err := h.Areas.Create(r.Context(), coords, req.Name); err != nil {
		writeServiceError(w, r, "create area", err)
		return
	}
	writeSuccess(w, r)
}

func (h *AreaHandler) Rename(w http.ResponseWriter, r *http.Request) {
	idx, ok := parseIndex(r)
	if !ok {
		writeInvalidIndex(w, r)
		return
	}

	var req dto.RenameAreaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.Areas.Rename(r.Context(), idx, req.Name); err != nil {
		writeServiceError(w, r, "rename area", err)
		return
	}
	writeSuccess(w, r)
}

func (h *AreaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idx, ok := parseIndex(r)
	if !ok {
		writeInvalidIndex(w, r)
		return
	}

	if err := h.Areas.Delete(r.Context(), idx); err != nil {
		writeServiceError(w, r, "delete area", err)
		return
	}
	writeSuccess(w, r)
}
