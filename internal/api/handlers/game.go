package handlers

import (
	"errors"
	"geo-photo-game/internal/api/dto"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/platform/metrics"
	"geo-photo-game/internal/services"
	"net/http"
	"strconv"
)

type GameHandler struct {
	Game *services.GameService
}

// Rounds returns a shuffled selection of locations. ?limit=n narrows it;
// ?order=tour orders the selection as a short walk.
func (h *GameHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	var (
		rounds []services.Round
		err    error
	)
	if q.Get("order") == "tour" {
		rounds, _, err = h.Game.Tour(r.Context(), limit)
	} else {
		rounds, err = h.Game.Rounds(r.Context(), limit)
	}
	if err != nil {
		writeServiceError(w, r, "game rounds", err)
		return
	}

	res := make([]dto.RoundResponse, 0, len(rounds))
	for _, rd := range rounds {
		res = append(res, dto.RoundResponse{
			Index: rd.Index,
			Lat:   rd.Location.Lat,
			Lng:   rd.Location.Lng,
			Image: rd.Location.Image,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req dto.GuessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := validate.Struct(req); err != nil || !req.Lat.Set() || !req.Lng.Set() {
		writeError(w, r, http.StatusBadRequest, "missing data")
		return
	}

	lat, latErr := req.Lat.Float()
	lng, lngErr := req.Lng.Float()
	if latErr != nil || lngErr != nil {
		writeError(w, r, http.StatusBadRequest, "invalid coordinates")
		return
	}

	res, err := h.Game.Guess(r.Context(), *req.Location, domain.Coordinates{Lat: lat, Lng: lng})
	if err != nil {
		if errors.Is(err, domain.ErrOutsideTerritory) {
			metrics.GuessesTotal.WithLabelValues("outside").Inc()
		}
		writeServiceError(w, r, "guess", err)
		return
	}
	metrics.GuessesTotal.WithLabelValues("scored").Inc()

	out := dto.GuessResponse{
		Success:        true,
		DistanceMeters: res.DistanceMeters,
		Points:         res.Points,
		Actual:         dto.NewLocationResponse(res.Actual),
	}
	if res.Territory >= 0 {
		t := res.Territory
		out.Territory = &t
	}
	writeJSON(w, r, http.StatusOK, out)
}
