package handlers

import (
	"geo-photo-game/internal/api/dto"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/services"
	"net/http"
	"strings"
)

type ScoreHandler struct {
	Scores *services.ScoreService
}

func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	board, err := h.Scores.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list scores", err)
		return
	}

	res := make([]dto.ScoreResponse, 0, len(board))
	for _, s := range board {
		res = append(res, dto.ScoreResponse{Name: s.Name, Score: s.Score})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ScoreHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil || !req.Score.Set() {
		writeError(w, r, http.StatusBadRequest, "missing data")
		return
	}

	score, err := req.Score.Int()
	if err != nil {
		writeServiceError(w, r, "upsert score", domain.ErrInvalidFormat)
		return
	}

	place, err := h.Scores.Upsert(r.Context(), req.Name, score)
	if err != nil {
		writeServiceError(w, r, "upsert score", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.UpsertScoreResponse{Success: true, Place: place})
}
