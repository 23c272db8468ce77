package handlers

import (
	"geo-photo-game/internal/ports"
	"net/http"
)

// DocumentHandler serves the stored areas + locations document the way
// the game client fetches it.
type DocumentHandler struct {
	Docs ports.DocumentRepository
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Docs.LoadDocument(r.Context())
	if err != nil {
		writeServiceError(w, r, "load document", err)
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}
