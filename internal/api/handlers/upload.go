package handlers

import (
	"errors"
	"geo-photo-game/internal/api/dto"
	"geo-photo-game/internal/platform/metrics"
	"geo-photo-game/internal/services"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Memory kept for multipart parts before they spill to temp files.
const multipartMemory = 8 << 20

type UploadHandler struct {
	Uploads *services.UploadService
	// Largest accepted request body in bytes.
	MaxBytes int64
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "missing photo file")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "missing photo file")
		return
	}
	defer file.Close()

	lat, lng := r.FormValue("lat"), r.FormValue("lng")
	if lat == "" || lng == "" {
		writeError(w, r, http.StatusBadRequest, "missing coordinates")
		return
	}

	res, err := h.Uploads.Upload(r.Context(), services.UploadRequest{
		Filename: header.Filename,
		Content:  file,
		Lat:      lat,
		Lng:      lng,
	})
	if err != nil {
		writeServiceError(w, r, "upload", err)
		return
	}

	metrics.UploadedPhotosTotal.Inc()
	zerolog.Ctx(r.Context()).Info().
		Str("filename", res.Filename).
		Bool("added", res.Added).
		Msg("photo uploaded")

	writeJSON(w, r, http.StatusOK, dto.UploadResponse{Success: true, Filename: res.Filename})
}

// ImageHandler serves stored photos by file name.
type ImageHandler struct {
	Dir string
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		http.NotFound(w, r)
		return
	}

	full := filepath.Join(h.Dir, name)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}
