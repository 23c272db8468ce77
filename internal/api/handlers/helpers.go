package handlers

import (
	"errors"
	"geo-photo-game/internal/api/dto"
	"geo-photo-game/internal/domain"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Upper bound for JSON request bodies.
const maxJSONBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).Str("path", r.URL.Path).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Success: false, Error: msg})
}

func writeSuccess(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.SuccessResponse{Success: true})
}

// Status for each domain error; the error text is the client message.
var errorStatus = []struct {
	target error
	status int
}{
	{domain.ErrAccessDenied, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrMissingField, http.StatusBadRequest},
	{domain.ErrInvalidFormat, http.StatusBadRequest},
	{domain.ErrInvalidTerritory, http.StatusBadRequest},
	{domain.ErrOutsideTerritory, http.StatusBadRequest},
	{domain.ErrInvalidIndex, http.StatusNotFound},
}

// writeServiceError maps a service error to its status. Anything outside
// the domain taxonomy is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.target) {
			writeError(w, r, e.status, e.target.Error())
			return
		}
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}

// Parse the {index} path parameter. Non-integers are reported the same
// way as out-of-range indexes.
func parseIndex(r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, false
	}
	return idx, true
}

func writeInvalidIndex(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, domain.ErrInvalidIndex.Error())
}
