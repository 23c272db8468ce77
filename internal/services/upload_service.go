package services

import (
	"context"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/ports"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type UploadService struct {
	Docs   ports.DocumentRepository
	Images ports.ImageStorage
}

type UploadRequest struct {
	Filename string
	Content  io.Reader
	Lat      string
	Lng      string
}

type UploadResult struct {
	// Stored file name after sanitizing and collision resolution.
	Filename string
	Location domain.Location
	// False when an identical location already existed.
	Added bool
}

// Upload stores a photo and records its location. The coordinates are
// validated before anything touches the disk.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	if req.Content == nil {
		return UploadResult{}, fmt.Errorf("upload: photo: %w", domain.ErrMissingField)
	}
	if strings.TrimSpace(req.Lat) == "" || strings.TrimSpace(req.Lng) == "" {
		return UploadResult{}, fmt.Errorf("upload: coordinates: %w", domain.ErrMissingField)
	}

	lat, err := ParseCoordinate(req.Lat)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: lat: %w", err)
	}
	lng, err := ParseCoordinate(req.Lng)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: lng: %w", err)
	}

	name, err := s.Images.Save(ctx, req.Filename, req.Content)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	loc := domain.Location{Lat: lat, Lng: lng, Image: s.Images.PublicPath(name)}

	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		s.discard(ctx, loc.Image)
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	added := doc.AddLocation(loc)
	if err := s.Docs.SaveDocument(ctx, doc); err != nil {
		s.discard(ctx, loc.Image)
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	return UploadResult{Filename: name, Location: loc, Added: added}, nil
}

func (s *UploadService) discard(ctx context.Context, imagePath string) {
	if err := s.Images.Remove(ctx, imagePath); err != nil {
		zerolog.Ctx(ctx).Debug().Str("image", imagePath).Err(err).Msg("discard uploaded image")
	}
}

// ParseCoordinate converts a form or JSON string value to degrees.
func ParseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse coordinate %q: %w", s, domain.ErrInvalidFormat)
	}
	return v, nil
}
