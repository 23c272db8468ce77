package services

import (
	"context"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/ports"

	"github.com/rs/zerolog"
)

type LocationService struct {
	Docs   ports.DocumentRepository
	Images ports.ImageStorage
}

// Return all locations in storage order.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return doc.Locations, nil
}

func (s *LocationService) Update(ctx context.Context, index int, lat, lng float64) error {
	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if err := doc.UpdateLocation(index, lat, lng); err != nil {
		return err
	}
	if err := s.Docs.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// Delete removes the location and then its image file. A failure to
// remove the file is logged and otherwise ignored.
func (s *LocationService) Delete(ctx context.Context, index int) (domain.Location, error) {
	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return domain.Location{}, fmt.Errorf("delete location: %w", err)
	}

	removed, err := doc.RemoveLocation(index)
	if err != nil {
		return domain.Location{}, err
	}
	if err := s.Docs.SaveDocument(ctx, doc); err != nil {
		return domain.Location{}, fmt.Errorf("delete location: %w", err)
	}

	if s.Images != nil && removed.Image != "" {
		if err := s.Images.Remove(ctx, removed.Image); err != nil {
			zerolog.Ctx(ctx).Debug().Str("image", removed.Image).Err(err).Msg("image file not removed")
		}
	}
	return removed, nil
}
