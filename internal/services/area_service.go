package services

import (
	"context"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/ports"
)

type AreaService struct {
	Docs ports.DocumentRepository
}

// Return all territories. Legacy entries carry their positional default
// name; the stored document is not rewritten.
func (s *AreaService) List(ctx context.Context) ([]domain.Area, error) {
	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return doc.Areas, nil
}

func (s *AreaService) Create(ctx context.Context, coords []domain.Coordinates, name string) (domain.Area, error) {
	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return domain.Area{}, fmt.Errorf("create area: %w", err)
	}

	area, err := doc.AddArea(coords, name)
	if err != nil {
		return domain.Area{}, err
	}
	if err := s.Docs.SaveDocument(ctx, doc); err != nil {
		return domain.Area{}, fmt.Errorf("create area: %w", err)
	}
	return area, nil
}

func (s *AreaService) Rename(ctx context.Context, index int, name string) error {
	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return fmt.Errorf("rename area: %w", err)
	}
	if err := doc.RenameArea(index, name); err != nil {
		return err
	}
	if err := s.Docs.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("rename area: %w", err)
	}
	return nil
}

func (s *AreaService) Delete(ctx context.Context, index int) error {
	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	if err := doc.RemoveArea(index); err != nil {
		return err
	}
	if err := s.Docs.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	return nil
}
