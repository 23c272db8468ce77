package ports

import (
	"context"
	"geo-photo-game/internal/domain"
)

// Port: whole-document persistence for areas and locations.
// Load returns an empty document when nothing is stored yet; Save replaces
// the stored document entirely.
type DocumentRepository interface {
	LoadDocument(ctx context.Context) (*domain.Document, error)
	SaveDocument(ctx context.Context, doc *domain.Document) error
}
