package repositories

import (
	"context"
	"errors"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/platform/obs"
	"io/fs"
	"os"
)

// File-backed implementation of the DocumentRepository port.
type FileDocumentRepository struct{ Store *JSONFileStore }

func NewFileDocumentRepository(path string, hardened bool) *FileDocumentRepository {
	return &FileDocumentRepository{Store: NewJSONFileStore(path, hardened)}
}

func (r *FileDocumentRepository) LoadDocument(ctx context.Context) (doc *domain.Document, err error) {
	defer obs.Time(ctx, "load_document")(&err)

	doc = domain.NewDocument()
	found, err := r.Store.Read(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if !found {
		doc = domain.NewDocument()
	}
	doc.Normalize()
	return doc, nil
}

func (r *FileDocumentRepository) SaveDocument(ctx context.Context, doc *domain.Document) (err error) {
	defer obs.Time(ctx, "save_document")(&err)

	if err := r.Store.Write(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// File-backed implementation of the ScoreRepository port.
type FileScoreRepository struct{ Store *JSONFileStore }

func NewFileScoreRepository(path string, hardened bool) *FileScoreRepository {
	return &FileScoreRepository{Store: NewJSONFileStore(path, hardened)}
}

func (r *FileScoreRepository) LoadScores(ctx context.Context) (scores domain.Leaderboard, err error) {
	defer obs.Time(ctx, "load_scores")(&err)

	found, err := r.Store.Read(ctx, &scores)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	if !found || scores == nil {
		scores = domain.Leaderboard{}
	}
	return scores, nil
}

func (r *FileScoreRepository) SaveScores(ctx context.Context, scores domain.Leaderboard) (err error) {
	defer obs.Time(ctx, "save_scores")(&err)

	if scores == nil {
		scores = domain.Leaderboard{}
	}
	if err := r.Store.Write(ctx, scores); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}

// Read-only users file. A missing file yields the default admin account;
// a malformed one yields no accounts.
type FileUserRepository struct{ Store *JSONFileStore }

func NewFileUserRepository(path string) *FileUserRepository {
	return &FileUserRepository{Store: NewJSONFileStore(path, false)}
}

func (r *FileUserRepository) ListUsers(ctx context.Context) (users []domain.User, err error) {
	defer obs.Time(ctx, "list_users")(&err)

	if _, statErr := os.Stat(r.Store.Path); errors.Is(statErr, fs.ErrNotExist) {
		return domain.DefaultUsers(), nil
	}

	found, err := r.Store.Read(ctx, &users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if !found {
		return []domain.User{}, nil
	}
	return users, nil
}
