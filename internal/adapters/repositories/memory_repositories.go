package repositories

import (
	"context"
	"geo-photo-game/internal/domain"
	"sync"
)

// In-memory implementation of every repository port, used by tests.
// Values are copied on the way in and out so callers never share state
// with the store, mirroring the load/save cycle of the file stores.
type MemoryStore struct {
	mu     sync.Mutex
	doc    *domain.Document
	scores domain.Leaderboard
	users  []domain.User

	DocumentSaves int
	ScoreSaves    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: domain.NewDocument(), users: domain.DefaultUsers()}
}

func (m *MemoryStore) SetUsers(users []domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append([]domain.User(nil), users...)
}

func (m *MemoryStore) LoadDocument(ctx context.Context) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := copyDocument(m.doc)
	doc.Normalize()
	return doc, nil
}

func (m *MemoryStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = copyDocument(doc)
	m.DocumentSaves++
	return nil
}

func (m *MemoryStore) LoadScores(ctx context.Context) (domain.Leaderboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(domain.Leaderboard{}, m.scores...), nil
}

func (m *MemoryStore) SaveScores(ctx context.Context, scores domain.Leaderboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(domain.Leaderboard{}, scores...)
	m.ScoreSaves++
	return nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.User{}, m.users...), nil
}

func copyDocument(doc *domain.Document) *domain.Document {
	out := domain.NewDocument()
	if doc == nil {
		return out
	}
	out.Locations = append(out.Locations, doc.Locations...)
	for _, a := range doc.Areas {
		a.Coords = append([]domain.Coordinates(nil), a.Coords...)
		out.Areas = append(out.Areas, a)
	}
	return out
}
