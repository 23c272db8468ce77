package ports

import (
	"context"
	"geo-photo-game/internal/domain"
)

// Port: read-only source of admin accounts.
type UserRepository interface {
	// Return every account. Implementations fall back to domain.DefaultUsers
	// when no account source exists.
	ListUsers(ctx context.Context) ([]domain.User, error)
}
