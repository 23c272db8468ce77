package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/ports"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users ports.UserRepository
}

// Login checks email and password against the account list. Unknown
// accounts and wrong passwords fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	if email == "" || password == "" {
		return domain.User{}, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}

	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("login: list users: %w", err)
	}

	for _, u := range users {
		if u.Email == email && PasswordMatches(u.Password, password) {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
}

// PasswordMatches compares a stored password with a login attempt.
// Stored values that look like bcrypt hashes are verified with bcrypt,
// anything else is compared as plaintext.
func PasswordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 &&
		(strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// HashPassword returns a bcrypt hash suitable for the users file.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("hash password: %w", domain.ErrMissingField)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
