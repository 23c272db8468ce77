// Package session keeps the login flag in a signed cookie.
//
// The cookie holds an HS256 JWT; a request is logged in when the cookie
// verifies and has not expired. Logging out clears the cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "session"

type Claims struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Per-request view of the session.
type Session struct {
	LoggedIn bool
	Email    string
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by Manager.Middleware, or a
// logged-out session.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(ctxKey{}).(Session)
	return s
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(secret []byte, ttl time.Duration, secure bool) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("session: secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session: ttl must be positive")
	}
	return &Manager{secret: secret, ttl: ttl, secure: secure, now: time.Now}, nil
}

// Issue sets a fresh logged-in session cookie for email.
func (m *Manager) Issue(w http.ResponseWriter, email string) error {
	now := m.now()
	claims := &Claims{
		LoggedIn: true,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("session: sign token: %w", err)
	}

	http.SetCookie(w, m.cookie(token, int(m.ttl.Seconds()), now.Add(m.ttl)))
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1, time.Unix(0, 0)))
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	// Cross-site frontends only send the cookie with SameSite=None, which
	// browsers accept on secure cookies only.
	if m.secure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Read verifies the session cookie on r.
func (m *Manager) Read(r *http.Request) (Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Session{}, nil
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("session: %w", err)
	}

	return Session{LoggedIn: claims.LoggedIn, Email: claims.Email}, nil
}

// Middleware attaches the request's session to its context. Invalid or
// expired cookies count as logged out.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Read(r)
		if err != nil {
			s = Session{}
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}
