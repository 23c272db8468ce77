package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/platform/db"
	"geo-photo-game/internal/platform/obs"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Row names in the documents table.
const (
	documentLocations = "locations"
	documentScores    = "scores"
)

// SQL-backed implementation of the document, score and user ports.
// Each document is one row holding the same JSON the file store writes,
// so the whole-document load/save contract is unchanged.
type SQLDocumentStore struct {
	DB     *sql.DB
	Driver string
}

func NewSQLDocumentStore(conn *sql.DB, driver string) *SQLDocumentStore {
	return &SQLDocumentStore{DB: conn, Driver: driver}
}

// Rewrite ? placeholders as $n for PostgreSQL.
func (s *SQLDocumentStore) rebind(query string) string {
	if s.Driver != db.DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Load the raw body of a named document. ok is false when no row exists.
func (s *SQLDocumentStore) loadBody(ctx context.Context, name string) (body []byte, ok bool, err error) {
	if s.DB == nil {
		return nil, false, errors.New("sql document store: DB is nil")
	}

	query := s.rebind(`
	SELECT body
	FROM documents
	WHERE name = ?;
	`)

	var raw string
	err = s.DB.QueryRowContext(ctx, query, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query document %q: %w", name, err)
	}
	return []byte(raw), true, nil
}

func (s *SQLDocumentStore) saveBody(ctx context.Context, name string, v any) error {
	if s.DB == nil {
		return errors.New("sql document store: DB is nil")
	}

	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", name, err)
	}

	query := s.rebind(`
	INSERT INTO documents (name, body)
	VALUES (?, ?)
	ON CONFLICT (name) DO UPDATE SET body = excluded.body;
	`)
	if _, err := s.DB.ExecContext(ctx, query, name, string(body)); err != nil {
		return fmt.Errorf("upsert document %q: %w", name, err)
	}
	return nil
}

func (s *SQLDocumentStore) LoadDocument(ctx context.Context) (doc *domain.Document, err error) {
	defer obs.Time(ctx, "load_document")(&err)

	body, ok, err := s.loadBody(ctx, documentLocations)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	doc = domain.NewDocument()
	if ok {
		if err := json.Unmarshal(body, doc); err != nil {
			zerolog.Ctx(ctx).Warn().Str("document", documentLocations).Err(err).
				Msg("malformed document row, using empty default")
			doc = domain.NewDocument()
		}
	}
	doc.Normalize()
	return doc, nil
}

func (s *SQLDocumentStore) SaveDocument(ctx context.Context, doc *domain.Document) (err error) {
	defer obs.Time(ctx, "save_document")(&err)

	if err := s.saveBody(ctx, documentLocations, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *SQLDocumentStore) LoadScores(ctx context.Context) (scores domain.Leaderboard, err error) {
	defer obs.Time(ctx, "load_scores")(&err)

	body, ok, err := s.loadBody(ctx, documentScores)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}

	if ok {
		if err := json.Unmarshal(body, &scores); err != nil {
			zerolog.Ctx(ctx).Warn().Str("document", documentScores).Err(err).
				Msg("malformed document row, using empty default")
			scores = nil
		}
	}
	if scores == nil {
		scores = domain.Leaderboard{}
	}
	return scores, nil
}

func (s *SQLDocumentStore) SaveScores(ctx context.Context, scores domain.Leaderboard) (err error) {
	defer obs.Time(ctx, "save_scores")(&err)

	if scores == nil {
		scores = domain.Leaderboard{}
	}
	if err := s.saveBody(ctx, documentScores, scores); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}

// Return all accounts ordered by email; an empty table yields the
// default admin account, like a missing users file.
func (s *SQLDocumentStore) ListUsers(ctx context.Context) (users []domain.User, err error) {
	defer obs.Time(ctx, "list_users")(&err)

	if s.DB == nil {
		return nil, errors.New("sql document store: DB is nil")
	}

	query := `
	SELECT
		email,
		password
	FROM users
	ORDER BY email;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: query users table: %w", err)
	}
	defer rows.Close()

	users = make([]domain.User, 0, 8)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Email, &u.Password); err != nil {
			return nil, fmt.Errorf("list users: scan row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: row iteration: %w", err)
	}

	if len(users) == 0 {
		return domain.DefaultUsers(), nil
	}
	return users, nil
}
