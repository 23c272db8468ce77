package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"geo-photo-game/internal/domain"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// Initialize the document store schema. The statements are valid for both
// SQLite and PostgreSQL.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDocumentsQuery := `
	CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL
	);
	`

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		email TEXT PRIMARY KEY,
		password TEXT NOT NULL
	);
	`

	statements := []string{
		createDocumentsQuery,
		createUsersQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Source files for ImportJSONFiles / ExportJSONFiles. Empty paths are skipped.
type JSONFiles struct {
	Users     string
	Locations string
	Scores    string
}

// Copy the flat JSON files into the SQL store. Missing files are skipped;
// users are upserted by email.
func ImportJSONFiles(ctx context.Context, store *SQLDocumentStore, files JSONFiles) error {
	if fileExists(files.Locations) {
		doc, err := NewFileDocumentRepository(files.Locations, false).LoadDocument(ctx)
		if err != nil {
			return fmt.Errorf("import json: %w", err)
		}
		if err := store.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("import json: %w", err)
		}
	}

	if fileExists(files.Scores) {
		scores, err := NewFileScoreRepository(files.Scores, false).LoadScores(ctx)
		if err != nil {
			return fmt.Errorf("import json: %w", err)
		}
		if err := store.SaveScores(ctx, scores); err != nil {
			return fmt.Errorf("import json: %w", err)
		}
	}

	if files.Users != "" {
		if err := seedUsers(ctx, store, files.Users); err != nil {
			return fmt.Errorf("import json: %w", err)
		}
	}

	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func seedUsers(ctx context.Context, store *SQLDocumentStore, path string) error {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed users: read %q: %w", path, err)
	}

	var users []domain.User
	if err := json.Unmarshal(bytes, &users); err != nil {
		return fmt.Errorf("seed users: parse json: %w", err)
	}

	for i, u := range users {
		if strings.TrimSpace(u.Email) == "" {
			return fmt.Errorf("seed users: entry %d: email cannot be empty", i+1)
		}
	}

	tx, err := store.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed users: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := store.rebind(`
	INSERT INTO users (email, password)
	VALUES (?, ?)
	ON CONFLICT (email) DO UPDATE SET password = excluded.password;
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed users: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, u.Email, u.Password); err != nil {
			return fmt.Errorf("seed users: insert %q: %w", u.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed users: commit tx: %w", err)
	}

	return nil
}

// Write the SQL store's contents back out as flat JSON files.
func ExportJSONFiles(ctx context.Context, store *SQLDocumentStore, files JSONFiles) error {
	if files.Locations != "" {
		doc, err := store.LoadDocument(ctx)
		if err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		if err := NewFileDocumentRepository(files.Locations, true).SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
	}

	if files.Scores != "" {
		scores, err := store.LoadScores(ctx)
		if err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		if err := NewFileScoreRepository(files.Scores, true).SaveScores(ctx, scores); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
	}

	if files.Users != "" {
		users, err := store.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		if err := NewJSONFileStore(files.Users, true).Write(ctx, users); err != nil {
			return fmt.Errorf("export json: users: %w", err)
		}
	}

	return nil
}
