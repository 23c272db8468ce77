package repositories

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/goccy/go-json"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestInitSchema(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		if err := InitSchema(sqlDB); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestInitSchemaRollsBackOnError(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := InitSchema(sqlDB)
		if err == nil || !strings.Contains(err.Error(), "statement #1") {
			t.Fatalf("err = %v, want statement #1 failure", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestImportJSONFiles(t *testing.T) {
	testCases := []struct {
		name          string
		driver        string
		insertPattern string
		usersPattern  string
	}{
		{
			name:          "sqlite placeholders",
			driver:        "sqlite",
			insertPattern: "INSERT INTO documents \\(name, body\\)\\s+VALUES \\(\\?, \\?\\)",
			usersPattern:  "INSERT INTO users \\(email, password\\)\\s+VALUES \\(\\?, \\?\\)\\s+ON CONFLICT \\(email\\) DO UPDATE SET password = excluded.password",
		},
		{
			name:          "postgres placeholders",
			driver:        "pgx",
			insertPattern: "INSERT INTO documents \\(name, body\\)\\s+VALUES \\(\\$1, \\$2\\)",
			usersPattern:  "INSERT INTO users \\(email, password\\)\\s+VALUES \\(\\$1, \\$2\\)\\s+ON CONFLICT \\(email\\) DO UPDATE SET password = excluded.password",
		},
	}

	for _, testCase := range testCases {
		it(func() {
			dir := t.TempDir()
			files := JSONFiles{
				Users:     filepath.Join(dir, "users.json"),
				Locations: filepath.Join(dir, "gra", "locations.json"),
				Scores:    filepath.Join(dir, "scores.json"),
			}
			writeFile(t, files.Locations, `{"areas":[[[1,2],[3,4],[5,6]]],"locations":[{"lat":1,"lng":2,"image":"images/a.jpg"}]}`)
			writeFile(t, files.Scores, `[{"name":"ola","score":300}]`)
			writeFile(t, files.Users, `[{"email":"a@uni.pl","password":"x"},{"email":"b@uni.pl","password":"y"}]`)

			mock.ExpectExec(testCase.insertPattern).
				WithArgs("locations", `{"areas":[[[1,2],[3,4],[5,6]]],"locations":[{"lat":1,"lng":2,"image":"images/a.jpg"}]}`).
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectExec(testCase.insertPattern).
				WithArgs("scores", `[{"name":"ola","score":300}]`).
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectBegin()
			prep := mock.ExpectPrepare(testCase.usersPattern)
			prep.ExpectExec().WithArgs("a@uni.pl", "x").WillReturnResult(sqlmock.NewResult(1, 1))
			prep.ExpectExec().WithArgs("b@uni.pl", "y").WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectCommit()

			store := NewSQLDocumentStore(sqlDB, testCase.driver)
			if err := ImportJSONFiles(context.Background(), store, files); err != nil {
				t.Errorf("%s: unexpected error: %v", testCase.name, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("%s: there were unfulfilled expectations: %s", testCase.name, err)
			}
		})
	}
}

func TestImportJSONFilesSkipsMissingFiles(t *testing.T) {
	it(func() {
		dir := t.TempDir()
		files := JSONFiles{
			Users:     filepath.Join(dir, "users.json"),
			Locations: filepath.Join(dir, "gra", "locations.json"),
			Scores:    filepath.Join(dir, "scores.json"),
		}

		// No expectations: any statement would fail the test.
		store := NewSQLDocumentStore(sqlDB, "sqlite")
		if err := ImportJSONFiles(context.Background(), store, files); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestImportJSONFilesRejectsEmptyEmail(t *testing.T) {
	it(func() {
		dir := t.TempDir()
		files := JSONFiles{Users: filepath.Join(dir, "users.json")}
		writeFile(t, files.Users, `[{"email":" ","password":"x"}]`)

		store := NewSQLDocumentStore(sqlDB, "sqlite")
		if err := ImportJSONFiles(context.Background(), store, files); err == nil {
			t.Fatalf("expected error for empty email")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestExportJSONFilesKeepsLegacyAreas(t *testing.T) {
	it(func() {
		dir := t.TempDir()
		files := JSONFiles{
			Users:     filepath.Join(dir, "users.json"),
			Locations: filepath.Join(dir, "gra", "locations.json"),
			Scores:    filepath.Join(dir, "scores.json"),
		}
		body := `{"areas":[[[1,2],[3,4],[5,6]],{"coords":[[7,8],[9,10],[11,12]],"name":"Park"}],"locations":[]}`

		mock.ExpectQuery("SELECT body\\s+FROM documents\\s+WHERE name = \\?").
			WithArgs("locations").
			WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(body))
		mock.ExpectQuery("SELECT body\\s+FROM documents\\s+WHERE name = \\?").
			WithArgs("scores").
			WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`[{"name":"ala","score":10}]`))
		mock.ExpectQuery("SELECT\\s+email,\\s+password\\s+FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"email", "password"}).AddRow("a@uni.pl", "x"))

		store := NewSQLDocumentStore(sqlDB, "sqlite")
		if err := ExportJSONFiles(context.Background(), store, files); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}

		raw, err := os.ReadFile(files.Locations)
		if err != nil {
			t.Fatalf("read exported document: %v", err)
		}
		var doc struct {
			Areas []json.RawMessage `json:"areas"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("parse exported document: %v", err)
		}
		if len(doc.Areas) != 2 {
			t.Fatalf("areas = %d, want 2", len(doc.Areas))
		}
		if bytes.TrimSpace(doc.Areas[0])[0] != '[' {
			t.Fatalf("legacy area exported as %s, want bare list", doc.Areas[0])
		}
		if bytes.TrimSpace(doc.Areas[1])[0] != '{' {
			t.Fatalf("named area exported as %s, want object", doc.Areas[1])
		}

		users, err := NewFileUserRepository(files.Users).ListUsers(context.Background())
		if err != nil || len(users) != 1 || users[0].Email != "a@uni.pl" {
			t.Fatalf("exported users = %+v, %v", users, err)
		}
		scores, err := NewFileScoreRepository(files.Scores, false).LoadScores(context.Background())
		if err != nil || len(scores) != 1 || scores[0].Score != 10 {
			t.Fatalf("exported scores = %+v, %v", scores, err)
		}
	})
}
