package main

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"geo-photo-game/internal/adapters/repositories"
	"geo-photo-game/internal/config"
	"geo-photo-game/internal/platform/db"
	"geo-photo-game/internal/platform/logging"
	"geo-photo-game/internal/services"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	backend     string
	databaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Maintenance commands for the game data store",
	Long: `Create the SQL schema, move data between the flat JSON files and a
SQLite or PostgreSQL store, and hash passwords for users.json.`,
	SilenceUsage: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the SQL tables",
	RunE:  runInit,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy users, locations and scores JSON files into the SQL store",
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the SQL store back out as JSON files",
	RunE:  runExport,
}

var hashCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for a users.json entry",
	Long:  `Hash the given password, or the first line of stdin when no argument is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHashPassword,
}

var setupOnce sync.Once

// Flag defaults read the environment, so this runs after .env is loaded.
func setupCommands() {
	setupOnce.Do(func() {
		rootCmd.PersistentFlags().StringVar(&backend, "backend", config.Get("STORE_BACKEND", "sqlite"), "SQL backend: sqlite or postgres (file means sqlite)")
		rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", config.Get("DATABASE_URL", "data/game.db"), "SQLite path or PostgreSQL DSN")

		rootCmd.AddCommand(initCmd, importCmd, exportCmd, hashCmd)
	})
}

// The server's default "file" backend has no SQL side; dbtool moves those
// files into SQLite.
func sqlBackend(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "file":
		return "sqlite"
	default:
		return name
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
	}
	logging.Init(logging.Config{Level: config.Get("LOG_LEVEL", "info"), Format: "console"})
	setupCommands()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore opens the configured SQL database and makes sure the schema exists.
func openStore() (*repositories.SQLDocumentStore, *sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, nil, errors.New("database url is required")
	}

	backend := sqlBackend(backend)
	driver, err := db.DriverFor(backend)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(driver, databaseURL)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("backend", backend).Msg("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("schema initialization failed: %w", err)
	}

	return repositories.NewSQLDocumentStore(conn, driver), conn, nil
}

// Paths of the flat JSON files as the server would resolve them. The
// server's store settings are not validated; dbtool takes them from flags.
func jsonFiles() (repositories.JSONFiles, error) {
	cfg, err := config.Read()
	if err != nil {
		return repositories.JSONFiles{}, err
	}
	return repositories.JSONFiles{
		Users:     cfg.Path(cfg.UsersFile),
		Locations: cfg.Path(cfg.LocationsFile),
		Scores:    cfg.Path(cfg.ScoresFile),
	}, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	_, conn, err := openStore()
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().Msg("Schema ready.")
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	files, err := jsonFiles()
	if err != nil {
		return err
	}
	store, conn, err := openStore()
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().Str("locations", files.Locations).Str("scores", files.Scores).Str("users", files.Users).
		Msg("Importing JSON files...")
	if err := repositories.ImportJSONFiles(cmd.Context(), store, files); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	log.Info().Msg("Import complete.")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	files, err := jsonFiles()
	if err != nil {
		return err
	}
	store, conn, err := openStore()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.ExportJSONFiles(cmd.Context(), store, files); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	log.Info().Str("locations", files.Locations).Str("scores", files.Scores).Str("users", files.Users).
		Msg("Export complete.")
	return nil
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
