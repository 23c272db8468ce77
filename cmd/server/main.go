package main

import (
	"context"
	"errors"
	"fmt"
	"geo-photo-game/internal/adapters/distance"
	"geo-photo-game/internal/adapters/images"
	"geo-photo-game/internal/adapters/repositories"
	"geo-photo-game/internal/api"
	"geo-photo-game/internal/api/session"
	"geo-photo-game/internal/config"
	"geo-photo-game/internal/platform/db"
	"geo-photo-game/internal/platform/logging"
	"geo-photo-game/internal/ports"
	"geo-photo-game/internal/services"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Repository ports backed by one configured store.
type stores struct {
	docs   ports.DocumentRepository
	scores ports.ScoreRepository
	users  ports.UserRepository
	close  func() error
}

// main is the application composition root.
// It wires concrete adapters (JSON files or SQL, local disk) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}
	if cfg.UsingDevSecret() {
		log.Warn().Msg("SESSION_SECRET is not set; using the development signing key")
	}

	st, err := openStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	uploadDir := cfg.Path(cfg.UploadDir)
	imgs, err := images.NewDiskImageStorage(uploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("image storage")
	}

	sessions, err := session.NewManager(cfg.SessionKey(), cfg.SessionTTL, cfg.CookieSecure)
	if err != nil {
		log.Fatal().Err(err).Msg("session manager")
	}

	router := api.NewRouter(api.Deps{
		Auth:      &services.AuthService{Users: st.users},
		Uploads:   &services.UploadService{Docs: st.docs, Images: imgs},
		Locations: &services.LocationService{Docs: st.docs, Images: imgs},
		Areas:     &services.AreaService{Docs: st.docs},
		Scores:    &services.ScoreService{Scores: st.scores},
		Game: &services.GameService{
			Docs:      st.docs,
			Distance:  distance.NewS2DistanceProvider(),
			MaxRounds: cfg.GameRounds,
		},
		Docs:                   st.docs,
		Sessions:               sessions,
		UploadDir:              uploadDir,
		StaticDir:              cfg.Path(cfg.StaticDir),
		GameDir:                cfg.Path(cfg.GameDir),
		MaxUploadBytes:         cfg.MaxUploadMB << 20,
		RequireSessionForAdmin: cfg.RequireSessionForAdmin,
	})

	// Upload bodies can be large; the write timeout covers slow clients downloading images.
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreBackend).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func openStores(cfg *config.Config) (*stores, error) {
	if strings.EqualFold(cfg.StoreBackend, "file") {
		return &stores{
			docs:   repositories.NewFileDocumentRepository(cfg.Path(cfg.LocationsFile), cfg.StoreHardened),
			scores: repositories.NewFileScoreRepository(cfg.Path(cfg.ScoresFile), cfg.StoreHardened),
			users:  repositories.NewFileUserRepository(cfg.Path(cfg.UsersFile)),
			close:  func() error { return nil },
		}, nil
	}

	driver, err := db.DriverFor(cfg.StoreBackend)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Create tables on startup for local runs; dbtool imports existing JSON files.
	if err := repositories.InitSchema(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open stores: %w", err)
	}

	store := repositories.NewSQLDocumentStore(conn, driver)
	return &stores{docs: store, scores: store, users: store, close: conn.Close}, nil
}
