package api

import (
	"geo-photo-game/internal/api/handlers"
	"geo-photo-game/internal/api/session"
	"geo-photo-game/internal/platform/metrics"
	"geo-photo-game/internal/ports"
	"geo-photo-game/internal/services"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps lists everything the HTTP layer needs.
type Deps struct {
	Auth      *services.AuthService
	Uploads   *services.UploadService
	Locations *services.LocationService
	Areas     *services.AreaService
	Scores    *services.ScoreService
	Game      *services.GameService
	Docs      ports.DocumentRepository
	Sessions  *session.Manager

	UploadDir string
	// Served at / and /gra/ when the directories exist.
	StaticDir string
	GameDir   string

	MaxUploadBytes int64
	// Require a session for location and area mutations too.
	RequireSessionForAdmin bool
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(d.Sessions.Middleware)

	authHandler := &handlers.AuthHandler{Auth: d.Auth, Sessions: d.Sessions}
	uploadHandler := &handlers.UploadHandler{Uploads: d.Uploads, MaxBytes: d.MaxUploadBytes}
	imageHandler := &handlers.ImageHandler{Dir: d.UploadDir}
	locationHandler := &handlers.LocationHandler{Locations: d.Locations}
	areaHandler := &handlers.AreaHandler{Areas: d.Areas}
	scoreHandler := &handlers.ScoreHandler{Scores: d.Scores}
	gameHandler := &handlers.GameHandler{Game: d.Game}
	docHandler := &handlers.DocumentHandler{Docs: d.Docs}

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/login", authHandler.Login)
	r.Get("/check-login", authHandler.CheckLogin)
	r.Post("/logout", authHandler.Logout)

	r.With(handlers.RequireSession).Post("/upload", uploadHandler.Upload)
	r.Get("/images/{filename}", imageHandler.Serve)

	admin := chi.Chain()
	if d.RequireSessionForAdmin {
		admin = chi.Chain(handlers.RequireSession)
	}

	r.Get("/locations", locationHandler.List)
	r.With(admin...).Put("/locations/{index}", locationHandler.Update)
	r.With(admin...).Delete("/locations/{index}", locationHandler.Delete)

	r.Get("/areas", areaHandler.List)
	r.With(admin...).Post("/areas", areaHandler.Create)
	r.With(admin...).Put("/areas/{index}", areaHandler.Rename)
	r.With(admin...).Delete("/areas/{index}", areaHandler.Delete)

	r.Get("/scores", scoreHandler.List)
	r.Post("/scores", scoreHandler.Upsert)

	r.Get("/game/rounds", gameHandler.Rounds)
	r.Post("/game/guess", gameHandler.Guess)

	r.Get("/gra/locations.json", docHandler.Get)
	if isDir(d.GameDir) {
		r.Handle("/gra/*", http.StripPrefix("/gra/", http.FileServer(http.Dir(d.GameDir))))
	}
	if isDir(d.StaticDir) {
		r.Handle("/*", http.FileServer(http.Dir(d.StaticDir)))
	}

	return r
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
