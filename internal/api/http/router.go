package http

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/labstack/gommon/log"

	"github.com/mind-engage/gradecurve/internal/auth"
	"github.com/mind-engage/gradecurve/internal/grading"
	"github.com/mind-engage/gradecurve/internal/journal"
	"github.com/mind-engage/gradecurve/internal/rbac"
	"github.com/mind-engage/gradecurve/internal/storage"
)

// Deps are the collaborators the HTTP surface needs. Engine and Store are
// required; a nil Journal records nothing and a nil Auth leaves every
// route open.
type Deps struct {
	Engine  *grading.Engine
	Store   storage.ResultStore
	Journal journal.Journal
	Auth    *auth.AuthService
	Log     *log.Logger

	MaxUploadBytes int64
	CORSOrigins    []string
	Timeout        time.Duration
	AccessLog      bool
}

func (d Deps) journal() journal.Journal {
	if d.Journal == nil {
		return journal.Nop{}
	}
	return d.Journal
}

func (d Deps) logger() *log.Logger {
	if d.Log == nil {
		l := log.New("http")
		l.SetOutput(io.Discard)
		return l
	}
	return d.Log
}

func passthrough(next http.Handler) http.Handler { return next }

// NewRouter wires the grading API.
func NewRouter(d Deps) http.Handler {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if d.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", HealthHandler)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	if d.Auth != nil {
		r.Post("/auth/login", auth.LoginHandler(d.Auth))
	}

	// JWT → role in context → RBAC, when auth is on
	r.Group(func(pr chi.Router) {
		guard := func(string) func(http.Handler) http.Handler { return passthrough }
		if d.Auth != nil {
			pr.Use(auth.JWTMiddleware(d.Auth))
			guard = rbac.Require
		}
		pr.With(guard(rbac.PermGradingRun)).
			Post("/upload", UploadHandler(d))
		pr.With(guard(rbac.PermResultsDownload)).
			Get("/download/{fileID}", DownloadHandler(d.Store))
		pr.With(guard(rbac.PermRunsView)).
			Get("/runs", ListRunsHandler(d.journal()))
	})

	return r
}
