// http собирает HTTP API comment-ranker.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/comment-ranker/internal/metrics"
	"github.com/pribylovaa/comment-ranker/internal/transport/http/handlers"
	"github.com/pribylovaa/comment-ranker/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования
		middleware.Logging(opts.Logger, opts.Metrics),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// comments
	r.Get("/videos/{video_id}/comments", h.ListComments)
	r.Post("/videos/{video_id}/comments", h.IngestComments)
	r.Put("/videos/{video_id}/comments/{comment_id}/bookmark", h.SetBookmark)
	r.Put("/videos/{video_id}/comments/{comment_id}/note", h.SetNote)

	// sessions
	r.Post("/sessions", h.OpenSession)
	r.Get("/sessions/{id}", h.GetSession)
	r.Put("/sessions/{id}/context", h.SwitchContext)
	r.Put("/sessions/{id}/query", h.SetQuery)
	r.Post("/sessions/{id}/more", h.LoadMore)
	r.Delete("/sessions/{id}", h.CloseSession)
}
