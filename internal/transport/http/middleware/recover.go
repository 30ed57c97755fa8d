package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/pribylovaa/comment-ranker/internal/transport/http/apierrors"
	"github.com/pribylovaa/comment-ranker/pkg/log"
)

var errPanic = errors.New("panic")

// Recover превращает panic обработчика в 500/internal.
// Если ответ уже начат, пишется только лог. http.ErrAbortHandler пробрасывается дальше.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := asStatusWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFrom(r.Context())),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if !sw.wrote() {
					apierrors.WriteError(sw, r, errPanic)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
