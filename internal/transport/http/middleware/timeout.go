package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pribylovaa/comment-ranker/internal/transport/http/apierrors"
	"github.com/pribylovaa/comment-ranker/pkg/log"
)

// Timeout ограничивает обработку запроса сроком d; более ранний deadline клиента сохраняется.
// Обработчик, вернувшийся после истечения срока и ничего не записавший,
// получает ответ 504/deadline_exceeded. d <= 0 отключает мидлвар.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			sw := asStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			if sw.wrote() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}

			log.From(ctx).Warn("request_timeout", "path", r.URL.Path, "timeout", d)
			apierrors.WriteError(sw, r, context.DeadlineExceeded)
		})
	}
}
