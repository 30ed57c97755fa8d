// handlers содержит REST-обработчики comment-ranker.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/comment-ranker/internal/ingest"
	"github.com/pribylovaa/comment-ranker/internal/models"
	"github.com/pribylovaa/comment-ranker/internal/service"
)

// Service — операции сервисного слоя, нужные обработчикам.
type Service interface {
	GetPage(ctx context.Context, videoID string, q models.Query, page, pageSize int) (*models.Page, error)
	Ingest(ctx context.Context, videoID string, raws []ingest.RawComment, replace bool) (int, error)
	SetBookmark(ctx context.Context, videoID, commentID string, bookmarked bool) error
	SetNote(ctx context.Context, videoID, commentID, note string) error

	OpenSession(ctx context.Context, videoID string) (*service.Session, error)
	Session(id string) (*service.Session, error)
	CloseSession(id string) error
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc Service
}

func New(svc Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
