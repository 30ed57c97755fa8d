package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/comment-ranker/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedSort — ключ сортировки не поддерживается хранилищем (нужна сортировка в памяти).
	ErrUnsupportedSort = errors.New("unsupported sort")
	// ErrInvalidArgument — некорректные аргументы (пустой video_id, отрицательная страница и т.п.).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Storage описывает операции над сохранёнными комментариями.
// Контекст (videoID) — ключ коллекции; страницы нумеруются с нуля.
type Storage interface {
	// GetCommentCount возвращает число корневых комментариев видео.
	GetCommentCount(ctx context.Context, videoID string) (int64, error)

	// GetCommentsByPage возвращает страницу корневых комментариев в естественном порядке (Position ASC).
	GetCommentsByPage(ctx context.Context, videoID string, page, pageSize int) ([]models.Comment, error)

	// GetCommentReplies возвращает прямые ответы на указанные корни (Position ASC).
	GetCommentReplies(ctx context.Context, videoID string, parentIDs []string) ([]models.Comment, error)

	// GetFilteredComments возвращает страницу корней, удовлетворяющих булевым флагам.
	GetFilteredComments(ctx context.Context, videoID string, f models.BasicFilters, page, pageSize int) ([]models.Comment, error)

	// CountFilteredComments возвращает число корней, удовлетворяющих булевым флагам.
	CountFilteredComments(ctx context.Context, videoID string, f models.BasicFilters) (int64, error)

	// GetSortedComments возвращает страницу корней, отсортированных хранилищем.
	// Поддерживаются только date, likes, replies; прочие ключи — ErrUnsupportedSort.
	GetSortedComments(ctx context.Context, videoID string, key models.SortKey, order models.SortOrder, page, pageSize int) ([]models.Comment, error)

	// SaveComments сохраняет пачку (upsert по video_id+comment_id).
	// Поля закладок и Position существующих записей не меняются.
	SaveComments(ctx context.Context, videoID string, comments []models.Comment) error

	// DeleteByVideo удаляет все комментарии видео.
	DeleteByVideo(ctx context.Context, videoID string) error

	// SetBookmark ставит/снимает закладку (bookmarkAddedDate выставляется/очищается).
	// Если записи нет — ErrNotFound.
	SetBookmark(ctx context.Context, videoID, commentID string, bookmarked bool) error

	// SetNote сохраняет заметку пользователя. Если записи нет — ErrNotFound.
	SetNote(ctx context.Context, videoID, commentID, note string) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
