package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pribylovaa/comment-ranker/internal/metrics"
	"github.com/pribylovaa/comment-ranker/internal/models"
	"github.com/pribylovaa/comment-ranker/pkg/log"
)

// storeError — сбой хранилища в конкретной операции (для логов и метрик).
type storeError struct {
	op  string
	err error
}

func (e *storeError) Error() string { return e.op + ": " + e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func storeFailed(op string, err error) error {
	return &storeError{op: op, err: err}
}

// GetPage — страница комментариев видео по запросу q. Страницы нумеруются с нуля.
//
// Валидация:
//   - videoID не пуст, page >= 0, фильтры корректны (models.FilterState.Validate);
//   - (page+1)*pageSize помещается в int;
//   - pageSize приводится к [1, paging.max_page_size], 0 — paging.page_size.
//
// План выполнения:
//   - фильтры по умолчанию, без ключевого слова, сортировка none/date/likes/replies — всё делает хранилище;
//   - только булевы флаги без сортировки — фильтрация в хранилище;
//   - иначе контекст загружается целиком и обрабатывается в памяти.
//
// Сбой хранилища не возвращается ошибкой: он логируется, а ответ — пустая страница с HasMore=false.
func (s *Service) GetPage(ctx context.Context, videoID string, q models.Query, page, pageSize int) (*models.Page, error) {
	const op = "service/query/GetPage"

	videoID = strings.TrimSpace(videoID)
	q = normalizeQuery(q)
	lg := log.From(ctx).With("op", op, "video_id", videoID, "sort", string(q.Sort.Key), "page", page)

	if videoID == "" {
		lg.Warn("invalid argument: empty video_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if page < 0 {
		lg.Warn("invalid argument: negative page")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := q.Filters.Validate(); err != nil {
		lg.Warn("invalid argument: filters", "err", err)
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	pageSize = s.pageSize(pageSize)
	if page > maxPage(pageSize) {
		lg.Warn("invalid argument: page out of range", "page_size", pageSize)
		return nil, fmt.Errorf("%s: %w: page %d out of range", op, ErrInvalidArgument, page)
	}

	started := time.Now()

	var (
		plan string
		out  *models.Page
		err  error
	)

	switch {
	case q.Filters.IsDefault() && (q.Sort.Key == models.SortNone || q.Sort.Key.StoreSortable()):
		plan = metrics.PlanStore
		out, err = s.storePage(ctx, videoID, q.Sort, page, pageSize)
	case q.Filters.OnlyBasic() && q.Sort.Key == models.SortNone:
		plan = metrics.PlanFiltered
		out, err = s.filteredPage(ctx, videoID, q.Filters.BasicFilters, page, pageSize)
	default:
		plan = metrics.PlanMemory
		out, err = s.memoryPage(ctx, videoID, q, page, pageSize)
	}

	s.metrics.ObserveQuery(plan, started)

	if err != nil {
		failed := storeOp(err)
		s.metrics.StoreFailed(failed)
		lg.Error("store_failed", "plan", plan, "store_op", failed, "err", err)

		return models.EmptyPage(), nil
	}

	lg.Debug("page_loaded", "plan", plan, "items", len(out.Items), "total", out.TotalCount)

	return out, nil
}

// storePage — сортировка (или естественный порядок) и пагинация в хранилище.
func (s *Service) storePage(ctx context.Context, videoID string, srt models.Sort, page, pageSize int) (*models.Page, error) {
	total, err := s.storage.GetCommentCount(ctx, videoID)
	if err != nil {
		return nil, storeFailed("GetCommentCount", err)
	}

	var top []models.Comment
	if srt.Key == models.SortNone {
		top, err = s.storage.GetCommentsByPage(ctx, videoID, page, pageSize)
		if err != nil {
			return nil, storeFailed("GetCommentsByPage", err)
		}
	} else {
		top, err = s.storage.GetSortedComments(ctx, videoID, srt.Key, srt.Order, page, pageSize)
		if err != nil {
			return nil, storeFailed("GetSortedComments", err)
		}
	}

	return s.attachReplies(ctx, videoID, top, total, page, pageSize)
}

// filteredPage — булевы флаги и пагинация в хранилище.
func (s *Service) filteredPage(ctx context.Context, videoID string, f models.BasicFilters, page, pageSize int) (*models.Page, error) {
	total, err := s.storage.CountFilteredComments(ctx, videoID, f)
	if err != nil {
		return nil, storeFailed("CountFilteredComments", err)
	}

	top, err := s.storage.GetFilteredComments(ctx, videoID, f, page, pageSize)
	if err != nil {
		return nil, storeFailed("GetFilteredComments", err)
	}

	return s.attachReplies(ctx, videoID, top, total, page, pageSize)
}

// attachReplies подтягивает прямые ответы корней страницы одним запросом.
func (s *Service) attachReplies(ctx context.Context, videoID string, top []models.Comment, total int64, page, pageSize int) (*models.Page, error) {
	items := []models.Comment{}
	if len(top) > 0 {
		replies, err := s.storage.GetCommentReplies(ctx, videoID, commentIDs(top))
		if err != nil {
			return nil, storeFailed("GetCommentReplies", err)
		}

		items = models.WithReplies(top, models.RepliesByParent(replies))
	}

	return &models.Page{
		Items:      items,
		HasMore:    hasMore(page, pageSize, total),
		TotalCount: total,
	}, nil
}

// memoryPage загружает контекст целиком и прогоняет конвейер в памяти.
func (s *Service) memoryPage(ctx context.Context, videoID string, q models.Query, page, pageSize int) (*models.Page, error) {
	records, err := s.loadContext(ctx, videoID)
	if err != nil {
		return nil, err
	}

	rs := s.evaluate(records, q)
	total := int64(rs.total())

	return &models.Page{
		Items:      rs.window(page*pageSize, pageSize),
		HasMore:    hasMore(page, pageSize, total),
		TotalCount: total,
	}, nil
}

// loadContext читает все комментарии видео порциями paging.load_chunk:
// корни в естественном порядке и их ответы (один запрос ответов на порцию).
func (s *Service) loadContext(ctx context.Context, videoID string) ([]models.Comment, error) {
	chunk := s.cfg.Paging.LoadChunk
	if chunk <= 0 {
		chunk = 500
	}

	var out []models.Comment
	for p := 0; ; p++ {
		top, err := s.storage.GetCommentsByPage(ctx, videoID, p, chunk)
		if err != nil {
			return nil, storeFailed("GetCommentsByPage", err)
		}

		if len(top) > 0 {
			replies, err := s.storage.GetCommentReplies(ctx, videoID, commentIDs(top))
			if err != nil {
				return nil, storeFailed("GetCommentReplies", err)
			}

			out = append(out, models.WithReplies(top, models.RepliesByParent(replies))...)
		}

		if len(top) < chunk {
			break
		}
	}

	return out, nil
}

// maxPage — наибольшая страница, для которой (page+1)*pageSize не переполняет int.
func maxPage(pageSize int) int {
	return math.MaxInt/pageSize - 1
}

func hasMore(page, pageSize int, total int64) bool {
	return int64(page+1)*int64(pageSize) < total
}

func commentIDs(records []models.Comment) []string {
	ids := make([]string, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].CommentID)
	}

	return ids
}
