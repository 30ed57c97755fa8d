// service содержит бизнес-логику comment-ranker: выдачу страниц, сессии просмотра,
// приём комментариев и закладки.
package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pribylovaa/comment-ranker/internal/config"
	"github.com/pribylovaa/comment-ranker/internal/metrics"
	"github.com/pribylovaa/comment-ranker/internal/ranking"
	"github.com/pribylovaa/comment-ranker/internal/search"
	"github.com/pribylovaa/comment-ranker/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound — сессия не существует или закрыта.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInternal — внутренняя ошибка (стораж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Service — описывает бизнес-логику comment-ranker.
type Service struct {
	storage storage.Storage
	cfg     config.Config
	sorter  *ranking.Sorter
	search  *search.Engine
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	lastPos  int64
}

// Option настраивает Service.
type Option func(*Service)

// WithMetrics подключает Prometheus-метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock подменяет часы (тесты вытеснения сессий).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMatcher подменяет нечёткий сопоставитель поиска.
func WithMatcher(m search.TextMatcher) Option {
	return func(s *Service) { s.search = search.New(m, s.cfg.Search.MinScore) }
}

// New создает новый экземпляр Service.
// Некорректная локаль (config её уже проверяет) заменяется корневой.
func New(storage storage.Storage, cfg config.Config, opts ...Option) *Service {
	sorter, err := ranking.NewSorter(cfg.Query.Locale)
	if err != nil {
		slog.Warn("invalid locale, using root collation", "locale", cfg.Query.Locale, "err", err)
		sorter, _ = ranking.NewSorter("")
	}

	s := &Service{
		storage:  storage,
		cfg:      cfg,
		sorter:   sorter,
		search:   search.New(nil, cfg.Search.MinScore),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// pageSize приводит запрошенный размер страницы к [1, MaxPageSize]; 0 — PageSize.
func (s *Service) pageSize(n int) int {
	if n <= 0 {
		n = s.cfg.Paging.PageSize
	}

	if n <= 0 {
		n = 10
	}

	if s.cfg.Paging.MaxPageSize > 0 && n > s.cfg.Paging.MaxPageSize {
		n = s.cfg.Paging.MaxPageSize
	}

	return n
}

// nextPositions резервирует count монотонных позиций приёма.
func (s *Service) nextPositions(count int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := max(s.now().UnixNano(), s.lastPos+1)
	s.lastPos = base + int64(count)

	return base
}
