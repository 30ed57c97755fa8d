package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pribylovaa/comment-ranker/internal/models"
	"github.com/pribylovaa/comment-ranker/pkg/log"
)

// View — видимое состояние сессии.
type View struct {
	SessionID  string           `json:"sessionId"`
	VideoID    string           `json:"videoId"`
	Query      models.Query     `json:"query"`
	Items      []models.Comment `json:"items"`
	HasMore    bool             `json:"hasMore"`
	TotalCount int64            `json:"totalCount"`
	Loading    bool             `json:"loading"`
}

// Session — рабочий набор комментариев одного зрителя и состояние его запроса.
//
// Единственный писатель: всё состояние меняется под mu. Тяжёлая работа
// (загрузка контекста, фильтр/сортировка/поиск) выполняется без блокировки
// над снимком, а результат фиксируется, только если за это время не начался
// более новый пересчёт (gen) и не сменился контекст (ctxGen).
type Session struct {
	id  string
	svc *Service

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	videoID  string
	query    models.Query
	records  []models.Comment
	index    map[string]int
	result   resultSet
	visible  int
	reset    bool
	edit     uint64
	loading  bool
	loaded   uint64
	ctxGen   uint64
	gen      uint64
	debounce *time.Timer
	lastUsed time.Time
	closed   bool
}

func newSession(svc *Service, id string) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		id:       id,
		svc:      svc,
		ctx:      log.With(ctx, "session_id", id),
		cancel:   cancel,
		index:    make(map[string]int),
		visible:  svc.loadMoreStep(),
		lastUsed: svc.now(),
	}
}

// ID возвращает идентификатор сессии.
func (s *Session) ID() string { return s.id }

// SwitchContext переключает сессию на другое видео.
// Видимое состояние очищается сразу (до возврата), загрузка идёт в фоне;
// результат загрузки старого контекста, пришедший позже, отбрасывается.
func (s *Session) SwitchContext(videoID string) {
	videoID = strings.TrimSpace(videoID)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.ctxGen++
	s.gen++
	ctxGen := s.ctxGen

	s.videoID = videoID
	s.records = nil
	s.index = make(map[string]int)
	s.result = resultSet{}
	s.visible = s.svc.loadMoreStep()
	s.loading = videoID != ""
	s.lastUsed = s.svc.now()
	s.mu.Unlock()

	if videoID == "" {
		return
	}

	go s.load(ctxGen, videoID)
}

func (s *Session) load(ctxGen uint64, videoID string) {
	const op = "service/session/load"

	ctx, cancel := context.WithTimeout(s.ctx, s.svc.loadTimeout())
	defer cancel()

	lg := log.From(ctx).With("op", op, "video_id", videoID)

	records, err := s.svc.loadContext(ctx, videoID)

	s.mu.Lock()
	if s.closed || ctxGen != s.ctxGen {
		s.mu.Unlock()
		s.svc.metrics.Superseded()
		lg.Debug("query_superseded")
		return
	}

	if err != nil {
		s.svc.metrics.StoreFailed(storeOp(err))
		lg.Error("store_failed", "err", err)
		records = nil
	}

	// Пачки, пришедшие во время загрузки, сохраняются поверх загруженного.
	appended := s.records
	s.records = nil
	s.index = make(map[string]int)
	s.mergeLocked(records)
	s.mergeLocked(appended)
	s.loaded = ctxGen
	s.mu.Unlock()

	lg.Debug("context_loaded", "records", len(records))
	s.refresh()
}

// SetQuery — отложенный (debounce) перезапрос: применяется только последняя правка
// в окне query.debounce, каждая правка окно перезапускает.
func (s *Session) SetQuery(q models.Query) error {
	const op = "service/session/SetQuery"

	q = normalizeQuery(q)
	if err := q.Filters.Validate(); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	s.lastUsed = s.svc.now()
	s.stopDebounceLocked()
	s.edit++
	edit := s.edit

	delay := s.svc.cfg.Query.Debounce
	if delay <= 0 {
		go s.apply(edit, q)
		return nil
	}

	s.debounce = time.AfterFunc(delay, func() { s.apply(edit, q) })

	return nil
}

// ApplyQuery — немедленный перезапрос (фильтр/сортировка/поиск с нуля, окно сбрасывается).
func (s *Session) ApplyQuery(q models.Query) error {
	const op = "service/session/ApplyQuery"

	q = normalizeQuery(q)
	if err := q.Filters.Validate(); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	s.stopDebounceLocked()
	s.lastUsed = s.svc.now()
	s.edit++
	edit := s.edit
	s.mu.Unlock()

	s.apply(edit, q)

	return nil
}

// apply применяет правку edit; правка, которую уже сменила более новая, отбрасывается.
func (s *Session) apply(edit uint64, q models.Query) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if edit != s.edit {
		s.mu.Unlock()
		s.svc.metrics.Superseded()
		log.From(s.ctx).Debug("query_superseded", "op", "service/session/apply", "edit", edit)
		return
	}

	s.query = q
	s.reset = true
	s.mu.Unlock()

	s.refresh()
}

// LoadMore расширяет видимое окно на paging.load_more_step, не пересчитывая выборку.
func (s *Session) LoadMore() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.visible += s.svc.loadMoreStep()
		s.lastUsed = s.svc.now()
	}

	return s.viewLocked()
}

// Append добавляет пачку в рабочий набор (дедупликация по CommentID: повтор обновляет запись,
// закладки и позиция сохраняются). Записи чужого видео игнорируются.
func (s *Session) Append(batch []models.Comment) {
	if len(batch) == 0 {
		return
	}

	s.mu.Lock()
	if s.closed || s.videoID == "" {
		s.mu.Unlock()
		return
	}

	own := make([]models.Comment, 0, len(batch))
	for i := range batch {
		if batch[i].VideoID == "" || batch[i].VideoID == s.videoID {
			own = append(own, batch[i])
		}
	}

	s.mergeLocked(own)
	s.mu.Unlock()

	s.refresh()
}

// updateRecord меняет запись рабочего набора (закладки/заметки) и пересчитывает выборку.
func (s *Session) updateRecord(videoID, commentID string, fn func(*models.Comment)) {
	s.mu.Lock()
	if s.closed || s.videoID != videoID {
		s.mu.Unlock()
		return
	}

	i, ok := s.index[commentID]
	if !ok {
		s.mu.Unlock()
		return
	}

	fn(&s.records[i])
	s.mu.Unlock()

	s.refresh()
}

// View возвращает видимое состояние.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = s.svc.now()

	return s.viewLocked()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastUsed
}

// VideoID возвращает текущий контекст сессии.
func (s *Session) VideoID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.videoID
}

// Close останавливает отложенные запросы и отменяет фоновую загрузку.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.closed = true
	s.stopDebounceLocked()
	s.mu.Unlock()

	s.cancel()
}

// refresh пересчитывает выборку над снимком состояния.
// После нового запроса (reset) окно возвращается к одному шагу.
func (s *Session) refresh() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.gen++
	gen, ctxGen := s.gen, s.ctxGen
	ready := s.loaded == s.ctxGen
	q := s.query
	records := make([]models.Comment, len(s.records))
	copy(records, s.records)
	s.mu.Unlock()

	rs := s.svc.evaluate(records, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen || ctxGen != s.ctxGen {
		s.svc.metrics.Superseded()
		log.From(s.ctx).Debug("query_superseded", "op", "service/session/refresh")
		return
	}

	s.result = rs
	if s.reset {
		s.visible = s.svc.loadMoreStep()
		s.reset = false
	}

	if ready {
		s.loading = false
	}
}

func (s *Session) mergeLocked(batch []models.Comment) {
	for i := range batch {
		c := batch[i]
		if j, ok := s.index[c.CommentID]; ok {
			prev := s.records[j]
			c.Position = prev.Position
			c.IsBookmarked = prev.IsBookmarked
			c.BookmarkAddedDate = prev.BookmarkAddedDate
			c.Note = prev.Note
			s.records[j] = c
			continue
		}

		s.index[c.CommentID] = len(s.records)
		s.records = append(s.records, c)
	}
}

func (s *Session) viewLocked() View {
	total := s.result.total()

	return View{
		SessionID:  s.id,
		VideoID:    s.videoID,
		Query:      s.query,
		Items:      s.result.window(0, s.visible),
		HasMore:    s.visible < total,
		TotalCount: int64(total),
		Loading:    s.loading,
	}
}

func (s *Session) stopDebounceLocked() {
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
}

func (s *Service) loadMoreStep() int {
	if s.cfg.Paging.LoadMoreStep > 0 {
		return s.cfg.Paging.LoadMoreStep
	}

	return 10
}

func (s *Service) loadTimeout() time.Duration {
	if s.cfg.Timeouts.Service > 0 {
		return s.cfg.Timeouts.Service
	}

	return 5 * time.Second
}

func storeOp(err error) string {
	var se *storeError
	if errors.As(err, &se) {
		return se.op
	}

	return "unknown"
}
