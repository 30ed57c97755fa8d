package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/comment-ranker/internal/models"
)

// waitLoaded — ждёт окончания фоновой загрузки контекста.
func waitLoaded(t *testing.T, sess *Session) View {
	t.Helper()

	var v View
	require.Eventually(t, func() bool {
		v = sess.View()
		return !v.Loading
	}, 2*time.Second, 5*time.Millisecond)

	return v
}

// Переключение контекста очищает видимое состояние до завершения загрузки.
func TestSession_SwitchContextClearsBeforeLoad(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())
	ctx := context.Background()

	release := make(chan struct{})
	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return(tops(3), nil)
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", gomock.Any()).Return(nil, nil)
	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v2", 0, 500).
		DoAndReturn(func(context.Context, string, int, int) ([]models.Comment, error) {
			<-release
			return []models.Comment{{VideoID: "v2", CommentID: "z"}}, nil
		})
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v2", []string{"z"}).Return(nil, nil)

	sess, err := s.OpenSession(ctx, "v1")
	require.NoError(t, err)

	v := waitLoaded(t, sess)
	require.EqualValues(t, 3, v.TotalCount)

	sess.SwitchContext("v2")

	v = sess.View()
	require.True(t, v.Loading)
	require.Equal(t, "v2", v.VideoID)
	require.Empty(t, v.Items)
	require.Zero(t, v.TotalCount)
	require.False(t, v.HasMore)

	close(release)

	v = waitLoaded(t, sess)
	require.Equal(t, []string{"z"}, itemIDs(v.Items))
}

// Загрузка старого контекста, завершившаяся после переключения, отбрасывается.
func TestSession_SupersededLoadDiscarded(t *testing.T) {
	s, ms, m := newServiceWithMocks(t, testConfig())
	ctx := context.Background()

	release := make(chan struct{})
	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).
		DoAndReturn(func(context.Context, string, int, int) ([]models.Comment, error) {
			<-release
			return tops(2), nil
		})
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", gomock.Any()).Return(nil, nil).AnyTimes()
	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v2", 0, 500).
		Return([]models.Comment{{VideoID: "v2", CommentID: "z"}}, nil)
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v2", []string{"z"}).Return(nil, nil)

	sess, err := s.OpenSession(ctx, "v1")
	require.NoError(t, err)

	sess.SwitchContext("v2")
	v := waitLoaded(t, sess)
	require.Equal(t, []string{"z"}, itemIDs(v.Items))

	close(release)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.SupersededResults) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	v = sess.View()
	require.Equal(t, "v2", v.VideoID)
	require.Equal(t, []string{"z"}, itemIDs(v.Items))
}

// Сбой загрузки контекста — пустой набор, Loading снимается.
func TestSession_LoadFailureIsEmpty(t *testing.T) {
	s, ms, m := newServiceWithMocks(t, testConfig())

	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return(nil, context.DeadlineExceeded)

	sess, err := s.OpenSession(context.Background(), "v1")
	require.NoError(t, err)

	v := waitLoaded(t, sess)
	require.Empty(t, v.Items)
	require.False(t, v.HasMore)
	require.Equal(t, 1.0, testutil.ToFloat64(m.StoreFailures.WithLabelValues("GetCommentsByPage")))
}

// Debounce: применяется только последняя правка.
func TestSession_DebounceLastWins(t *testing.T) {
	cfg := testConfig()
	cfg.Query.Debounce = 200 * time.Millisecond
	s, ms, _ := newServiceWithMocks(t, cfg)

	records := []models.Comment{top("a", 1), top("b", 5), top("c", 3)}
	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return(records, nil)
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", gomock.Any()).Return(nil, nil)

	sess, err := s.OpenSession(context.Background(), "v1")
	require.NoError(t, err)
	waitLoaded(t, sess)

	require.NoError(t, sess.SetQuery(models.Query{Sort: models.Sort{Key: models.SortLikes, Order: models.OrderAsc}}))
	require.NoError(t, sess.SetQuery(models.Query{Filters: models.FilterState{Keyword: "zzz"}}))
	require.NoError(t, sess.SetQuery(models.Query{Sort: models.Sort{Key: models.SortLikes, Order: models.OrderDesc}}))

	// окно ещё не истекло — прежний порядок.
	require.Equal(t, []string{"a", "b", "c"}, itemIDs(sess.View().Items))

	var v View
	require.Eventually(t, func() bool {
		v = sess.View()
		ids := itemIDs(v.Items)
		return len(ids) == 3 && ids[0] == "b" && ids[1] == "c" && ids[2] == "a"
	}, 2*time.Second, 5*time.Millisecond)

	require.Equal(t, models.SortLikes, v.Query.Sort.Key)
	require.Equal(t, models.OrderDesc, v.Query.Sort.Order)
	require.Empty(t, v.Query.Filters.Keyword)
}

// ApplyQuery применяется сразу и сбрасывает окно; некорректные фильтры отклоняются.
func TestSession_ApplyQuery(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())

	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return(tops(25), nil)
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", gomock.Any()).Return(nil, nil)

	sess, err := s.OpenSession(context.Background(), "v1")
	require.NoError(t, err)
	waitLoaded(t, sess)

	sess.LoadMore()
	require.Len(t, sess.View().Items, 20)

	require.NoError(t, sess.ApplyQuery(models.Query{Sort: models.Sort{Key: models.SortLikes, Order: models.OrderDesc}}))

	v := sess.View()
	require.Len(t, v.Items, 10)
	require.Equal(t, "c24", v.Items[0].CommentID)

	bad := models.Query{Filters: models.FilterState{WordCount: models.Range{Min: -1}}}
	err = sess.ApplyQuery(bad)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.ErrorContains(t, err, "service/session/ApplyQuery")
	err = sess.SetQuery(bad)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.ErrorContains(t, err, "service/session/SetQuery")
}

// Отложенная правка, чей таймер уже сработал, не перетирает более новый ApplyQuery.
func TestSession_StaleDebouncedEditDropped(t *testing.T) {
	cfg := testConfig()
	cfg.Query.Debounce = time.Hour
	s, ms, m := newServiceWithMocks(t, cfg)

	records := []models.Comment{top("a", 1), top("b", 5), top("c", 3)}
	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return(records, nil)
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", gomock.Any()).Return(nil, nil)

	sess, err := s.OpenSession(context.Background(), "v1")
	require.NoError(t, err)
	waitLoaded(t, sess)

	older := models.Query{Sort: models.Sort{Key: models.SortLikes, Order: models.OrderAsc}}
	require.NoError(t, sess.SetQuery(older))

	sess.mu.Lock()
	olderEdit := sess.edit
	sess.mu.Unlock()

	require.NoError(t, sess.ApplyQuery(models.Query{Sort: models.Sort{Key: models.SortLikes, Order: models.OrderDesc}}))

	// Так выглядит таймер, сработавший до Stop и дождавшийся блокировки.
	sess.apply(olderEdit, normalizeQuery(older))

	v := sess.View()
	require.Equal(t, models.OrderDesc, v.Query.Sort.Order)
	require.Equal(t, []string{"b", "c", "a"}, itemIDs(v.Items))
	require.GreaterOrEqual(t, testutil.ToFloat64(m.SupersededResults), 1.0)
}

// LoadMore расширяет окно без обращений к хранилищу.
func TestSession_LoadMore(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())

	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return(tops(25), nil).Times(1)
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", gomock.Any()).Return(nil, nil).Times(1)

	sess, err := s.OpenSession(context.Background(), "v1")
	require.NoError(t, err)

	v := waitLoaded(t, sess)
	require.Len(t, v.Items, 10)
	require.True(t, v.HasMore)
	require.EqualValues(t, 25, v.TotalCount)

	v = sess.LoadMore()
	require.Len(t, v.Items, 20)
	require.True(t, v.HasMore)

	v = sess.LoadMore()
	require.Len(t, v.Items, 25)
	require.False(t, v.HasMore)
}

// Append: повтор CommentID обновляет запись, закладка и позиция сохраняются; чужое видео игнорируется.
func TestSession_AppendDedupe(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())

	a := top("a", 1)
	a.IsBookmarked = true
	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return([]models.Comment{a}, nil)
	ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", []string{"a"}).Return(nil, nil)

	sess, err := s.OpenSession(context.Background(), "v1")
	require.NoError(t, err)
	waitLoaded(t, sess)

	updated := top("a", 42)
	updated.Position = 99
	sess.Append([]models.Comment{updated, top("b", 2), {VideoID: "v9", CommentID: "foreign"}})

	v := sess.View()
	require.Equal(t, []string{"a", "b"}, itemIDs(v.Items))
	require.EqualValues(t, 42, v.Items[0].Likes)
	require.True(t, v.Items[0].IsBookmarked)
	require.Zero(t, v.Items[0].Position)
}

// Закрытая сессия больше не меняется.
func TestSession_ClosedIsInert(t *testing.T) {
	s, _, _ := newServiceWithMocks(t, testConfig())

	sess, err := s.OpenSession(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, s.CloseSession(sess.ID()))

	require.ErrorIs(t, sess.ApplyQuery(models.Query{}), ErrSessionNotFound)
	sess.SwitchContext("v1")
	require.Empty(t, sess.VideoID())

	_, err = s.Session(sess.ID())
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, s.CloseSession(sess.ID()), ErrSessionNotFound)
}

// Сессии, простаивающие дольше idle_ttl, вытесняются.
func TestService_EvictIdle(t *testing.T) {
	var (
		mu  sync.Mutex
		now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	s, _, m := newServiceWithMocks(t, testConfig(), WithClock(clock))
	ctx := context.Background()

	idle, err := s.OpenSession(ctx, "")
	require.NoError(t, err)

	advance(45 * time.Second)
	busy, err := s.OpenSession(ctx, "")
	require.NoError(t, err)

	advance(30 * time.Second)
	busy.View()

	require.Equal(t, 1, s.evictIdle(clock()))

	_, err = s.Session(idle.ID())
	require.ErrorIs(t, err, ErrSessionNotFound)

	got, err := s.Session(busy.ID())
	require.NoError(t, err)
	require.Same(t, busy, got)
	require.Equal(t, 1.0, testutil.ToFloat64(m.SessionsActive))
}

// Run закрывает все сессии при отмене контекста.
func TestService_RunClosesOnCancel(t *testing.T) {
	s, _, m := newServiceWithMocks(t, testConfig())

	_, err := s.OpenSession(context.Background(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	require.Zero(t, testutil.ToFloat64(m.SessionsActive))
}
