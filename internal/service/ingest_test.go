package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/comment-ranker/internal/ingest"
	"github.com/pribylovaa/comment-ranker/internal/models"
)

func raws() []ingest.RawComment {
	return []ingest.RawComment{
		{CommentID: "a", Author: "@ann", Content: "see 1:23 https://example.com", Likes: 4},
		{CommentID: "", Content: "dropped"},
		{CommentID: "r", CommentParentID: "a", Content: "thanks", ReplyLevel: 1},
	}
}

func TestService_Ingest_Validation(t *testing.T) {
	s, _, _ := newServiceWithMocks(t, testConfig())

	_, err := s.Ingest(context.Background(), " ", raws(), false)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

// Позиции приёма монотонны между пачками; признаки посчитаны при приёме.
func TestService_Ingest_SavesWithPositions(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())
	ctx := context.Background()

	var saved [][]models.Comment
	ms.EXPECT().SaveComments(gomock.Any(), "v1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, cs []models.Comment) error {
			saved = append(saved, cs)
			return nil
		}).Times(2)

	n, err := s.Ingest(ctx, "v1", raws(), false)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = s.Ingest(ctx, "v1", raws()[:1], false)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.Len(t, saved, 2)
	first, second := saved[0], saved[1]
	require.Equal(t, "a", first[0].CommentID)
	require.True(t, first[0].HasLinks)
	require.True(t, first[0].HasTimestamp)
	require.EqualValues(t, 3, first[0].WordCount)
	require.Equal(t, "a", first[1].ParentID)
	require.Less(t, first[0].Position, first[1].Position)
	require.Greater(t, second[0].Position, first[1].Position)
}

// replace=true удаляет сохранённый контекст перед записью.
func TestService_Ingest_Replace(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())

	gomock.InOrder(
		ms.EXPECT().DeleteByVideo(gomock.Any(), "v1").Return(nil),
		ms.EXPECT().SaveComments(gomock.Any(), "v1", gomock.Any()).Return(nil),
	)

	n, err := s.Ingest(context.Background(), "v1", raws(), true)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

// Пустая пачка с replace очищает видео, не вызывая SaveComments.
func TestService_Ingest_ReplaceWithEmptyBatch(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())

	ms.EXPECT().DeleteByVideo(gomock.Any(), "v1").Return(nil)

	n, err := s.Ingest(context.Background(), "v1", nil, true)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestService_Ingest_StoreErrors(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())
	ctx := context.Background()

	ms.EXPECT().SaveComments(gomock.Any(), "v1", gomock.Any()).Return(errors.New("boom"))
	_, err := s.Ingest(ctx, "v1", raws(), false)
	require.ErrorIs(t, err, ErrInternal)

	ms.EXPECT().DeleteByVideo(gomock.Any(), "v1").Return(errors.New("boom"))
	_, err = s.Ingest(ctx, "v1", raws(), true)
	require.ErrorIs(t, err, ErrInternal)
}

// Живая сессия на видео получает принятую пачку.
func TestService_Ingest_AppendsToLiveSessions(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())
	ctx := context.Background()

	ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return(nil, nil)
	ms.EXPECT().SaveComments(gomock.Any(), "v1", gomock.Any()).Return(nil)

	sess, err := s.OpenSession(ctx, "v1")
	require.NoError(t, err)
	waitLoaded(t, sess)

	other, err := s.OpenSession(ctx, "")
	require.NoError(t, err)

	_, err = s.Ingest(ctx, "v1", raws(), false)
	require.NoError(t, err)

	v := sess.View()
	require.Equal(t, []string{"a", "r"}, itemIDs(v.Items))
	require.EqualValues(t, 1, v.TotalCount)

	require.Empty(t, other.View().Items)
}

// replace=true перезагружает живые сессии видео.
func TestService_Ingest_ReplaceReloadsSessions(t *testing.T) {
	s, ms, _ := newServiceWithMocks(t, testConfig())
	ctx := context.Background()

	stale := top("old", 1)
	fresh := top("a", 4)
	gomock.InOrder(
		ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return([]models.Comment{stale}, nil),
		ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", []string{"old"}).Return(nil, nil),
		ms.EXPECT().DeleteByVideo(gomock.Any(), "v1").Return(nil),
		ms.EXPECT().SaveComments(gomock.Any(), "v1", gomock.Any()).Return(nil),
		ms.EXPECT().GetCommentsByPage(gomock.Any(), "v1", 0, 500).Return([]models.Comment{fresh}, nil),
		ms.EXPECT().GetCommentReplies(gomock.Any(), "v1", []string{"a"}).Return(nil, nil),
	)

	sess, err := s.OpenSession(ctx, "v1")
	require.NoError(t, err)
	waitLoaded(t, sess)

	_, err = s.Ingest(ctx, "v1", raws()[:1], true)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		v := sess.View()
		return !v.Loading && len(v.Items) == 1 && v.Items[0].CommentID == "a"
	}, 2*time.Second, 5*time.Millisecond)
}
