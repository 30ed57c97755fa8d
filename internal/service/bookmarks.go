package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/comment-ranker/internal/models"
	"github.com/pribylovaa/comment-ranker/internal/storage"
	"github.com/pribylovaa/comment-ranker/pkg/log"
)

// SetBookmark ставит или снимает закладку комментария.
//
// Ошибки: ErrInvalidArgument — пустые идентификаторы; ErrNotFound — записи нет;
// ErrInternal — прочие сбои хранилища.
func (s *Service) SetBookmark(ctx context.Context, videoID, commentID string, bookmarked bool) error {
	const op = "service/bookmarks/SetBookmark"

	videoID, commentID = strings.TrimSpace(videoID), strings.TrimSpace(commentID)
	lg := log.From(ctx).With("op", op, "video_id", videoID, "comment_id", commentID)

	if videoID == "" || commentID == "" {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.SetBookmark(ctx, videoID, commentID, bookmarked); err != nil {
		return s.mapStoreErr(lg, op, "SetBookmark", err)
	}

	now := s.now().UTC()
	for _, sess := range s.liveSessions(videoID) {
		sess.updateRecord(videoID, commentID, func(c *models.Comment) {
			c.IsBookmarked = bookmarked
			c.BookmarkAddedDate = nil
			if bookmarked {
				at := now
				c.BookmarkAddedDate = &at
			}
		})
	}

	lg.Info("bookmark_set", "bookmarked", bookmarked)

	return nil
}

// SetNote сохраняет заметку к комментарию; пустая заметка удаляется.
//
// Ошибки — как у SetBookmark.
func (s *Service) SetNote(ctx context.Context, videoID, commentID, note string) error {
	const op = "service/bookmarks/SetNote"

	videoID, commentID = strings.TrimSpace(videoID), strings.TrimSpace(commentID)
	note = strings.TrimSpace(note)
	lg := log.From(ctx).With("op", op, "video_id", videoID, "comment_id", commentID)

	if videoID == "" || commentID == "" {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.SetNote(ctx, videoID, commentID, note); err != nil {
		return s.mapStoreErr(lg, op, "SetNote", err)
	}

	for _, sess := range s.liveSessions(videoID) {
		sess.updateRecord(videoID, commentID, func(c *models.Comment) { c.Note = note })
	}

	lg.Info("note_set", "empty", note == "")

	return nil
}

// mapStoreErr переводит ошибки storage в ошибки сервиса.
func (s *Service) mapStoreErr(lg *slog.Logger, op, storeOp string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn("not found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrInvalidArgument):
		lg.Warn("invalid argument", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	default:
		s.metrics.StoreFailed(storeOp)
		lg.Error("store_failed", "store_op", storeOp, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
}
