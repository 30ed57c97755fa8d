package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/comment-ranker/internal/ingest"
	"github.com/pribylovaa/comment-ranker/pkg/log"
)

// Ingest принимает пачку сырых комментариев видео.
//
// Поведение:
//   - записи разбираются ingest.Parser (производные признаки считаются один раз);
//   - позиции приёма монотонны между вызовами, повторно принятая запись позицию не меняет;
//   - replace=true сначала удаляет сохранённый контекст видео;
//   - живые сессии на этом видео получают пачку (Append) или перезагружаются (replace).
//
// Ошибки: ErrInvalidArgument — пустой videoID; ErrInternal — сбой хранилища.
func (s *Service) Ingest(ctx context.Context, videoID string, raws []ingest.RawComment, replace bool) (int, error) {
	const op = "service/ingest/Ingest"

	videoID = strings.TrimSpace(videoID)
	lg := log.From(ctx).With("op", op, "video_id", videoID)

	comments, err := ingest.Parser{Now: s.now}.Parse(videoID, raws)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyVideoID) {
			lg.Warn("invalid argument: empty video_id")
			return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		return 0, fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
	}

	base := s.nextPositions(len(comments))
	for i := range comments {
		comments[i].Position += base
	}

	if replace {
		if err := s.storage.DeleteByVideo(ctx, videoID); err != nil {
			s.metrics.StoreFailed("DeleteByVideo")
			lg.Error("store_failed", "store_op", "DeleteByVideo", "err", err)
			return 0, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if len(comments) > 0 {
		if err := s.storage.SaveComments(ctx, videoID, comments); err != nil {
			s.metrics.StoreFailed("SaveComments")
			lg.Error("store_failed", "store_op", "SaveComments", "err", err)
			return 0, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	for _, sess := range s.liveSessions(videoID) {
		if replace {
			sess.SwitchContext(videoID)
			continue
		}

		sess.Append(comments)
	}

	lg.Info("comments_ingested", "count", len(comments), "skipped", len(raws)-len(comments), "replace", replace)

	return len(comments), nil
}
