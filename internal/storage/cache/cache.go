// Package cache — Redis-декоратор хранилища: кэширует счётчики комментариев по видео.
//
// Счётчики лежат в Redis Hash "ranker:count:<videoID>": поле "all" — число корней,
// поля "f:<mask>" — число корней под набором булевых флагов. Любая запись в видео
// (SaveComments, DeleteByVideo) удаляет ключ целиком и увеличивает версию "ranker:ver:<videoID>". Ошибки Redis не ломают чтение:
// запрос уходит в хранилище.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/comment-ranker/internal/models"
	"github.com/pribylovaa/comment-ranker/internal/storage"
	"github.com/pribylovaa/comment-ranker/pkg/log"
)

const (
	defaultPrefix = "ranker:count:"
	versionPrefix = "ranker:ver:"
	fieldAll      = "all"
)

// Store — storage.Storage с кэшем счётчиков.
type Store struct {
	storage.Storage

	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// Dial создаёт клиент Redis из URL (например, redis://:pass@host:6379/0) и проверяет его.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return rdb, nil
}

// New оборачивает store кэшем с временем жизни ttl.
func New(store storage.Storage, rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{Storage: store, rdb: rdb, prefix: defaultPrefix, ttl: ttl}
}

func (s *Store) key(videoID string) string { return s.prefix + videoID }

func (s *Store) versionKey(videoID string) string { return versionPrefix + videoID }

// GetCommentCount — read-through кэш числа корней.
func (s *Store) GetCommentCount(ctx context.Context, videoID string) (int64, error) {
	return s.cached(ctx, videoID, fieldAll, func() (int64, error) {
		return s.Storage.GetCommentCount(ctx, videoID)
	})
}

// CountFilteredComments — read-through кэш числа корней под флагами.
func (s *Store) CountFilteredComments(ctx context.Context, videoID string, f models.BasicFilters) (int64, error) {
	return s.cached(ctx, videoID, "f:"+strconv.Itoa(mask(f)), func() (int64, error) {
		return s.Storage.CountFilteredComments(ctx, videoID, f)
	})
}

// SaveComments сохраняет пачку и сбрасывает счётчики видео.
func (s *Store) SaveComments(ctx context.Context, videoID string, comments []models.Comment) error {
	if err := s.Storage.SaveComments(ctx, videoID, comments); err != nil {
		return err
	}

	s.invalidate(ctx, videoID)

	return nil
}

// DeleteByVideo удаляет комментарии видео и сбрасывает счётчики.
func (s *Store) DeleteByVideo(ctx context.Context, videoID string) error {
	if err := s.Storage.DeleteByVideo(ctx, videoID); err != nil {
		return err
	}

	s.invalidate(ctx, videoID)

	return nil
}

// Close закрывает хранилище и клиент Redis.
func (s *Store) Close(ctx context.Context) error {
	return errors.Join(s.Storage.Close(ctx), s.rdb.Close())
}

// cached читает поле счётчика, при промахе берёт значение из хранилища и кладёт его в Redis.
// Запись идёт в транзакции под WATCH ключа версии: если за время чтения из хранилища
// видео успели изменить (invalidate увеличил версию), устаревший счётчик не пишется.
func (s *Store) cached(ctx context.Context, videoID, field string, load func() (int64, error)) (int64, error) {
	lg := log.From(ctx).With("op", "storage/cache/count", "video_id", videoID, "field", field)

	var (
		n       int64
		loaded  bool
		loadErr error
	)

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, s.key(videoID), field).Result()
		switch {
		case err == nil:
			if v, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
				n = v
				return nil
			}
		case !errors.Is(err, redis.Nil):
			return err
		}

		n, loadErr = load()
		loaded = true
		if loadErr != nil {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.key(videoID), field, n)
			pipe.Expire(ctx, s.key(videoID), s.ttl)
			return nil
		})

		return err
	}, s.versionKey(videoID))

	switch {
	case loadErr != nil:
		return 0, loadErr
	case err == nil:
		return n, nil
	case errors.Is(err, redis.TxFailedErr):
		lg.Debug("cache_write_skipped")
	default:
		lg.Warn("cache_failed", "err", err)
	}

	if loaded {
		return n, nil
	}

	return load()
}

// invalidate удаляет счётчики видео и увеличивает его версию.
func (s *Store) invalidate(ctx context.Context, videoID string) {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(videoID))
		pipe.Incr(ctx, s.versionKey(videoID))
		pipe.Expire(ctx, s.versionKey(videoID), s.ttl)
		return nil
	})
	if err != nil {
		log.From(ctx).Warn("cache_invalidate_failed", "op", "storage/cache/invalidate", "video_id", videoID, "err", err)
	}
}

// mask кодирует набор флагов битовой маской (ключ поля кэша).
func mask(f models.BasicFilters) int {
	bits := []bool{f.Verified, f.HasLinks, f.Hearted, f.Member, f.Donated, f.Timestamp}

	m := 0
	for i, on := range bits {
		if on {
			m |= 1 << i
		}
	}

	return m
}
