package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/comment-ranker/pkg/log"
)

// OpenSession создаёт сессию просмотра. Если videoID не пуст, сразу
// начинается загрузка контекста (см. Session.SwitchContext).
func (s *Service) OpenSession(ctx context.Context, videoID string) (*Session, error) {
	const op = "service/sessions/OpenSession"

	id := uuid.NewString()
	sess := newSession(s, id)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.metrics.SessionOpened()
	log.From(ctx).Info("session_opened", "op", op, "session_id", id, "video_id", strings.TrimSpace(videoID))

	if strings.TrimSpace(videoID) != "" {
		sess.SwitchContext(videoID)
	}

	return sess, nil
}

// Session возвращает живую сессию по идентификатору.
func (s *Service) Session(id string) (*Session, error) {
	const op = "service/sessions/Session"

	s.mu.Lock()
	sess, ok := s.sessions[strings.TrimSpace(id)]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	return sess, nil
}

// CloseSession закрывает и удаляет сессию.
func (s *Service) CloseSession(id string) error {
	const op = "service/sessions/CloseSession"

	s.mu.Lock()
	sess, ok := s.sessions[strings.TrimSpace(id)]
	if ok {
		delete(s.sessions, sess.id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}

	sess.Close()
	s.metrics.SessionClosed()

	return nil
}

// Run вытесняет сессии, простаивающие дольше sessions.idle_ttl, пока ctx не отменён.
// При отмене закрывает все сессии.
func (s *Service) Run(ctx context.Context) error {
	const op = "service/sessions/Run"

	lg := log.From(ctx).With("op", op)

	ttl := s.cfg.Sessions.IdleTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	ticker := time.NewTicker(max(ttl/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n := s.closeAll()
			lg.Info("sessions_closed", "count", n)
			return nil
		case <-ticker.C:
			if n := s.evictIdle(s.now()); n > 0 {
				lg.Info("sessions_evicted", "count", n)
			}
		}
	}
}

// evictIdle закрывает сессии, к которым не обращались дольше idle_ttl.
func (s *Service) evictIdle(now time.Time) int {
	ttl := s.cfg.Sessions.IdleTTL
	if ttl <= 0 {
		return 0
	}

	var idle []*Session

	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > ttl {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.Close()
		s.metrics.SessionClosed()
	}

	return len(idle)
}

func (s *Service) closeAll() int {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.Close()
		s.metrics.SessionClosed()
	}

	return len(all)
}

// liveSessions — сессии, открытые на видео videoID.
func (s *Service) liveSessions(videoID string) []*Session {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.Unlock()

	out := all[:0]
	for _, sess := range all {
		if sess.VideoID() == videoID {
			out = append(out, sess)
		}
	}

	return out
}
