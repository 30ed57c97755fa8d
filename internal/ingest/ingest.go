// Package ingest преобразует «сырые» комментарии (как их отдаёт сборщик со страницы)
// в models.Comment. Производные поля (WordCount, HasLinks, HasTimestamp, ReplyLevel,
// PublishedDate) считаются здесь один раз и дальше не пересчитываются.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/comment-ranker/internal/models"
)

// ErrEmptyVideoID — не задан идентификатор видео (контекста).
var ErrEmptyVideoID = errors.New("ingest: empty video id")

// RawComment — комментарий в формате сборщика.
type RawComment struct {
	CommentID              string `json:"commentId"`
	CommentParentID        string `json:"commentParentId,omitempty"`
	ReplyLevel             int    `json:"replyLevel,omitempty"`
	Author                 string `json:"author"`
	Content                string `json:"content"`
	Likes                  Count  `json:"likes"`
	ReplyCount             Count  `json:"replyCount"`
	Published              string `json:"published"`
	PublishedDate          int64  `json:"publishedDate,omitempty"`
	IsAuthorContentCreator bool   `json:"isAuthorContentCreator"`
	IsHearted              bool   `json:"isHearted"`
	IsMember               bool   `json:"isMember"`
	IsDonated              bool   `json:"isDonated"`
}

// Count — неотрицательный счётчик; принимает число или строку вида "1,234", "1.2K", "3M".
// Нераспознанное значение — 0.
type Count int64

// UnmarshalJSON реализует json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("ingest: count: %w", err)
		}

		*c = ParseCount(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*c = 0
		return nil
	}

	*c = Count(max(int64(f), 0))
	return nil
}

// ParseCount разбирает отображаемый счётчик: "", "12", "1,234", "1.2K", "3M", "1B".
func ParseCount(s string) Count {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}

	mult := 1.0
	switch s[len(s)-1] {
	case 'K':
		mult, s = 1e3, s[:len(s)-1]
	case 'M':
		mult, s = 1e6, s[:len(s)-1]
	case 'B':
		mult, s = 1e9, s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}

	return Count(f*mult + 0.5)
}

var (
	linkRe      = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+`)
	timestampRe = regexp.MustCompile(`(?:^|[^\d:])(?:\d{1,2}:)?[0-5]?\d:[0-5]\d(?:$|[^\d:])`)
	relativeRe  = regexp.MustCompile(`(?i)^(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago`)
)

// Parser — преобразователь сырых комментариев. Now задаёт «текущее время»
// для относительных дат ("3 days ago").
type Parser struct {
	Now func() time.Time
}

var defaultParser = Parser{Now: time.Now}

// Parse — преобразование парсером по умолчанию (см. Parser.Parse).
func Parse(videoID string, raws []RawComment) ([]models.Comment, error) {
	return defaultParser.Parse(videoID, raws)
}

// Parse преобразует пачку в комментарии видео videoID.
// Записи без commentId отбрасываются; Position — индекс в исходной пачке.
func (p Parser) Parse(videoID string, raws []RawComment) ([]models.Comment, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, ErrEmptyVideoID
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	ref := now()
	out := make([]models.Comment, 0, len(raws))
	for i := range raws {
		r := &raws[i]
		id := strings.TrimSpace(r.CommentID)
		if id == "" {
			continue
		}

		c := models.Comment{
			VideoID:                videoID,
			CommentID:              id,
			Position:               int64(i),
			Author:                 r.Author,
			Content:                r.Content,
			Likes:                  max(int64(r.Likes), 0),
			ReplyCount:             max(int64(r.ReplyCount), 0),
			Published:              r.Published,
			PublishedDate:          max(r.PublishedDate, 0),
			IsAuthorContentCreator: r.IsAuthorContentCreator,
			IsHearted:              r.IsHearted,
			IsMember:               r.IsMember,
			IsDonated:              r.IsDonated,
		}

		// ReplyLevel > 0 тогда и только тогда, когда есть родитель.
		if parent := strings.TrimSpace(r.CommentParentID); parent != "" && parent != id {
			c.ParentID = parent
			c.ReplyLevel = max(r.ReplyLevel, 1)
		}

		if c.PublishedDate == 0 {
			c.PublishedDate = publishedMillis(r.Published, ref)
		}

		c.WordCount = WordCount(c.Content)
		c.HasLinks = HasLinks(c.Content)
		c.HasTimestamp = HasTimestamp(c.Content)

		out = append(out, c)
	}

	return out, nil
}

// WordCount — число слов, разделённых пробельными символами.
func WordCount(s string) int64 {
	return int64(len(strings.Fields(s)))
}

// HasLinks сообщает, есть ли в тексте ссылка (http(s):// или www.).
func HasLinks(s string) bool {
	return linkRe.MatchString(s)
}

// HasTimestamp сообщает, есть ли в тексте отметка времени видео (m:ss или h:mm:ss).
func HasTimestamp(s string) bool {
	return timestampRe.MatchString(s)
}

// publishedMillis разбирает RFC3339 или относительную дату ("2 weeks ago", "1 year ago (edited)").
// Нераспознанное — 0.
func publishedMillis(s string, ref time.Time) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli()
	}

	m := relativeRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}

	var t time.Time
	switch strings.ToLower(m[2]) {
	case "second":
		t = ref.Add(-time.Duration(n) * time.Second)
	case "minute":
		t = ref.Add(-time.Duration(n) * time.Minute)
	case "hour":
		t = ref.Add(-time.Duration(n) * time.Hour)
	case "day":
		t = ref.AddDate(0, 0, -n)
	case "week":
		t = ref.AddDate(0, 0, -7*n)
	case "month":
		t = ref.AddDate(0, -n, 0)
	case "year":
		t = ref.AddDate(-n, 0, 0)
	}

	return t.UnixMilli()
}
