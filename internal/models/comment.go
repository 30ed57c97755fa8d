// Package models содержит доменные сущности comment-ranker.
package models

import "time"

// Comment — комментарий к видео (корневой или ответ).
// Важно:
//   - CommentID уникален в пределах видео (VideoID — идентификатор контекста);
//   - ParentID задан тогда и только тогда, когда ReplyLevel > 0, и ссылается на корень;
//   - WordCount и булевы признаки считаются один раз при приёме (см. internal/ingest)
//     и дальше никем не пересчитываются;
//   - Position — порядок приёма, «естественный» порядок хранилища;
//   - IsBookmarked/BookmarkAddedDate/Note меняются только операциями закладок,
//     фильтры/сортировка/поиск их просто переносят;
//   - ExpandReplies — признак представления, выставляется поиском у подтянутых родителей.
type Comment struct {
	VideoID   string `json:"videoId" bson:"video_id"`
	CommentID string `json:"commentId" bson:"comment_id"`
	ParentID  string `json:"commentParentId,omitempty" bson:"parent_id"`
	// ReplyLevel: 0 — корень, >= 1 — ответ.
	ReplyLevel int `json:"replyLevel" bson:"reply_level"`
	Position   int64 `json:"position" bson:"position"`

	Author  string `json:"author" bson:"author"`
	Content string `json:"content" bson:"content"`

	Likes      int64 `json:"likes" bson:"likes"`
	ReplyCount int64 `json:"replyCount" bson:"reply_count"`
	WordCount  int64 `json:"wordCount" bson:"word_count"`

	// PublishedDate — epoch-миллисекунды; Published — строка для отображения.
	PublishedDate int64  `json:"publishedDate" bson:"published_date"`
	Published     string `json:"published" bson:"published"`

	IsAuthorContentCreator bool `json:"isAuthorContentCreator" bson:"is_author_content_creator"`
	IsHearted              bool `json:"isHearted" bson:"is_hearted"`
	IsMember               bool `json:"isMember" bson:"is_member"`
	IsDonated              bool `json:"isDonated" bson:"is_donated"`
	HasTimestamp           bool `json:"hasTimestamp" bson:"has_timestamp"`
	HasLinks               bool `json:"hasLinks" bson:"has_links"`

	IsBookmarked      bool       `json:"isBookmarked" bson:"is_bookmarked"`
	BookmarkAddedDate *time.Time `json:"bookmarkAddedDate,omitempty" bson:"bookmark_added_date,omitempty"`
	Note              string     `json:"note,omitempty" bson:"note,omitempty"`

	ExpandReplies bool `json:"showRepliesDefault,omitempty" bson:"-"`
}

// IsReply сообщает, является ли запись ответом.
func (c *Comment) IsReply() bool {
	return c.ReplyLevel > 0
}

// IsTopLevel сообщает, является ли запись корневым комментарием.
func (c *Comment) IsTopLevel() bool {
	return c.ReplyLevel <= 0
}

// TopLevel возвращает корневые записи в исходном порядке.
func TopLevel(records []Comment) []Comment {
	out := make([]Comment, 0, len(records))
	for i := range records {
		if records[i].IsTopLevel() {
			out = append(out, records[i])
		}
	}

	return out
}

// RepliesByParent группирует ответы по ParentID, сохраняя исходный порядок.
func RepliesByParent(records []Comment) map[string][]Comment {
	out := make(map[string][]Comment)
	for i := range records {
		c := &records[i]
		if c.IsReply() && c.ParentID != "" {
			out[c.ParentID] = append(out[c.ParentID], *c)
		}
	}

	return out
}

// WithReplies «разворачивает» корни: каждый корень, затем его прямые ответы.
func WithReplies(parents []Comment, replies map[string][]Comment) []Comment {
	out := make([]Comment, 0, len(parents))
	for i := range parents {
		out = append(out, parents[i])
		out = append(out, replies[parents[i].CommentID]...)
	}

	return out
}
