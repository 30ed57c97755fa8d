package mongo

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pribylovaa/comment-ranker/internal/config"
	"github.com/pribylovaa/comment-ranker/internal/models"
	"github.com/pribylovaa/comment-ranker/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sortFields — ключи сортировки, которые умеет хранилище.
var sortFields = map[models.SortKey]string{
	models.SortDate:    "published_date",
	models.SortLikes:   "likes",
	models.SortReplies: "reply_count",
}

// limitOrDefault приводит запрошенный размер страницы к [PageSize, max(MaxPageSize, LoadChunk)].
// LoadChunk — порция полной загрузки контекста, она может превышать пользовательский предел.
func limitOrDefault(cfg *config.Config, pageSize int) int64 {
	lim := pageSize
	if lim <= 0 {
		lim = cfg.Paging.PageSize
	}

	if top := max(cfg.Paging.MaxPageSize, cfg.Paging.LoadChunk); lim > top {
		lim = top
	}

	return int64(lim)
}

// pageArgs проверяет аргументы страничной выборки и возвращает skip/limit.
func (m *Mongo) pageArgs(videoID string, page, pageSize int) (skip, limit int64, err error) {
	if strings.TrimSpace(videoID) == "" || page < 0 {
		return 0, 0, storage.ErrInvalidArgument
	}

	limit = limitOrDefault(m.cfg, pageSize)
	if limit > 0 && int64(page) > math.MaxInt64/limit-1 {
		return 0, 0, storage.ErrInvalidArgument
	}

	return int64(page) * limit, limit, nil
}

func topLevel(videoID string) bson.D {
	return bson.D{
		{Key: "video_id", Value: videoID},
		{Key: "reply_level", Value: 0},
	}
}

// withBasic добавляет к фильтру активные булевы флаги.
func withBasic(filter bson.D, f models.BasicFilters) bson.D {
	flags := []struct {
		on    bool
		field string
	}{
		{f.Verified, "is_author_content_creator"},
		{f.HasLinks, "has_links"},
		{f.Hearted, "is_hearted"},
		{f.Member, "is_member"},
		{f.Donated, "is_donated"},
		{f.Timestamp, "has_timestamp"},
	}

	for _, fl := range flags {
		if fl.on {
			filter = append(filter, bson.E{Key: fl.field, Value: true})
		}
	}

	return filter
}

// naturalOrder — порядок приёма; comment_id разрешает равенства.
var naturalOrder = bson.D{{Key: "position", Value: 1}, {Key: "comment_id", Value: 1}}

// find выполняет выборку и декодирует документы.
func (m *Mongo) find(ctx context.Context, op string, filter bson.D, opts *options.FindOptions) ([]models.Comment, error) {
	cur, err := m.comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Comment, 0)
	for cur.Next(ctx) {
		var comm models.Comment
		if err := cur.Decode(&comm); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		if comm.BookmarkAddedDate != nil {
			utc := comm.BookmarkAddedDate.UTC()
			comm.BookmarkAddedDate = &utc
		}

		items = append(items, comm)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// GetCommentCount возвращает число корневых комментариев видео.
func (m *Mongo) GetCommentCount(ctx context.Context, videoID string) (int64, error) {
	const op = "storage/mongo/GetCommentCount"

	if strings.TrimSpace(videoID) == "" {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	n, err := m.comments.CountDocuments(ctx, topLevel(videoID))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// GetCommentsByPage возвращает страницу корней в порядке приёма (position ASC).
func (m *Mongo) GetCommentsByPage(ctx context.Context, videoID string, page, pageSize int) ([]models.Comment, error) {
	const op = "storage/mongo/GetCommentsByPage"

	skip, limit, err := m.pageArgs(videoID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m.find(ctx, op, topLevel(videoID), options.Find().
		SetSort(naturalOrder).
		SetSkip(skip).
		SetLimit(limit))
}

// GetCommentReplies возвращает прямые ответы на указанные корни (position ASC).
func (m *Mongo) GetCommentReplies(ctx context.Context, videoID string, parentIDs []string) ([]models.Comment, error) {
	const op = "storage/mongo/GetCommentReplies"

	if strings.TrimSpace(videoID) == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	if len(parentIDs) == 0 {
		return []models.Comment{}, nil
	}

	filter := bson.D{
		{Key: "video_id", Value: videoID},
		{Key: "parent_id", Value: bson.D{{Key: "$in", Value: parentIDs}}},
		{Key: "reply_level", Value: bson.D{{Key: "$gt", Value: 0}}},
	}

	return m.find(ctx, op, filter, options.Find().SetSort(naturalOrder))
}

// GetFilteredComments возвращает страницу корней с активными булевыми флагами.
func (m *Mongo) GetFilteredComments(ctx context.Context, videoID string, f models.BasicFilters, page, pageSize int) ([]models.Comment, error) {
	const op = "storage/mongo/GetFilteredComments"

	skip, limit, err := m.pageArgs(videoID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m.find(ctx, op, withBasic(topLevel(videoID), f), options.Find().
		SetSort(naturalOrder).
		SetSkip(skip).
		SetLimit(limit))
}

// CountFilteredComments возвращает число корней с активными булевыми флагами.
func (m *Mongo) CountFilteredComments(ctx context.Context, videoID string, f models.BasicFilters) (int64, error) {
	const op = "storage/mongo/CountFilteredComments"

	if strings.TrimSpace(videoID) == "" {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	n, err := m.comments.CountDocuments(ctx, withBasic(topLevel(videoID), f))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// GetSortedComments возвращает страницу корней, отсортированных по date/likes/replies.
// Равные значения упорядочены по position ASC (устойчиво, как сортировка в памяти).
func (m *Mongo) GetSortedComments(ctx context.Context, videoID string, key models.SortKey, order models.SortOrder, page, pageSize int) ([]models.Comment, error) {
	const op = "storage/mongo/GetSortedComments"

	field, ok := sortFields[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUnsupportedSort)
	}

	skip, limit, err := m.pageArgs(videoID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dir := -1
	if order == models.OrderAsc {
		dir = 1
	}

	return m.find(ctx, op, topLevel(videoID), options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "position", Value: 1}, {Key: "comment_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit))
}

// SaveComments сохраняет пачку одним bulk-запросом (upsert по video_id+comment_id).
// position выставляется только при вставке, поля закладок не трогаются.
func (m *Mongo) SaveComments(ctx context.Context, videoID string, comments []models.Comment) error {
	const op = "storage/mongo/SaveComments"

	if strings.TrimSpace(videoID) == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	if len(comments) == 0 {
		return nil
	}

	writes := make([]mongodriver.WriteModel, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		if strings.TrimSpace(c.CommentID) == "" {
			return fmt.Errorf("%s: empty comment id: %w", op, storage.ErrInvalidArgument)
		}

		writes = append(writes, mongodriver.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "video_id", Value: videoID}, {Key: "comment_id", Value: c.CommentID}}).
			SetUpdate(bson.D{
				{Key: "$set", Value: bson.D{
					{Key: "parent_id", Value: c.ParentID},
					{Key: "reply_level", Value: c.ReplyLevel},
					{Key: "author", Value: c.Author},
					{Key: "content", Value: c.Content},
					{Key: "likes", Value: c.Likes},
					{Key: "reply_count", Value: c.ReplyCount},
					{Key: "word_count", Value: c.WordCount},
					{Key: "published_date", Value: c.PublishedDate},
					{Key: "published", Value: c.Published},
					{Key: "is_author_content_creator", Value: c.IsAuthorContentCreator},
					{Key: "is_hearted", Value: c.IsHearted},
					{Key: "is_member", Value: c.IsMember},
					{Key: "is_donated", Value: c.IsDonated},
					{Key: "has_timestamp", Value: c.HasTimestamp},
					{Key: "has_links", Value: c.HasLinks},
				}},
				{Key: "$setOnInsert", Value: bson.D{
					{Key: "position", Value: c.Position},
					{Key: "is_bookmarked", Value: false},
				}},
			}).
			SetUpsert(true))
	}

	if _, err := m.comments.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("%s: bulk write: %w", op, err)
	}

	return nil
}

// DeleteByVideo удаляет все комментарии видео.
func (m *Mongo) DeleteByVideo(ctx context.Context, videoID string) error {
	const op = "storage/mongo/DeleteByVideo"

	if strings.TrimSpace(videoID) == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	if _, err := m.comments.DeleteMany(ctx, bson.D{{Key: "video_id", Value: videoID}}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SetBookmark ставит/снимает закладку. При отсутствии записи — storage.ErrNotFound.
func (m *Mongo) SetBookmark(ctx context.Context, videoID, commentID string, bookmarked bool) error {
	const op = "storage/mongo/SetBookmark"

	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "is_bookmarked", Value: false}}},
		{Key: "$unset", Value: bson.D{{Key: "bookmark_added_date", Value: ""}}},
	}

	if bookmarked {
		// MongoDB DateTime хранит миллисекунды.
		now := time.Now().UTC().Truncate(time.Millisecond)
		update = bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "is_bookmarked", Value: true},
				{Key: "bookmark_added_date", Value: now},
			}},
		}
	}

	return m.updateOne(ctx, op, videoID, commentID, update)
}

// SetNote сохраняет заметку (пустая строка — удалить). При отсутствии записи — storage.ErrNotFound.
func (m *Mongo) SetNote(ctx context.Context, videoID, commentID, note string) error {
	const op = "storage/mongo/SetNote"

	update := bson.D{{Key: "$set", Value: bson.D{{Key: "note", Value: note}}}}
	if note == "" {
		update = bson.D{{Key: "$unset", Value: bson.D{{Key: "note", Value: ""}}}}
	}

	return m.updateOne(ctx, op, videoID, commentID, update)
}

func (m *Mongo) updateOne(ctx context.Context, op, videoID, commentID string, update bson.D) error {
	if strings.TrimSpace(videoID) == "" || strings.TrimSpace(commentID) == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	res, err := m.comments.UpdateOne(ctx, bson.D{
		{Key: "video_id", Value: videoID},
		{Key: "comment_id", Value: commentID},
	}, update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
