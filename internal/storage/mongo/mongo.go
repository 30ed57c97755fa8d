package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pribylovaa/comment-ranker/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	commentsCollection = "comments"
	defaultDBName      = "comment_ranker"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	cfg      *config.Config
	client   *mongodriver.Client
	db       *mongodriver.Database
	comments *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL))

	m := &Mongo{
		cfg:      cfg,
		client:   cli,
		db:       db,
		comments: db.Collection(commentsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Close закрывает соединение с MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping проверяет доступность primary (для /healthz).
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// ensureIndexes создает индексы, необходимые для выборок:
// - уникальность комментария в пределах видео: video_id + comment_id
// - естественный порядок корней: video_id + reply_level + position
// - ответы по родителям: video_id + parent_id + position
// - сортировки, которые делает хранилище: published_date, likes, reply_count
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "comment_id", Value: 1}},
			Options: options.Index().SetName("video_comment_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "reply_level", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("video_level_position"),
		},
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("video_parent_position"),
		},
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "reply_level", Value: 1}, {Key: "published_date", Value: 1}},
			Options: options.Index().SetName("video_level_published"),
		},
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "reply_level", Value: 1}, {Key: "likes", Value: 1}},
			Options: options.Index().SetName("video_level_likes"),
		},
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "reply_level", Value: 1}, {Key: "reply_count", Value: 1}},
			Options: options.Index().SetName("video_level_replies"),
		},
	}

	_, err := m.comments.Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}
