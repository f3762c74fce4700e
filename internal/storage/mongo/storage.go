// Package mongo implements the storage contracts on top of MongoDB, the
// document database the service was first deployed on.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/adanyl0v/taskflow/internal/storage"
)

const (
	usersCollection     = "users"
	tasksCollection     = "tasks"
	foldersCollection   = "folders"
	teamsCollection     = "teams"
	habitsCollection    = "habits"
	habitLogsCollection = "habit_logs"
	sessionsCollection  = "sessions"
)

type Storage struct {
	logger  zerolog.Logger
	client  *mongo.Client
	users   *mongo.Collection
	tasks   *mongo.Collection
	folders *mongo.Collection
	teams   *mongo.Collection

	habits    *mongo.Collection
	habitLogs *mongo.Collection
	sessions  *mongo.Collection
}

var _ storage.Storage = (*Storage)(nil)

func New(logger zerolog.Logger, client *mongo.Client, database string) *Storage {
	db := client.Database(database)
	return &Storage{
		logger:  logger,
		client:  client,
		users:   db.Collection(usersCollection),
		tasks:   db.Collection(tasksCollection),
		folders: db.Collection(foldersCollection),
		teams:   db.Collection(teamsCollection),

		habits:    db.Collection(habitsCollection),
		habitLogs: db.Collection(habitLogsCollection),
		sessions:  db.Collection(sessionsCollection),
	}
}

// EnsureIndexes creates the unique indexes and the listing indexes.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}

	_, err = s.teams.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "members", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create teams index: %w", err)
	}

	_, err = s.habits.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "sharedWith", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create habits indexes: %w", err)
	}

	_, err = s.habitLogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "habitId", Value: 1},
			{Key: "userId", Value: 1},
			{Key: "date", Value: -1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create habit logs index: %w", err)
	}

	_, err = s.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "refreshTokenHash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "lastActivity", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create sessions indexes: %w", err)
	}

	s.logger.Info().Msg("ensured mongo indexes")
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	doc := new(T)
	err := coll.FindOne(ctx, filter).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	docs := make([]T, 0)
	err = cursor.All(ctx, &docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func notFoundIfUnmatched(matched int64) error {
	if matched == 0 {
		return storage.ErrNotFound
	}
	return nil
}
