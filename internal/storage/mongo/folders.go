package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

type folderDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Name      string    `bson:"name"`
	Color     string    `bson:"color"`
	IsPrivate bool      `bson:"isPrivate"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *folderDocument) model() *models.Folder {
	return &models.Folder{
		ID:        d.ID,
		UserID:    d.UserID,
		Name:      d.Name,
		Color:     d.Color,
		IsPrivate: d.IsPrivate,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *Storage) CreateFolder(ctx context.Context, folder *models.Folder) error {
	_, err := s.folders.InsertOne(ctx, folderDocument{
		ID:        folder.ID,
		UserID:    folder.UserID,
		Name:      folder.Name,
		Color:     folder.Color,
		IsPrivate: folder.IsPrivate,
		CreatedAt: folder.CreatedAt,
		UpdatedAt: folder.UpdatedAt,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", folder.UserID).
			Msg("failed to insert folder")
		return err
	}
	return nil
}

func (s *Storage) GetFolderByID(ctx context.Context, id string) (*models.Folder, error) {
	doc, err := findOne[folderDocument](ctx, s.folders, bson.M{"_id": id})
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Err(err).
				Str("folder_id", id).
				Msg("failed to find folder")
		}
		return nil, err
	}
	return doc.model(), nil
}

func (s *Storage) ListFoldersByUserID(ctx context.Context, userID string) ([]*models.Folder, error) {
	docs, err := findMany[folderDocument](ctx, s.folders,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to find folders by user id")
		return nil, err
	}

	folders := make([]*models.Folder, 0, len(docs))
	for i := range docs {
		folders = append(folders, docs[i].model())
	}
	return folders, nil
}

func (s *Storage) UpdateFolder(ctx context.Context, folder *models.Folder) error {
	result, err := s.folders.UpdateOne(ctx, bson.M{"_id": folder.ID}, bson.M{
		"$set": bson.M{
			"name":      folder.Name,
			"color":     folder.Color,
			"isPrivate": folder.IsPrivate,
			"updatedAt": folder.UpdatedAt,
		},
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("folder_id", folder.ID).
			Msg("failed to update folder")
		return err
	}
	return notFoundIfUnmatched(result.MatchedCount)
}

func (s *Storage) DeleteFolder(ctx context.Context, id string) error {
	result, err := s.folders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("folder_id", id).
			Msg("failed to delete folder")
		return err
	}
	return notFoundIfUnmatched(result.DeletedCount)
}

func (s *Storage) DeleteFoldersByUserID(ctx context.Context, userID string) error {
	_, err := s.folders.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete folders by user id")
		return err
	}
	return nil
}
