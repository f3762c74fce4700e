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

type teamDocument struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"ownerId"`
	Name      string    `bson:"name"`
	Members   []string  `bson:"members"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *teamDocument) model() *models.Team {
	members := d.Members
	if members == nil {
		members = make([]string, 0)
	}
	return &models.Team{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		MemberIDs: members,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *Storage) CreateTeam(ctx context.Context, team *models.Team) error {
	_, err := s.teams.InsertOne(ctx, teamDocument{
		ID:        team.ID,
		OwnerID:   team.OwnerID,
		Name:      team.Name,
		Members:   team.MemberIDs,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert team")
		return err
	}
	s.logger.Debug().
		Str("team_id", team.ID).
		Int("members", len(team.MemberIDs)).
		Msg("inserted team")
	return nil
}

func (s *Storage) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	doc, err := findOne[teamDocument](ctx, s.teams, bson.M{"_id": id})
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Err(err).
				Str("team_id", id).
				Msg("failed to find team")
		}
		return nil, err
	}
	return doc.model(), nil
}

func (s *Storage) ListTeamsByMemberID(ctx context.Context, userID string) ([]*models.Team, error) {
	docs, err := findMany[teamDocument](ctx, s.teams,
		bson.M{"members": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to find teams by member id")
		return nil, err
	}

	teams := make([]*models.Team, 0, len(docs))
	for i := range docs {
		teams = append(teams, docs[i].model())
	}
	return teams, nil
}

func (s *Storage) UpdateTeam(ctx context.Context, team *models.Team) error {
	result, err := s.teams.UpdateOne(ctx, bson.M{"_id": team.ID}, bson.M{
		"$set": bson.M{
			"name":      team.Name,
			"updatedAt": team.UpdatedAt,
		},
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("team_id", team.ID).
			Msg("failed to update team")
		return err
	}
	return notFoundIfUnmatched(result.MatchedCount)
}

func (s *Storage) AddTeamMember(ctx context.Context, teamID, userID string) error {
	result, err := s.teams.UpdateOne(ctx,
		bson.M{"_id": teamID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("team_id", teamID).
			Str("user_id", userID).
			Msg("failed to add team member")
		return err
	}
	s.logger.Debug().
		Str("team_id", teamID).
		Int64("affected", result.ModifiedCount).
		Msg("added team member")
	return notFoundIfUnmatched(result.MatchedCount)
}

func (s *Storage) DeleteTeam(ctx context.Context, id string) error {
	result, err := s.teams.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("team_id", id).
			Msg("failed to delete team")
		return err
	}
	return notFoundIfUnmatched(result.DeletedCount)
}

func (s *Storage) DeleteTeamsByOwnerID(ctx context.Context, ownerID string) error {
	_, err := s.teams.DeleteMany(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", ownerID).
			Msg("failed to delete teams by owner id")
		return err
	}
	return nil
}

func (s *Storage) RemoveMemberFromTeams(ctx context.Context, userID string) error {
	_, err := s.teams.UpdateMany(ctx,
		bson.M{"members": userID},
		bson.M{"$pull": bson.M{"members": userID}},
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to remove member from teams")
		return err
	}
	return nil
}
