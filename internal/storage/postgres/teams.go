package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

const selectTeamColumns = `
SELECT t.id::text,
       t.owner_id::text,
       t.name,
       ARRAY(SELECT m.user_id::text
             FROM team_members m
             WHERE m.team_id = t.id
             ORDER BY m.joined_at, m.user_id) AS member_ids,
       t.created_at,
       t.updated_at
FROM teams t
`

func scanTeam(row pgx.Row) (*models.Team, error) {
	team := new(models.Team)
	err := row.Scan(
		&team.ID,
		&team.OwnerID,
		&team.Name,
		&team.MemberIDs,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *Storage) CreateTeam(ctx context.Context, team *models.Team) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTeamQuery = `
INSERT INTO teams (id,
                   owner_id,
                   name,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = tx.Exec(
		ctx,
		insertTeamQuery,
		team.ID,
		team.OwnerID,
		team.Name,
		team.CreatedAt,
		team.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert team")
		return err
	}

	const insertMemberQuery = `
INSERT INTO team_members (team_id, user_id, joined_at)
VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING
`
	for _, memberID := range team.MemberIDs {
		_, err = tx.Exec(ctx, insertMemberQuery, team.ID, memberID, team.CreatedAt)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("team_id", team.ID).
				Str("user_id", memberID).
				Msg("failed to insert team member")
			return err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}
	s.logger.Debug().
		Str("team_id", team.ID).
		Int("members", len(team.MemberIDs)).
		Msg("inserted team")
	return nil
}

func (s *Storage) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	team, err := scanTeam(s.pool.QueryRow(ctx, selectTeamColumns+`WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("team_id", id).
			Msg("failed to select team")
		return nil, err
	}
	return team, nil
}

func (s *Storage) ListTeamsByMemberID(ctx context.Context, userID string) ([]*models.Team, error) {
	const listTeamsQuery = selectTeamColumns + `
WHERE EXISTS (SELECT 1
              FROM team_members m
              WHERE m.team_id = t.id AND m.user_id = $1)
ORDER BY t.created_at DESC
`
	rows, err := s.pool.Query(ctx, listTeamsQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select teams by member id")
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan team")
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (s *Storage) UpdateTeam(ctx context.Context, team *models.Team) error {
	const updateTeamQuery = `
UPDATE teams
SET name = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := s.pool.Exec(ctx, updateTeamQuery, team.Name, team.UpdatedAt, team.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("team_id", team.ID).
			Msg("failed to update team")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) AddTeamMember(ctx context.Context, teamID, userID string) error {
	const insertMemberQuery = `
INSERT INTO team_members (team_id, user_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	tag, err := s.pool.Exec(ctx, insertMemberQuery, teamID, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("team_id", teamID).
			Str("user_id", userID).
			Msg("failed to insert team member")
		return err
	}
	s.logger.Debug().
		Str("team_id", teamID).
		Int64("affected", tag.RowsAffected()).
		Msg("added team member")
	return nil
}

func (s *Storage) DeleteTeam(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("team_id", id).
			Msg("failed to delete team")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) DeleteTeamsByOwnerID(ctx context.Context, ownerID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM teams WHERE owner_id = $1`, ownerID)
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
	_, err := s.pool.Exec(ctx, `DELETE FROM team_members WHERE user_id = $1`, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to remove member from teams")
		return err
	}
	return nil
}
