package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

type teamServiceImpl struct {
	logger zerolog.Logger
	teams  storage.TeamRepository
	users  storage.UserRepository
	tasks  storage.TaskRepository
}

func NewTeamService(
	logger zerolog.Logger,
	teams storage.TeamRepository,
	users storage.UserRepository,
	tasks storage.TaskRepository,
) TeamService {
	return &teamServiceImpl{
		logger: logger,
		teams:  teams,
		users:  users,
		tasks:  tasks,
	}
}

func (s *teamServiceImpl) ListTeams(ctx context.Context, userID string) ([]*models.Team, error) {
	teams, err := s.teams.ListTeamsByMemberID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *teamServiceImpl) CreateTeam(ctx context.Context, params CreateTeamParams) (*models.Team, error) {
	name, err := models.ParseTeamName(params.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	team := &models.Team{
		OwnerID:   params.UserID,
		Name:      name,
		MemberIDs: []string{params.UserID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, memberID := range params.MemberIDs {
		if team.HasMember(memberID) {
			continue
		}
		err = s.checkUser(ctx, memberID)
		if err != nil {
			return nil, err
		}
		team.MemberIDs = append(team.MemberIDs, memberID)
	}

	team.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate team id")
		return nil, err
	}

	err = s.teams.CreateTeam(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	s.logger.Info().
		Str("team_id", team.ID).
		Str("user_id", team.OwnerID).
		Msg("created team")
	return team, nil
}

func (s *teamServiceImpl) UpdateTeam(ctx context.Context, params UpdateTeamParams) (*models.Team, error) {
	team, err := s.getOwnedTeam(ctx, params.ID, params.UserID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		team.Name, err = models.ParseTeamName(*params.Name)
		if err != nil {
			return nil, err
		}
	}
	team.UpdatedAt = time.Now()

	err = s.teams.UpdateTeam(ctx, team)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	s.logger.Info().
		Str("team_id", team.ID).
		Msg("updated team")
	return team, nil
}

func (s *teamServiceImpl) DeleteTeam(ctx context.Context, userID, teamID string) error {
	team, err := s.getOwnedTeam(ctx, teamID, userID)
	if err != nil {
		return err
	}

	err = s.tasks.DetachTasksFromTeam(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("failed to detach tasks: %w", err)
	}

	err = s.teams.DeleteTeam(ctx, team.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	s.logger.Info().
		Str("team_id", team.ID).
		Str("user_id", userID).
		Msg("deleted team")
	return nil
}

func (s *teamServiceImpl) AddMember(ctx context.Context, params AddMemberParams) (*models.Team, error) {
	team, err := s.getOwnedTeam(ctx, params.TeamID, params.UserID)
	if err != nil {
		return nil, err
	}
	if team.HasMember(params.MemberID) {
		return team, nil
	}

	err = s.checkUser(ctx, params.MemberID)
	if err != nil {
		return nil, err
	}

	err = s.teams.AddTeamMember(ctx, team.ID, params.MemberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}
	team.MemberIDs = append(team.MemberIDs, params.MemberID)

	s.logger.Info().
		Str("team_id", team.ID).
		Str("member_id", params.MemberID).
		Msg("added team member")
	return team, nil
}

func (s *teamServiceImpl) getOwnedTeam(ctx context.Context, teamID, userID string) (*models.Team, error) {
	if !isValidID(teamID) {
		return nil, ErrTeamNotFound
	}

	team, err := s.teams.GetTeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if team.OwnerID != userID {
		s.logger.Warn().
			Str("team_id", team.ID).
			Str("user_id", userID).
			Msg("access to a team owned by another user")
		return nil, ErrForbidden
	}
	return team, nil
}

func (s *teamServiceImpl) checkUser(ctx context.Context, userID string) error {
	if !isValidID(userID) {
		return ErrUserNotFound
	}

	_, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	return nil
}
