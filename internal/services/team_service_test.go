package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

func newTestTeamService(store *storageMock) TeamService {
	return NewTeamService(newTestLogger(), store, store, store)
}

func TestTeamService_CreateTeam_OwnerIsMember(t *testing.T) {
	store := new(storageMock)
	service := newTestTeamService(store)
	ownerID := mustNewID(t)
	memberID := mustNewID(t)

	store.On("GetUserByID", mock.Anything, memberID).Return(&models.User{ID: memberID}, nil).Once()
	store.On("CreateTeam", mock.Anything, mock.AnythingOfType("*models.Team")).Return(nil).Once()

	team, err := service.CreateTeam(context.Background(), CreateTeamParams{
		UserID:    ownerID,
		Name:      "Core",
		MemberIDs: []string{memberID, ownerID, memberID},
	})
	require.NoError(t, err)
	assert.Equal(t, ownerID, team.OwnerID)
	assert.Equal(t, []string{ownerID, memberID}, team.MemberIDs)
	store.AssertExpectations(t)
}

func TestTeamService_CreateTeam_UnknownMember(t *testing.T) {
	store := new(storageMock)
	service := newTestTeamService(store)
	memberID := mustNewID(t)

	store.On("GetUserByID", mock.Anything, memberID).Return(nil, storage.ErrNotFound).Once()

	_, err := service.CreateTeam(context.Background(), CreateTeamParams{
		UserID:    mustNewID(t),
		Name:      "Core",
		MemberIDs: []string{memberID},
	})
	require.ErrorIs(t, err, ErrUserNotFound)
	store.AssertNotCalled(t, "CreateTeam", mock.Anything, mock.Anything)
}

func TestTeamService_AddMember(t *testing.T) {
	store := new(storageMock)
	service := newTestTeamService(store)
	ownerID := mustNewID(t)
	memberID := mustNewID(t)
	team := &models.Team{ID: mustNewID(t), OwnerID: ownerID, MemberIDs: []string{ownerID}}

	store.On("GetTeamByID", mock.Anything, team.ID).Return(team, nil).Twice()
	store.On("GetUserByID", mock.Anything, memberID).Return(&models.User{ID: memberID}, nil).Once()
	store.On("AddTeamMember", mock.Anything, team.ID, memberID).Return(nil).Once()

	updated, err := service.AddMember(context.Background(), AddMemberParams{
		TeamID:   team.ID,
		UserID:   ownerID,
		MemberID: memberID,
	})
	require.NoError(t, err)
	assert.True(t, updated.HasMember(memberID))

	// Adding again is a no-op.
	_, err = service.AddMember(context.Background(), AddMemberParams{
		TeamID:   team.ID,
		UserID:   ownerID,
		MemberID: memberID,
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTeamService_OnlyOwnerMayManage(t *testing.T) {
	store := new(storageMock)
	service := newTestTeamService(store)
	ownerID := mustNewID(t)
	memberID := mustNewID(t)
	team := &models.Team{ID: mustNewID(t), OwnerID: ownerID, MemberIDs: []string{ownerID, memberID}}

	store.On("GetTeamByID", mock.Anything, team.ID).Return(team, nil)

	name := "Renamed"
	_, err := service.UpdateTeam(context.Background(), UpdateTeamParams{ID: team.ID, UserID: memberID, Name: &name})
	require.ErrorIs(t, err, ErrForbidden)

	err = service.DeleteTeam(context.Background(), memberID, team.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = service.AddMember(context.Background(), AddMemberParams{TeamID: team.ID, UserID: memberID, MemberID: mustNewID(t)})
	require.ErrorIs(t, err, ErrForbidden)

	store.AssertNotCalled(t, "UpdateTeam", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteTeam", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "AddTeamMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamService_DeleteTeam(t *testing.T) {
	store := new(storageMock)
	service := newTestTeamService(store)
	ownerID := mustNewID(t)
	team := &models.Team{ID: mustNewID(t), OwnerID: ownerID, MemberIDs: []string{ownerID}}

	store.On("GetTeamByID", mock.Anything, team.ID).Return(team, nil).Once()
	store.On("DetachTasksFromTeam", mock.Anything, team.ID).Return(nil).Once()
	store.On("DeleteTeam", mock.Anything, team.ID).Return(nil).Once()

	err := service.DeleteTeam(context.Background(), ownerID, team.ID)
	require.NoError(t, err)
	store.AssertExpectations(t)
}
