//go:build integration

package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

const testDatabase = "taskflow_test"

type StorageSuite struct {
	suite.Suite

	client  *mongo.Client
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupSuite() {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(3*time.Second))
	if err != nil {
		s.T().Skipf("skipping mongo suite: %v", err)
	}
	s.client = client
	s.storage = New(zerolog.Nop(), client, testDatabase)

	err = s.storage.Ping(ctx)
	if err != nil {
		s.T().Skipf("skipping mongo suite: %v", err)
	}
	s.Require().NoError(s.storage.EnsureIndexes(ctx))
}

func (s *StorageSuite) TearDownSuite() {
	if s.client == nil {
		return
	}
	ctx := context.Background()
	_ = s.client.Database(testDatabase).Drop(ctx)
	_ = s.client.Disconnect(ctx)
}

func (s *StorageSuite) SetupTest() {
	ctx := context.Background()
	for _, coll := range []*mongo.Collection{
		s.storage.users,
		s.storage.tasks,
		s.storage.folders,
		s.storage.teams,
		s.storage.habits,
		s.storage.habitLogs,
		s.storage.sessions,
	} {
		_, err := coll.DeleteMany(ctx, map[string]any{})
		s.Require().NoError(err)
	}
}

func (s *StorageSuite) newUser(email string) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         "Jane",
		Email:        email,
		PasswordHash: "hash",
		AuthProvider: models.AuthProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.Require().NoError(s.storage.CreateUser(context.Background(), user))
	return user
}

func (s *StorageSuite) TestCreateUser_DuplicateEmail() {
	s.newUser("jane@example.com")

	err := s.storage.CreateUser(context.Background(), &models.User{
		ID:    uuid.NewString(),
		Email: "jane@example.com",
	})
	s.ErrorIs(err, storage.ErrDuplicate)
}

func (s *StorageSuite) TestTrashFilters() {
	ctx := context.Background()
	user := s.newUser("jane@example.com")

	base := time.Now().UTC().Truncate(time.Millisecond)
	active := &models.Task{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Title:     "active",
		Status:    models.StatusTodo,
		Priority:  models.PriorityLow,
		CreatedAt: base,
		UpdatedAt: base,
	}
	deletedAt := base.Add(time.Minute)
	trashed := &models.Task{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Title:     "trashed",
		Status:    models.StatusDone,
		Priority:  models.PriorityHigh,
		DeletedAt: &deletedAt,
		CreatedAt: base.Add(time.Second),
		UpdatedAt: base,
	}
	s.Require().NoError(s.storage.CreateTask(ctx, active))
	s.Require().NoError(s.storage.CreateTask(ctx, trashed))

	got, err := s.storage.ListTasksByUserID(ctx, user.ID, storage.TaskFilter{})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(active.ID, got[0].ID)

	got, err = s.storage.ListTasksByUserID(ctx, user.ID, storage.TaskFilter{Trashed: true})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(trashed.ID, got[0].ID)
}

func (s *StorageSuite) TestTeamMembers() {
	ctx := context.Background()
	owner := s.newUser("owner@example.com")
	member := s.newUser("member@example.com")

	team := &models.Team{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Name:      "Platform",
		MemberIDs: []string{owner.ID},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.storage.CreateTeam(ctx, team))
	s.Require().NoError(s.storage.AddTeamMember(ctx, team.ID, member.ID))
	s.Require().NoError(s.storage.AddTeamMember(ctx, team.ID, member.ID))

	got, err := s.storage.GetTeamByID(ctx, team.ID)
	s.Require().NoError(err)
	s.Equal([]string{owner.ID, member.ID}, got.MemberIDs)

	s.ErrorIs(s.storage.AddTeamMember(ctx, uuid.NewString(), member.ID), storage.ErrNotFound)

	s.Require().NoError(s.storage.RemoveMemberFromTeams(ctx, member.ID))
	teams, err := s.storage.ListTeamsByMemberID(ctx, member.ID)
	s.Require().NoError(err)
	s.Empty(teams)
}

func (s *StorageSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	id := uuid.NewString()

	_, err := s.storage.GetTaskByID(ctx, id)
	s.ErrorIs(err, storage.ErrNotFound)
	_, err = s.storage.GetFolderByID(ctx, id)
	s.ErrorIs(err, storage.ErrNotFound)
	_, err = s.storage.GetTeamByID(ctx, id)
	s.ErrorIs(err, storage.ErrNotFound)
	_, err = s.storage.GetHabitByID(ctx, id)
	s.ErrorIs(err, storage.ErrNotFound)
	_, err = s.storage.GetSessionByID(ctx, id)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StorageSuite) newHabit(owner *models.User, name string, createdAt time.Time) *models.Habit {
	habit := &models.Habit{
		ID:        uuid.NewString(),
		UserID:    owner.ID,
		Name:      name,
		Category:  models.CategoryHealth,
		Frequency: models.FrequencyDaily,
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	s.Require().NoError(s.storage.CreateHabit(context.Background(), habit))
	return habit
}

func (s *StorageSuite) TestHabitsSharedAndFiltered() {
	ctx := context.Background()
	owner := s.newUser("owner@example.com")
	friend := s.newUser("friend@example.com")

	base := time.Now().UTC().Truncate(time.Millisecond)
	water := s.newHabit(owner, "Water", base)
	read := s.newHabit(owner, "Read", base.Add(time.Second))
	read.IsActive = false
	read.Category = models.CategoryLearning
	read.UpdatedAt = base.Add(time.Minute)
	s.Require().NoError(s.storage.UpdateHabit(ctx, read))

	s.Require().NoError(s.storage.ShareHabit(ctx, water.ID, friend.ID, base.Add(time.Minute)))
	s.Require().NoError(s.storage.ShareHabit(ctx, water.ID, friend.ID, base.Add(time.Minute)))
	s.ErrorIs(s.storage.ShareHabit(ctx, uuid.NewString(), friend.ID, base), storage.ErrNotFound)

	got, err := s.storage.GetHabitByID(ctx, water.ID)
	s.Require().NoError(err)
	s.Equal([]string{friend.ID}, got.SharedWith)

	habits, err := s.storage.ListHabitsByUserID(ctx, owner.ID, storage.HabitFilter{})
	s.Require().NoError(err)
	s.Require().Len(habits, 2)
	s.Equal(read.ID, habits[0].ID)

	active := true
	habits, err = s.storage.ListHabitsByUserID(ctx, owner.ID, storage.HabitFilter{IsActive: &active})
	s.Require().NoError(err)
	s.Require().Len(habits, 1)
	s.Equal(water.ID, habits[0].ID)

	category := models.CategoryLearning
	habits, err = s.storage.ListHabitsByUserID(ctx, owner.ID, storage.HabitFilter{Category: &category})
	s.Require().NoError(err)
	s.Require().Len(habits, 1)
	s.Equal(read.ID, habits[0].ID)

	habits, err = s.storage.ListHabitsByUserID(ctx, friend.ID, storage.HabitFilter{})
	s.Require().NoError(err)
	s.Require().Len(habits, 1)
	s.Equal(water.ID, habits[0].ID)

	s.Require().NoError(s.storage.UnshareHabit(ctx, water.ID, friend.ID, base.Add(2*time.Minute)))
	habits, err = s.storage.ListHabitsByUserID(ctx, friend.ID, storage.HabitFilter{})
	s.Require().NoError(err)
	s.Empty(habits)
}

func (s *StorageSuite) TestHabitLogsUpsertAndRange() {
	ctx := context.Background()
	owner := s.newUser("owner@example.com")
	now := time.Now().UTC().Truncate(time.Millisecond)
	habit := s.newHabit(owner, "Water", now)

	day := func(d int) time.Time { return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC) }
	first := &models.HabitLog{
		ID:        uuid.NewString(),
		HabitID:   habit.ID,
		UserID:    owner.ID,
		Date:      day(1),
		Completed: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.storage.UpsertHabitLog(ctx, first))

	replaced := &models.HabitLog{
		ID:        uuid.NewString(),
		HabitID:   habit.ID,
		UserID:    owner.ID,
		Date:      day(1),
		Completed: false,
		Notes:     "skipped",
		CreatedAt: now.Add(time.Hour),
		UpdatedAt: now.Add(time.Hour),
	}
	s.Require().NoError(s.storage.UpsertHabitLog(ctx, replaced))
	s.Equal(first.ID, replaced.ID)

	for _, d := range []int{2, 5} {
		s.Require().NoError(s.storage.UpsertHabitLog(ctx, &models.HabitLog{
			ID:        uuid.NewString(),
			HabitID:   habit.ID,
			UserID:    owner.ID,
			Date:      day(d),
			Completed: true,
			CreatedAt: now,
			UpdatedAt: now,
		}))
	}

	from, to := day(1), day(2)
	logs, err := s.storage.ListHabitLogs(ctx, habit.ID, owner.ID, storage.HabitLogFilter{From: &from, To: &to})
	s.Require().NoError(err)
	s.Require().Len(logs, 2)
	s.Equal(day(2), logs[0].Date)
	s.Equal(day(1), logs[1].Date)
	s.False(logs[1].Completed)
	s.Equal("skipped", logs[1].Notes)

	s.Require().NoError(s.storage.DeleteHabitLog(ctx, habit.ID, owner.ID, day(5)))
	s.ErrorIs(s.storage.DeleteHabitLog(ctx, habit.ID, owner.ID, day(5)), storage.ErrNotFound)

	s.Require().NoError(s.storage.DeleteHabitsByUserID(ctx, owner.ID))
	logs, err = s.storage.ListHabitLogs(ctx, habit.ID, owner.ID, storage.HabitLogFilter{})
	s.Require().NoError(err)
	s.Empty(logs)
}

func (s *StorageSuite) TestSessionsLifecycle() {
	ctx := context.Background()
	user := s.newUser("jane@example.com")
	now := time.Now().UTC().Truncate(time.Millisecond)

	newSession := func(hash string, lastActivity time.Time, expiresAt time.Time) *models.Session {
		session := &models.Session{
			ID:               uuid.NewString(),
			UserID:           user.ID,
			RefreshTokenHash: hash,
			UserAgent:        "curl/8.0",
			IPAddress:        "127.0.0.1",
			IsActive:         true,
			LastActivityAt:   lastActivity,
			ExpiresAt:        expiresAt,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		s.Require().NoError(s.storage.CreateSession(ctx, session))
		return session
	}
	older := newSession("hash-1", now, now.Add(time.Hour))
	newer := newSession("hash-2", now.Add(time.Minute), now.Add(time.Hour))
	newSession("hash-3", now, now.Add(-time.Minute))

	got, err := s.storage.GetSessionByRefreshTokenHash(ctx, "hash-2")
	s.Require().NoError(err)
	s.Equal(newer.ID, got.ID)

	sessions, err := s.storage.ListActiveSessionsByUserID(ctx, user.ID, now)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(newer.ID, sessions[0].ID)
	s.Equal(older.ID, sessions[1].ID)

	older.IsActive = false
	older.UpdatedAt = now.Add(time.Second)
	s.Require().NoError(s.storage.UpdateSession(ctx, older))

	revoked, err := s.storage.RevokeSessionsByUserID(ctx, user.ID, now.Add(2*time.Second))
	s.Require().NoError(err)
	s.EqualValues(2, revoked)

	sessions, err = s.storage.ListActiveSessionsByUserID(ctx, user.ID, now)
	s.Require().NoError(err)
	s.Empty(sessions)
}
