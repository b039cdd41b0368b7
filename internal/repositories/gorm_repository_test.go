package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anonto42/petconnect/backend/internal/models"
)

type GormRepositorySuite struct {
	suite.Suite
	db            *gorm.DB
	users         *PostgresUserRepository
	pets          *PostgresPetRepository
	reminders     *PostgresReminderRepository
	comments      *PostgresCommentRepository
	notifications NotificationRepository
	ctx           context.Context
}

func TestGormRepositorySuite(t *testing.T) {
	suite.Run(t, new(GormRepositorySuite))
}

func (s *GormRepositorySuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(s.T().Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(
		&models.UserProfile{},
		&models.Pet{},
		&models.Reminder{},
		&models.Comment{},
		&models.Notification{},
	))

	s.db = db
	s.ctx = context.Background()
	s.users = NewPostgresUserRepository(db)
	s.pets = NewPostgresPetRepository(db)
	s.reminders = NewPostgresReminderRepository(db)
	s.comments = NewPostgresCommentRepository(db)
	s.notifications = NewPostgresNotificationRepository(db)
}

func (s *GormRepositorySuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (s *GormRepositorySuite) createUser(id, userName string, discoverable bool) *models.UserProfile {
	u := &models.UserProfile{
		ID:           id,
		Email:        id + "@example.com",
		UserName:     userName,
		Discoverable: discoverable,
	}
	s.Require().NoError(s.users.CreateUser(s.ctx, u))
	return u
}

func (s *GormRepositorySuite) TestGetUserByIDNotFound() {
	_, err := s.users.GetUserByID(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *GormRepositorySuite) TestGetUserByEmailIsCaseInsensitive() {
	s.createUser("sara", "sara_paws", true)

	u, err := s.users.GetUserByEmail(s.ctx, "SARA@example.com")
	s.Require().NoError(err)
	s.Equal("sara", u.ID)
}

func (s *GormRepositorySuite) TestUsersWithoutEmailDoNotCollide() {
	for _, id := range []string{"phone-1", "phone-2"} {
		s.Require().NoError(s.users.CreateUser(s.ctx, &models.UserProfile{ID: id, UserName: id}))
	}
	s.createUser("sara", "sara_paws", true)

	dup := &models.UserProfile{ID: "sara-2", Email: "sara@example.com", UserName: "sara_again"}
	s.Error(s.users.CreateUser(s.ctx, dup))

	_, err := s.users.GetUserByEmail(s.ctx, "")
	s.ErrorIs(err, ErrNotFound)
}

func (s *GormRepositorySuite) TestNonDiscoverableUserIsPersisted() {
	s.createUser("chen", "chen_walks_dogs", false)

	u, err := s.users.GetUserByID(s.ctx, "chen")
	s.Require().NoError(err)
	s.False(u.Discoverable)
}

func (s *GormRepositorySuite) TestPetIDsAreASet() {
	s.createUser("arjun", "arjun_and_luna", true)

	s.Require().NoError(s.users.AddPetID(s.ctx, "arjun", "luna"))
	s.Require().NoError(s.users.AddPetID(s.ctx, "arjun", "luna"))
	s.Require().NoError(s.users.AddPetID(s.ctx, "arjun", "biscuit"))
	s.Require().NoError(s.users.RemovePetID(s.ctx, "arjun", "biscuit"))
	s.Require().NoError(s.users.RemovePetID(s.ctx, "arjun", "biscuit"))

	u, err := s.users.GetUserByID(s.ctx, "arjun")
	s.Require().NoError(err)
	s.Equal(models.UserSet{"luna"}, u.PetIDs)
	s.Equal(3, u.Version)
}

func (s *GormRepositorySuite) TestUnchangedPetIDsSkipTheWrite() {
	s.createUser("priya", "priya_and_kiwi", true)
	s.Require().NoError(s.users.ReplacePetIDs(s.ctx, "priya", []string{"kiwi", "mango"}))

	s.Require().NoError(s.users.AddPetID(s.ctx, "priya", "kiwi"))
	s.Require().NoError(s.users.RemovePetID(s.ctx, "priya", "ghost"))
	s.Require().NoError(s.users.ReplacePetIDs(s.ctx, "priya", []string{"mango", "kiwi"}))

	u, err := s.users.GetUserByID(s.ctx, "priya")
	s.Require().NoError(err)
	s.Equal(1, u.Version)
	s.ElementsMatch([]string{"kiwi", "mango"}, []string(u.PetIDs))
}

func (s *GormRepositorySuite) TestUpdateProfileLeavesPetIDsAlone() {
	u := s.createUser("sara", "sara_paws", true)
	s.Require().NoError(s.users.AddPetID(s.ctx, "sara", "max"))

	u.Bio = "Golden retriever mom"
	u.Discoverable = false
	s.Require().NoError(s.users.UpdateProfile(s.ctx, u))

	got, err := s.users.GetUserByID(s.ctx, "sara")
	s.Require().NoError(err)
	s.Equal("Golden retriever mom", got.Bio)
	s.False(got.Discoverable)
	s.Equal(models.UserSet{"max"}, got.PetIDs)
}

func (s *GormRepositorySuite) TestSearchUsersByNameAndBreed() {
	s.createUser("sara", "sara_paws", true)
	s.createUser("arjun", "arjun_and_luna", true)
	s.createUser("chen", "chen_walks_dogs", false)
	s.Require().NoError(s.pets.CreatePet(s.ctx, &models.Pet{ID: "max", OwnerID: "sara", Name: "Max", Breed: "Golden Retriever", Age: "4"}))
	s.Require().NoError(s.pets.CreatePet(s.ctx, &models.Pet{ID: "luna", OwnerID: "arjun", Name: "Luna", Breed: "Indie", Age: "2"}))
	s.Require().NoError(s.pets.CreatePet(s.ctx, &models.Pet{ID: "apollo", OwnerID: "chen", Name: "Apollo", Breed: "Golden Retriever", Age: "1"}))

	byBreed, err := s.users.SearchUsers(s.ctx, "", "golden", 0)
	s.Require().NoError(err)
	s.Require().Len(byBreed, 1)
	s.Equal("sara", byBreed[0].ID)

	byName, err := s.users.SearchUsers(s.ctx, "LUNA", "", 10)
	s.Require().NoError(err)
	s.Require().Len(byName, 1)
	s.Equal("arjun", byName[0].ID)

	hidden, err := s.users.SearchUsers(s.ctx, "chen", "", 10)
	s.Require().NoError(err)
	s.Empty(hidden)
}

func (s *GormRepositorySuite) TestCompleteOnboarding() {
	s.createUser("priya", "", true)
	pets := []models.Pet{{ID: "kiwi", Name: "Kiwi", Breed: "Parakeet", Age: "1"}}

	u, err := s.users.CompleteOnboarding(s.ctx, "priya", "priya_and_kiwi", "Bird person", pets)
	s.Require().NoError(err)
	s.True(u.OnboardingCompleted)
	s.Equal(models.UserSet{"kiwi"}, u.PetIDs)

	stored, err := s.pets.GetPetsByOwner(s.ctx, "priya")
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal("Kiwi", stored[0].Name)
}

func (s *GormRepositorySuite) TestCompleteOnboardingRollsBackOnFailure() {
	s.createUser("priya", "", true)
	s.Require().NoError(s.pets.CreatePet(s.ctx, &models.Pet{ID: "dup", OwnerID: "someone", Name: "A", Breed: "B", Age: "1"}))
	pets := []models.Pet{
		{ID: "kiwi", Name: "Kiwi", Breed: "Parakeet", Age: "1"},
		{ID: "dup", Name: "Clash", Breed: "Parakeet", Age: "1"},
	}

	_, err := s.users.CompleteOnboarding(s.ctx, "priya", "priya_and_kiwi", "", pets)
	s.Require().Error(err)

	_, err = s.pets.GetPetByID(s.ctx, "kiwi")
	s.ErrorIs(err, ErrNotFound)
	u, err := s.users.GetUserByID(s.ctx, "priya")
	s.Require().NoError(err)
	s.False(u.OnboardingCompleted)
}

func (s *GormRepositorySuite) TestPetLifecycle() {
	s.Require().NoError(s.pets.CreatePet(s.ctx, &models.Pet{ID: "rocky", OwnerID: "chen", Name: "Rocky", Breed: "French Bulldog", Age: "3"}))

	p, err := s.pets.GetPetByID(s.ctx, "rocky")
	s.Require().NoError(err)
	p.Bio = "Snores"
	s.Require().NoError(s.pets.UpdatePet(s.ctx, p))

	p, err = s.pets.GetPetByID(s.ctx, "rocky")
	s.Require().NoError(err)
	s.Equal("Snores", p.Bio)

	s.Require().NoError(s.pets.DeletePet(s.ctx, "rocky"))
	s.ErrorIs(s.pets.DeletePet(s.ctx, "rocky"), ErrNotFound)
}

func (s *GormRepositorySuite) TestRemindersOrderedByDueTime() {
	later := time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC)
	sooner := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.reminders.CreateReminder(s.ctx, &models.Reminder{UserID: "sara", Title: "Vet", DateTime: later}))
	s.Require().NoError(s.reminders.CreateReminder(s.ctx, &models.Reminder{UserID: "sara", Title: "Grooming", DateTime: sooner}))
	s.Require().NoError(s.reminders.CreateReminder(s.ctx, &models.Reminder{UserID: "arjun", Title: "Walk", DateTime: sooner}))

	list, err := s.reminders.GetRemindersByUser(s.ctx, "sara")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Grooming", list[0].Title)

	s.Require().NoError(s.reminders.SetCompleted(s.ctx, list[0].ID, true))
	r, err := s.reminders.GetReminderByID(s.ctx, list[0].ID)
	s.Require().NoError(err)
	s.True(r.Completed)

	s.Require().NoError(s.reminders.DeleteReminder(s.ctx, r.ID))
	s.ErrorIs(s.reminders.SetCompleted(s.ctx, r.ID, false), ErrNotFound)
}

func (s *GormRepositorySuite) TestCommentsByTarget() {
	s.Require().NoError(s.comments.CreateComment(s.ctx, &models.Comment{TargetType: models.CommentTargetPost, TargetID: "p1", AuthorID: "sara", Content: "Cute!"}))
	s.Require().NoError(s.comments.CreateComment(s.ctx, &models.Comment{TargetType: models.CommentTargetAdvice, TargetID: "p1", AuthorID: "arjun", Content: "Try a harness"}))

	list, err := s.comments.GetCommentsByTarget(s.ctx, models.CommentTargetPost, "p1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Cute!", list[0].Content)

	s.Require().NoError(s.comments.DeleteComment(s.ctx, list[0].ID))
	_, err = s.comments.GetCommentByID(s.ctx, list[0].ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *GormRepositorySuite) TestNotificationsReadState() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.notifications.CreateNotification(s.ctx, &models.Notification{
			Type: models.NotificationLike, ActorID: "arjun", RecipientID: "sara", TargetID: "p1", TargetType: "post",
		}))
	}

	items, total, err := s.notifications.GetByRecipientID(s.ctx, "sara", 1, 2)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(items, 2)

	s.Require().NoError(s.notifications.MarkAsRead(s.ctx, items[0].ID))
	unread, err := s.notifications.GetUnreadCount(s.ctx, "sara")
	s.Require().NoError(err)
	s.Equal(int64(2), unread)

	s.Require().NoError(s.notifications.MarkAllAsRead(s.ctx, "sara"))
	unread, err = s.notifications.GetUnreadCount(s.ctx, "sara")
	s.Require().NoError(err)
	s.Zero(unread)
}

func TestUserSetColumnRoundTrip(t *testing.T) {
	var s models.UserSet
	require.NoError(t, s.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, models.UserSet{"a", "b"}, s)

	v, err := models.UserSet(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
