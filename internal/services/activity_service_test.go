package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/huddle-social/backend/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// feedFixture wires the fan-out engine against an in-memory database and a
// map-backed subject store standing in for the content repositories.
type feedFixture struct {
	users       repositories.UserRepository
	friendships repositories.FriendshipRepository
	activities  repositories.ActivityRepository
	registry    *services.SubjectRegistry
	service     *services.ActivityService
	posts       map[string]stubItem
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Friendship{}, &models.Activity{}))

	f := &feedFixture{
		users:       repositories.NewPostgresUserRepository(db),
		friendships: repositories.NewPostgresFriendshipRepository(db),
		activities:  repositories.NewPostgresActivityRepository(db),
		posts:       make(map[string]stubItem),
	}

	registry := services.NewSubjectRegistry()
	registry.Register(models.SubjectPost, func(ctx context.Context, id string) (*services.ResolvedSubject, error) {
		item, ok := f.posts[id]
		if !ok {
			return nil, services.ErrSubjectGone
		}
		return &services.ResolvedSubject{Payload: item, Protected: item}, nil
	})

	f.registry = registry
	f.service = services.NewActivityService(f.activities, f.friendships, f.users, registry)
	return f
}

// faultyUserRepository simulates a storage-layer failure on actor lookups
type faultyUserRepository struct {
	repositories.UserRepository
}

func (faultyUserRepository) GetUserByID(id uint) (*models.User, error) {
	return nil, fmt.Errorf("connection reset by peer")
}

func (f *feedFixture) addUser(t *testing.T, id uint, name string) {
	t.Helper()
	user := &models.User{
		ID:          id,
		Name:        name,
		Email:       fmt.Sprintf("%s@example.com", name),
		FirebaseUID: fmt.Sprintf("fb-%d", id),
	}
	require.NoError(t, f.users.CreateUser(user))
}

func (f *feedFixture) befriend(t *testing.T, a, b uint) {
	t.Helper()
	friendship, err := f.friendships.SendFriendRequest(a, b)
	require.NoError(t, err)
	require.NoError(t, f.friendships.UpdateStatus(friendship.ID, models.FriendshipAccepted))
}

func (f *feedFixture) addPost(id string, owner uint, privacy models.Privacy) {
	f.posts[id] = stubItem{owner: owner, privacy: privacy}
}

func TestRecordActivityFansOutToAllFriends(t *testing.T) {
	f := newFeedFixture(t)
	for i, name := range []string{"alice", "bob", "carol", "dave"} {
		f.addUser(t, uint(i+1), name)
	}
	f.befriend(t, 1, 2)
	f.befriend(t, 1, 3)
	// user 4 is a stranger to user 1

	f.addPost("p1", 1, models.PrivacyPublic)
	err := f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated,
		models.SubjectPost, "p1", map[string]string{"preview": "hello"})
	require.NoError(t, err)

	// Every friend's feed carries the activity, and so does the actor's own
	for _, owner := range []uint{1, 2, 3} {
		feed, err := f.service.GetFeed(context.Background(), owner, 20)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		require.Equal(t, uint(1), feed[0].Activity.ActorID)
		require.Equal(t, "hello", feed[0].Activity.Data["preview"])
		require.Equal(t, "alice", feed[0].Actor.Name)
	}

	feed, err := f.service.GetFeed(context.Background(), 4, 20)
	require.NoError(t, err)
	require.Empty(t, feed)
}

func TestRecordActivityFriendlessActorStillSeesOwnFeed(t *testing.T) {
	f := newFeedFixture(t)
	f.addUser(t, 1, "alice")
	f.addPost("p1", 1, models.PrivacyPrivate)

	err := f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated,
		models.SubjectPost, "p1", nil)
	require.NoError(t, err)

	feed, err := f.service.GetFeed(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
}

func TestGetFeedSkipsDanglingSubjects(t *testing.T) {
	f := newFeedFixture(t)
	f.addUser(t, 1, "alice")

	f.addPost("kept", 1, models.PrivacyPublic)
	f.addPost("doomed", 1, models.PrivacyPublic)
	require.NoError(t, f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated, models.SubjectPost, "doomed", nil))
	require.NoError(t, f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated, models.SubjectPost, "kept", nil))

	// Subject vanishes without the lifecycle manager hearing about it
	delete(f.posts, "doomed")

	feed, err := f.service.GetFeed(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, "kept", feed[0].Activity.SubjectID)
}

func TestGetFeedSkipsUnregisteredSubjectTypes(t *testing.T) {
	f := newFeedFixture(t)
	f.addUser(t, 1, "alice")

	require.NoError(t, f.activities.InsertAll([]models.Activity{
		{UserID: 1, ActorID: 1, Type: "badge_earned", SubjectType: "badge", SubjectID: "b1"},
	}))

	feed, err := f.service.GetFeed(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Empty(t, feed)
}

func TestGetFeedExposesSubjectProtection(t *testing.T) {
	f := newFeedFixture(t)
	f.addUser(t, 1, "alice")
	f.addPost("p1", 1, models.PrivacyFriends)

	require.NoError(t, f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated, models.SubjectPost, "p1", nil))

	feed, err := f.service.GetFeed(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	protected := feed[0].SubjectProtection()
	require.NotNil(t, protected)
	require.Equal(t, uint(1), protected.OwnerUserID())
	require.Equal(t, models.PrivacyFriends, protected.PrivacyLevel())
}

func TestOnSubjectDeletedRemovesAllFanOutCopies(t *testing.T) {
	f := newFeedFixture(t)
	for i, name := range []string{"alice", "bob", "carol"} {
		f.addUser(t, uint(i+1), name)
	}
	f.befriend(t, 1, 2)
	f.befriend(t, 1, 3)

	f.addPost("p1", 1, models.PrivacyPublic)
	f.addPost("p2", 1, models.PrivacyPublic)
	require.NoError(t, f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated, models.SubjectPost, "p1", nil))
	require.NoError(t, f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated, models.SubjectPost, "p2", nil))

	// Friend likes p1; the like references the post, so deleting the post
	// sweeps the like activity too
	require.NoError(t, f.service.RecordActivity(context.Background(), 2, models.ActivityPostLiked, models.SubjectPost, "p1", nil))

	delete(f.posts, "p1")
	require.NoError(t, f.service.OnSubjectDeleted(context.Background(), models.SubjectPost, "p1"))

	for _, owner := range []uint{1, 2, 3} {
		feed, err := f.service.GetFeed(context.Background(), owner, 20)
		require.NoError(t, err)
		for _, entry := range feed {
			require.NotEqual(t, "p1", entry.Activity.SubjectID)
		}
	}

	// p2 activities survive
	feed, err := f.service.GetFeed(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, "p2", feed[0].Activity.SubjectID)
}

func TestOnActionUndoneRemovesOnlyThatActorsRows(t *testing.T) {
	f := newFeedFixture(t)
	for i, name := range []string{"alice", "bob", "carol"} {
		f.addUser(t, uint(i+1), name)
	}
	f.befriend(t, 1, 2)
	f.befriend(t, 1, 3)

	f.addPost("p1", 1, models.PrivacyPublic)
	require.NoError(t, f.service.RecordActivity(context.Background(), 2, models.ActivityPostLiked, models.SubjectPost, "p1", nil))
	require.NoError(t, f.service.RecordActivity(context.Background(), 3, models.ActivityPostLiked, models.SubjectPost, "p1", nil))

	// Bob unlikes; Carol's like rows stay
	require.NoError(t, f.service.OnActionUndone(context.Background(), 2, models.ActivityPostLiked, models.SubjectPost, "p1"))

	feed, err := f.service.GetFeed(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, uint(3), feed[0].Activity.ActorID)
}

func TestGetFeedSkipsRemovedActors(t *testing.T) {
	f := newFeedFixture(t)
	f.addUser(t, 1, "alice")
	f.addPost("p1", 1, models.PrivacyPublic)

	require.NoError(t, f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated, models.SubjectPost, "p1", nil))

	// Activity by an actor whose account no longer exists
	require.NoError(t, f.activities.InsertAll([]models.Activity{
		{UserID: 1, ActorID: 99, Type: models.ActivityPostLiked, SubjectType: models.SubjectPost, SubjectID: "p1"},
	}))

	feed, err := f.service.GetFeed(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, uint(1), feed[0].Activity.ActorID)
}

func TestGetFeedPropagatesActorLookupFaults(t *testing.T) {
	f := newFeedFixture(t)
	f.addUser(t, 1, "alice")
	f.addPost("p1", 1, models.PrivacyPublic)

	require.NoError(t, f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated, models.SubjectPost, "p1", nil))

	// A storage fault on actor resolution must fail the read rather than
	// silently thin out the feed
	faulty := services.NewActivityService(f.activities, f.friendships, faultyUserRepository{f.users}, f.registry)
	_, err := faulty.GetFeed(context.Background(), 1, 20)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
}

func TestFeedPreviewIsSnapshotNotLive(t *testing.T) {
	f := newFeedFixture(t)
	f.addUser(t, 1, "alice")
	f.addPost("p1", 1, models.PrivacyPublic)

	require.NoError(t, f.service.RecordActivity(context.Background(), 1, models.ActivityPostCreated,
		models.SubjectPost, "p1", map[string]string{"preview": "original text"}))

	// Editing the post does not rewrite the stored preview
	f.addPost("p1", 1, models.PrivacyPublic)

	feed, err := f.service.GetFeed(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, "original text", feed[0].Activity.Data["preview"])
}
