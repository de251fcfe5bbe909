package repositories_test

import (
	"testing"
	"time"

	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/stretchr/testify/require"
)

func TestActivityFeedOrdering(t *testing.T) {
	repo := repositories.NewPostgresActivityRepository(newTestDB(t))

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	err := repo.InsertAll([]models.Activity{
		{UserID: 1, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "p1", CreatedAt: base},
		{UserID: 1, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "p2", CreatedAt: base.Add(time.Minute)},
		{UserID: 1, ActorID: 3, Type: models.ActivityPostLiked, SubjectType: models.SubjectPost, SubjectID: "p1", CreatedAt: base.Add(2 * time.Minute)},
	})
	require.NoError(t, err)

	feed, err := repo.GetFeed(1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	// Newest first
	require.Equal(t, models.ActivityPostLiked, feed[0].Type)
	require.Equal(t, "p2", feed[1].SubjectID)
	require.Equal(t, "p1", feed[2].SubjectID)
}

func TestActivityFeedOrderingIDTiebreak(t *testing.T) {
	repo := repositories.NewPostgresActivityRepository(newTestDB(t))

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	err := repo.InsertAll([]models.Activity{
		{UserID: 1, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "first", CreatedAt: ts},
		{UserID: 1, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "second", CreatedAt: ts},
	})
	require.NoError(t, err)

	feed, err := repo.GetFeed(1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	// Equal timestamps fall back to insertion order, newest id first
	require.Equal(t, "second", feed[0].SubjectID)
	require.Equal(t, "first", feed[1].SubjectID)
}

func TestActivityFeedLimit(t *testing.T) {
	repo := repositories.NewPostgresActivityRepository(newTestDB(t))

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	activities := make([]models.Activity, 0, 5)
	for i := 0; i < 5; i++ {
		activities = append(activities, models.Activity{
			UserID: 1, ActorID: 2,
			Type: models.ActivityPostCreated, SubjectType: models.SubjectPost,
			SubjectID: "p", CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	require.NoError(t, repo.InsertAll(activities))

	feed, err := repo.GetFeed(1, 2)
	require.NoError(t, err)
	require.Len(t, feed, 2)
}

func TestActivityFeedScopedToOwner(t *testing.T) {
	repo := repositories.NewPostgresActivityRepository(newTestDB(t))

	err := repo.InsertAll([]models.Activity{
		{UserID: 1, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "p1"},
		{UserID: 2, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "p1"},
	})
	require.NoError(t, err)

	feed, err := repo.GetFeed(1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	// Unknown feed owner gets an empty feed, not an error
	feed, err = repo.GetFeed(99, 20)
	require.NoError(t, err)
	require.Empty(t, feed)
}

func TestActivityDeleteBySubject(t *testing.T) {
	repo := repositories.NewPostgresActivityRepository(newTestDB(t))

	err := repo.InsertAll([]models.Activity{
		{UserID: 1, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "gone"},
		{UserID: 3, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "gone"},
		{UserID: 1, ActorID: 4, Type: models.ActivityPostLiked, SubjectType: models.SubjectPost, SubjectID: "gone"},
		{UserID: 1, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "kept"},
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBySubject(models.SubjectPost, "gone"))

	count, err := repo.CountBySubject(models.SubjectPost, "gone")
	require.NoError(t, err)
	require.Zero(t, count)

	// Rows for other subjects are untouched
	count, err = repo.CountBySubject(models.SubjectPost, "kept")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestActivityDeleteBySubjectActorType(t *testing.T) {
	repo := repositories.NewPostgresActivityRepository(newTestDB(t))

	err := repo.InsertAll([]models.Activity{
		{UserID: 1, ActorID: 2, Type: models.ActivityPostLiked, SubjectType: models.SubjectPost, SubjectID: "p1"},
		{UserID: 3, ActorID: 2, Type: models.ActivityPostLiked, SubjectType: models.SubjectPost, SubjectID: "p1"},
		{UserID: 1, ActorID: 5, Type: models.ActivityPostLiked, SubjectType: models.SubjectPost, SubjectID: "p1"},
		{UserID: 1, ActorID: 2, Type: models.ActivityPostCreated, SubjectType: models.SubjectPost, SubjectID: "p1"},
	})
	require.NoError(t, err)

	// Undoing actor 2's like removes only their like rows for that post
	require.NoError(t, repo.DeleteBySubjectActorType(models.SubjectPost, "p1", 2, models.ActivityPostLiked))

	count, err := repo.CountBySubject(models.SubjectPost, "p1")
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	feed, err := repo.GetFeed(1, 20)
	require.NoError(t, err)
	for _, a := range feed {
		if a.Type == models.ActivityPostLiked {
			require.NotEqual(t, uint(2), a.ActorID)
		}
	}
}

func TestActivityInsertAllEmpty(t *testing.T) {
	repo := repositories.NewPostgresActivityRepository(newTestDB(t))
	require.NoError(t, repo.InsertAll(nil))
}
