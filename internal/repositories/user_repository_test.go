package repositories_test

import (
	"testing"

	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/stretchr/testify/require"
)

func TestCreateUserLocalAccountsShareEmptyFirebaseUID(t *testing.T) {
	repo := repositories.NewPostgresUserRepository(newTestDB(t))

	// Local signups carry no Firebase UID; several of them must coexist
	require.NoError(t, repo.CreateUser(&models.User{Name: "alice", Email: "alice@example.com"}))
	require.NoError(t, repo.CreateUser(&models.User{Name: "bob", Email: "bob@example.com"}))

	// A set Firebase UID is still unique
	require.NoError(t, repo.CreateUser(&models.User{Name: "carol", Email: "carol@example.com", FirebaseUID: "fb-carol"}))
	err := repo.CreateUser(&models.User{Name: "dave", Email: "dave@example.com", FirebaseUID: "fb-carol"})
	require.Error(t, err)
}

func TestGetUserByEmailAndFirebaseUID(t *testing.T) {
	repo := repositories.NewPostgresUserRepository(newTestDB(t))

	require.NoError(t, repo.CreateUser(&models.User{Name: "alice", Email: "alice@example.com", FirebaseUID: "fb-alice"}))

	user, err := repo.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Name)

	user, err = repo.GetUserByFirebaseUID("fb-alice")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Name)

	_, err = repo.GetUserByEmail("nobody@example.com")
	require.Error(t, err)
}
