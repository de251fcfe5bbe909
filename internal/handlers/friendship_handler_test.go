package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huddle-social/backend/internal/handlers"
	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubFriendshipRepository serves a fixed friend ID list
type stubFriendshipRepository struct {
	repositories.FriendshipRepository
	friendIDs []uint
}

func (s stubFriendshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	return s.friendIDs, nil
}

// stubUserRepository serves users from a map, with optional per-ID errors
type stubUserRepository struct {
	repositories.UserRepository
	users map[uint]*models.User
	errs  map[uint]error
}

func (s stubUserRepository) GetUserByID(id uint) (*models.User, error) {
	if err, ok := s.errs[id]; ok {
		return nil, err
	}
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func getFriendsRequest(t *testing.T, friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/friends", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: 1})

	h := handlers.NewFriendshipHandler(friendshipRepo, userRepo)
	return rec, h.GetFriends(c)
}

func TestGetFriendsSkipsRemovedAccounts(t *testing.T) {
	friendshipRepo := stubFriendshipRepository{friendIDs: []uint{2, 3}}
	userRepo := stubUserRepository{
		users: map[uint]*models.User{
			2: {ID: 2, Name: "bob", Email: "bob@example.com"},
			// user 3 no longer exists
		},
	}

	rec, err := getFriendsRequest(t, friendshipRepo, userRepo)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bob")
}

func TestGetFriendsPropagatesUserLookupFaults(t *testing.T) {
	friendshipRepo := stubFriendshipRepository{friendIDs: []uint{2, 3}}
	userRepo := stubUserRepository{
		users: map[uint]*models.User{
			2: {ID: 2, Name: "bob", Email: "bob@example.com"},
		},
		errs: map[uint]error{
			3: fmt.Errorf("connection reset by peer"),
		},
	}

	_, err := getFriendsRequest(t, friendshipRepo, userRepo)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, httpErr.Code)
}
