package repositories_test

import (
	"testing"

	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/stretchr/testify/require"
)

func TestFriendshipSymmetry(t *testing.T) {
	repo := repositories.NewPostgresFriendshipRepository(newTestDB(t))

	friendship, err := repo.SendFriendRequest(2, 1)
	require.NoError(t, err)
	require.Equal(t, models.FriendshipPending, friendship.Status)
	require.Equal(t, uint(2), friendship.RequesterID)
	require.Equal(t, uint(1), friendship.AddresseeID())

	// Not friends while pending
	areFriends, err := repo.AreFriends(1, 2)
	require.NoError(t, err)
	require.False(t, areFriends)

	require.NoError(t, repo.UpdateStatus(friendship.ID, models.FriendshipAccepted))

	// Accepted friendship is symmetric regardless of who asked or who requested
	for _, pair := range [][2]uint{{1, 2}, {2, 1}} {
		areFriends, err := repo.AreFriends(pair[0], pair[1])
		require.NoError(t, err)
		require.True(t, areFriends)
	}

	ids, err := repo.GetFriendIDs(1)
	require.NoError(t, err)
	require.Equal(t, []uint{2}, ids)

	ids, err = repo.GetFriendIDs(2)
	require.NoError(t, err)
	require.Equal(t, []uint{1}, ids)
}

func TestFriendshipNoDuplicatePair(t *testing.T) {
	repo := repositories.NewPostgresFriendshipRepository(newTestDB(t))

	_, err := repo.SendFriendRequest(1, 2)
	require.NoError(t, err)

	// Same direction and the opposite direction both hit the existing pair row
	_, err = repo.SendFriendRequest(1, 2)
	require.Error(t, err)
	_, err = repo.SendFriendRequest(2, 1)
	require.Error(t, err)
}

func TestFriendshipUnknownUsersHaveNoFriends(t *testing.T) {
	repo := repositories.NewPostgresFriendshipRepository(newTestDB(t))

	areFriends, err := repo.AreFriends(41, 42)
	require.NoError(t, err)
	require.False(t, areFriends)

	ids, err := repo.GetFriendIDs(41)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestFriendshipResolutionIsTerminal(t *testing.T) {
	repo := repositories.NewPostgresFriendshipRepository(newTestDB(t))

	friendship, err := repo.SendFriendRequest(1, 2)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(friendship.ID, models.FriendshipDeclined))

	// Declined is terminal within the cycle
	require.Error(t, repo.UpdateStatus(friendship.ID, models.FriendshipAccepted))

	areFriends, err := repo.AreFriends(1, 2)
	require.NoError(t, err)
	require.False(t, areFriends)
}

func TestFriendshipDeclinedPairStartsNewCycle(t *testing.T) {
	repo := repositories.NewPostgresFriendshipRepository(newTestDB(t))

	first, err := repo.SendFriendRequest(1, 2)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(first.ID, models.FriendshipDeclined))

	// The other user may try again; the same pair row restarts as pending
	second, err := repo.SendFriendRequest(2, 1)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, models.FriendshipPending, second.Status)
	require.Equal(t, uint(2), second.RequesterID)
}

func TestFriendshipPendingRequestsForAddresseeOnly(t *testing.T) {
	repo := repositories.NewPostgresFriendshipRepository(newTestDB(t))

	_, err := repo.SendFriendRequest(1, 2)
	require.NoError(t, err)
	_, err = repo.SendFriendRequest(3, 2)
	require.NoError(t, err)

	requests, err := repo.GetPendingRequestsFor(2)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	// The requester does not see their own outgoing request as pending-for-them
	requests, err = repo.GetPendingRequestsFor(1)
	require.NoError(t, err)
	require.Empty(t, requests)
}

func TestFriendshipUnfriendRemovesPair(t *testing.T) {
	repo := repositories.NewPostgresFriendshipRepository(newTestDB(t))

	friendship, err := repo.SendFriendRequest(1, 2)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(friendship.ID, models.FriendshipAccepted))
	require.NoError(t, repo.DeleteFriendship(friendship.ID))

	areFriends, err := repo.AreFriends(1, 2)
	require.NoError(t, err)
	require.False(t, areFriends)

	_, err = repo.GetFriendshipBetween(1, 2)
	require.Error(t, err)
}
