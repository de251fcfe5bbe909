package services_test

import (
	"testing"

	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/services"
	"github.com/stretchr/testify/require"
)

// stubItem is a minimal Protected content item for visibility tests
type stubItem struct {
	owner   uint
	privacy models.Privacy
}

func (s stubItem) OwnerUserID() uint            { return s.owner }
func (s stubItem) PrivacyLevel() models.Privacy { return s.privacy }

// stubFriends answers AreFriends from a fixed set of accepted pairs
type stubFriends struct {
	pairs map[[2]uint]bool
}

func newStubFriends(pairs ...[2]uint) *stubFriends {
	s := &stubFriends{pairs: make(map[[2]uint]bool)}
	for _, p := range pairs {
		s.pairs[p] = true
		s.pairs[[2]uint{p[1], p[0]}] = true
	}
	return s
}

func (s *stubFriends) AreFriends(a, b uint) (bool, error) {
	return s.pairs[[2]uint{a, b}], nil
}

func uintPtr(v uint) *uint { return &v }

func TestIsVisibleMatrix(t *testing.T) {
	const owner = uint(1)
	friends := newStubFriends([2]uint{owner, 2})
	svc := services.NewVisibilityService(friends)

	tests := []struct {
		name    string
		privacy models.Privacy
		viewer  *uint
		want    bool
	}{
		{"public/owner", models.PrivacyPublic, uintPtr(owner), true},
		{"public/friend", models.PrivacyPublic, uintPtr(2), true},
		{"public/stranger", models.PrivacyPublic, uintPtr(3), true},
		{"public/anonymous", models.PrivacyPublic, nil, true},
		{"friends_only/owner", models.PrivacyFriends, uintPtr(owner), true},
		{"friends_only/friend", models.PrivacyFriends, uintPtr(2), true},
		{"friends_only/stranger", models.PrivacyFriends, uintPtr(3), false},
		{"friends_only/anonymous", models.PrivacyFriends, nil, false},
		{"private/owner", models.PrivacyPrivate, uintPtr(owner), true},
		{"private/friend", models.PrivacyPrivate, uintPtr(2), false},
		{"private/stranger", models.PrivacyPrivate, uintPtr(3), false},
		{"private/anonymous", models.PrivacyPrivate, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, err := svc.IsVisible(stubItem{owner: owner, privacy: tt.privacy}, tt.viewer)
			require.NoError(t, err)
			require.Equal(t, tt.want, visible)
		})
	}
}

func TestIsVisibleUnknownPrivacyFailsClosed(t *testing.T) {
	svc := services.NewVisibilityService(newStubFriends())

	visible, err := svc.IsVisible(stubItem{owner: 1, privacy: "everyone"}, uintPtr(1))
	require.NoError(t, err)
	require.False(t, visible)
}

func TestIsVisibleReflectsFriendshipChanges(t *testing.T) {
	friends := newStubFriends([2]uint{1, 2})
	svc := services.NewVisibilityService(friends)
	item := stubItem{owner: 1, privacy: models.PrivacyFriends}

	visible, err := svc.IsVisible(item, uintPtr(2))
	require.NoError(t, err)
	require.True(t, visible)

	// Unfriending revokes access on the very next check, nothing is cached
	friends.pairs = map[[2]uint]bool{}

	visible, err = svc.IsVisible(item, uintPtr(2))
	require.NoError(t, err)
	require.False(t, visible)
}

func TestVisiblePrivacies(t *testing.T) {
	const owner = uint(1)
	svc := services.NewVisibilityService(newStubFriends([2]uint{owner, 2}))

	privacies, err := svc.VisiblePrivacies(owner, uintPtr(owner))
	require.NoError(t, err)
	require.ElementsMatch(t, []models.Privacy{models.PrivacyPublic, models.PrivacyFriends, models.PrivacyPrivate}, privacies)

	privacies, err = svc.VisiblePrivacies(owner, uintPtr(2))
	require.NoError(t, err)
	require.ElementsMatch(t, []models.Privacy{models.PrivacyPublic, models.PrivacyFriends}, privacies)

	privacies, err = svc.VisiblePrivacies(owner, uintPtr(3))
	require.NoError(t, err)
	require.Equal(t, []models.Privacy{models.PrivacyPublic}, privacies)

	privacies, err = svc.VisiblePrivacies(owner, nil)
	require.NoError(t, err)
	require.Equal(t, []models.Privacy{models.PrivacyPublic}, privacies)
}
