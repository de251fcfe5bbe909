package services

import "github.com/huddle-social/backend/internal/models"

// Protected is any content item that carries an owner and a privacy level.
// Posts, albums and media implement it directly; comments and likes inherit
// their parent post's visibility, so callers check the parent instead.
type Protected interface {
	OwnerUserID() uint
	PrivacyLevel() models.Privacy
}

// FriendshipChecker answers the single graph question visibility depends on.
type FriendshipChecker interface {
	AreFriends(a, b uint) (bool, error)
}

// VisibilityService decides whether a viewer may see a content item. It is
// stateless and caches nothing: a friendship that flips to declined revokes
// visibility on the very next call.
type VisibilityService struct {
	friends FriendshipChecker
}

// NewVisibilityService creates a new VisibilityService
func NewVisibilityService(friends FriendshipChecker) *VisibilityService {
	return &VisibilityService{friends: friends}
}

// IsVisible applies the three privacy rules. viewer is nil for anonymous
// requests.
//
//	public:       visible to everyone, including anonymous viewers
//	private:      visible only to the owner
//	friends_only: visible to the owner and the owner's accepted friends
func (s *VisibilityService) IsVisible(item Protected, viewer *uint) (bool, error) {
	switch item.PrivacyLevel() {
	case models.PrivacyPublic:
		return true, nil
	case models.PrivacyPrivate:
		return viewer != nil && *viewer == item.OwnerUserID(), nil
	case models.PrivacyFriends:
		if viewer == nil {
			return false, nil
		}
		if *viewer == item.OwnerUserID() {
			return true, nil
		}
		return s.friends.AreFriends(*viewer, item.OwnerUserID())
	}
	// Unknown privacy value: fail closed.
	return false, nil
}

// VisiblePrivacies returns the privacy levels of ownerID's content that viewer
// may see. List queries filter on this set, which makes them equivalent to
// running IsVisible per row without the per-row cost.
func (s *VisibilityService) VisiblePrivacies(ownerID uint, viewer *uint) ([]models.Privacy, error) {
	if viewer != nil && *viewer == ownerID {
		return []models.Privacy{models.PrivacyPublic, models.PrivacyFriends, models.PrivacyPrivate}, nil
	}
	if viewer == nil {
		return []models.Privacy{models.PrivacyPublic}, nil
	}
	isFriend, err := s.friends.AreFriends(*viewer, ownerID)
	if err != nil {
		return nil, err
	}
	if isFriend {
		return []models.Privacy{models.PrivacyPublic, models.PrivacyFriends}, nil
	}
	return []models.Privacy{models.PrivacyPublic}, nil
}
