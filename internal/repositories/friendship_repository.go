package repositories

import (
	"fmt"

	"github.com/huddle-social/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship data operations.
// Storage keeps one canonical row per unordered user pair, so the symmetric
// "are these two users friends" question never depends on who asked first.
type FriendshipRepository interface {
	SendFriendRequest(requesterID, addresseeID uint) (*models.Friendship, error)
	GetFriendshipByID(id uint) (*models.Friendship, error)
	GetFriendshipBetween(a, b uint) (*models.Friendship, error)
	GetPendingRequestsFor(userID uint) ([]models.Friendship, error)
	UpdateStatus(id uint, status string) error
	DeleteFriendship(id uint) error
	AreFriends(a, b uint) (bool, error)
	GetFriendIDs(userID uint) ([]uint, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

func pairKey(a, b uint) (low, high uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// SendFriendRequest creates a pending friendship row for the pair, or restarts
// the request cycle when a previous request between the pair was declined.
func (r *PostgresFriendshipRepository) SendFriendRequest(requesterID, addresseeID uint) (*models.Friendship, error) {
	low, high := pairKey(requesterID, addresseeID)

	var existing models.Friendship
	err := r.db.Where("user_low_id = ? AND user_high_id = ?", low, high).First(&existing).Error
	if err == nil {
		switch existing.Status {
		case models.FriendshipPending:
			return nil, fmt.Errorf("a pending friend request already exists between these users")
		case models.FriendshipAccepted:
			return nil, fmt.Errorf("users are already friends")
		default:
			// Declined: start a new request cycle on the same pair row.
			existing.RequesterID = requesterID
			existing.Status = models.FriendshipPending
			if err := r.db.Save(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	friendship := models.NewFriendship(requesterID, addresseeID)
	if err := r.db.Create(friendship).Error; err != nil {
		return nil, err
	}
	return friendship, nil
}

// GetFriendshipByID retrieves a friendship row by ID
func (r *PostgresFriendshipRepository) GetFriendshipByID(id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.First(&friendship, id).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetFriendshipBetween retrieves the friendship row for a pair, in any order
func (r *PostgresFriendshipRepository) GetFriendshipBetween(a, b uint) (*models.Friendship, error) {
	low, high := pairKey(a, b)
	var friendship models.Friendship
	if err := r.db.Where("user_low_id = ? AND user_high_id = ?", low, high).First(&friendship).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetPendingRequestsFor retrieves pending requests addressed to a user
func (r *PostgresFriendshipRepository) GetPendingRequestsFor(userID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	err := r.db.Where("(user_low_id = ? OR user_high_id = ?) AND requester_id <> ? AND status = ?",
		userID, userID, userID, models.FriendshipPending).Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus resolves a pending friendship. Resolution is terminal within a
// request cycle: only pending rows can move to accepted or declined.
func (r *PostgresFriendshipRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Friendship{}).
		Where("id = ? AND status = ?", id, models.FriendshipPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("friend request is not pending")
	}
	return nil
}

// DeleteFriendship removes the pair row entirely (unfriend)
func (r *PostgresFriendshipRepository) DeleteFriendship(id uint) error {
	return r.db.Delete(&models.Friendship{}, id).Error
}

// AreFriends reports whether an accepted friendship exists between a and b,
// in either order. Unknown user IDs simply yield false.
func (r *PostgresFriendshipRepository) AreFriends(a, b uint) (bool, error) {
	low, high := pairKey(a, b)
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("user_low_id = ? AND user_high_id = ? AND status = ?", low, high, models.FriendshipAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFriendIDs returns the IDs of every accepted friend of userID, excluding
// userID itself. Unknown users yield an empty slice, not an error.
func (r *PostgresFriendshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := r.db.Where("(user_low_id = ? OR user_high_id = ?) AND status = ?",
		userID, userID, models.FriendshipAccepted).Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		ids = append(ids, f.OtherUserID(userID))
	}
	return ids, nil
}
