package models

import "time"

// Friendship status values. A pending request is resolved exactly once:
// pending -> accepted or pending -> declined. A declined pair may start a
// new request cycle, which resets the row to pending with a new requester.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipDeclined = "declined"
)

// Friendship stores one row per unordered user pair. The pair is kept
// canonical (UserLowID < UserHighID) so opposite-direction duplicates cannot
// exist; RequesterID records who initiated the current request cycle and is
// only meaningful while the request is pending.
type Friendship struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserLowID   uint      `json:"user_low_id" gorm:"index;uniqueIndex:idx_friendship_pair"`
	UserHighID  uint      `json:"user_high_id" gorm:"uniqueIndex:idx_friendship_pair"`
	RequesterID uint      `json:"requester_id"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewFriendship builds a pending friendship row with the pair in canonical order.
func NewFriendship(requesterID, addresseeID uint) *Friendship {
	low, high := requesterID, addresseeID
	if low > high {
		low, high = high, low
	}
	return &Friendship{
		UserLowID:   low,
		UserHighID:  high,
		RequesterID: requesterID,
		Status:      FriendshipPending,
	}
}

// AddresseeID returns the pair member that did not initiate the current request.
func (f *Friendship) AddresseeID() uint {
	if f.RequesterID == f.UserLowID {
		return f.UserHighID
	}
	return f.UserLowID
}

// OtherUserID returns the pair member that is not userID.
func (f *Friendship) OtherUserID(userID uint) uint {
	if userID == f.UserLowID {
		return f.UserHighID
	}
	return f.UserLowID
}

// Involves reports whether userID is one of the pair members.
func (f *Friendship) Involves(userID uint) bool {
	return userID == f.UserLowID || userID == f.UserHighID
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	AddresseeID uint `json:"addressee_id" validate:"required"`
}

// UpdateFriendRequest defines the request body for accepting/declining a friend request
type UpdateFriendRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}
