package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository // To fetch user details for friends list
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.GET("/friends/requests/pending", h.GetPendingFriendRequests)
	g.PUT("/friends/request/:id/status", h.UpdateFriendRequestStatus)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:id", h.DeleteFriend) // Unfriend
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if currentUserID == req.AddresseeID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}

	// Check if addressee exists
	_, err := h.userRepository.GetUserByID(req.AddresseeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Addressee user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friendship, err := h.friendshipRepository.SendFriendRequest(currentUserID, req.AddresseeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return c.JSON(http.StatusCreated, friendship)
}

// GetPendingFriendRequests retrieves pending friend requests addressed to the authenticated user
func (h *FriendshipHandler) GetPendingFriendRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	requests, err := h.friendshipRepository.GetPendingRequestsFor(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, requests)
}

// UpdateFriendRequestStatus resolves a pending friend request (accept/decline)
func (h *FriendshipHandler) UpdateFriendRequestStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.UpdateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	friendship, err := h.friendshipRepository.GetFriendshipByID(uint(requestID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Only the addressee of the pending request may resolve it
	if !friendship.Involves(currentUserID) || friendship.RequesterID == currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this friend request")
	}

	if err := h.friendshipRepository.UpdateStatus(uint(requestID), req.Status); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	friendship.Status = req.Status
	return c.JSON(http.StatusOK, friendship)
}

// GetFriends retrieves the list of friends for the authenticated user
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	friendIDs, err := h.friendshipRepository.GetFriendIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friends := make([]models.UserCompact, 0, len(friendIDs))
	for _, id := range friendIDs {
		user, err := h.userRepository.GetUserByID(id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				// Friend account removed; leave it out of the list
				continue
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		friends = append(friends, user.ToCompact())
	}

	return c.JSON(http.StatusOK, friends)
}

// DeleteFriend handles unfriending (removing the accepted pair row)
func (h *FriendshipHandler) DeleteFriend(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	friendUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid friend user ID")
	}

	friendship, err := h.friendshipRepository.GetFriendshipBetween(currentUserID, uint(friendUserID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Friendship not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if friendship.Status != models.FriendshipAccepted {
		return echo.NewHTTPError(http.StatusBadRequest, "Users are not friends")
	}

	if err := h.friendshipRepository.DeleteFriendship(friendship.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
