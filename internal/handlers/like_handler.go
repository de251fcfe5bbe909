package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/huddle-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository    repositories.LikeRepository
	postRepository    repositories.PostRepository
	likeCache         *repositories.LikeCache // nil when Redis is not configured
	visibilityService *services.VisibilityService
	activityService   *services.ActivityService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	likeCache *repositories.LikeCache,
	visibilityService *services.VisibilityService,
	activityService *services.ActivityService,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:    likeRepo,
		postRepository:    postRepo,
		likeCache:         likeCache,
		visibilityService: visibilityService,
		activityService:   activityService,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.GET("/posts/:post_id/likes/count", h.GetLikesCountForPost)
	g.GET("/posts/:post_id/likes/status", h.GetUserLikeStatusForPost)
}

// visiblePost loads a post and enforces the viewer's visibility on it
func (h *LikeHandler) visiblePost(c echo.Context, postID string) (*models.Post, error) {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	visible, err := h.visibilityService.IsVisible(post, viewerFromContext(c))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !visible {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not allowed to view this post")
	}
	return post, nil
}

// LikePost handles liking a post and fans the like out to friends' feeds
func (h *LikeHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	post, err := h.visiblePost(c, postID)
	if err != nil {
		return err
	}

	// Check if user has already liked the post
	hasLiked, err := h.likeRepository.HasUserLikedPost(postID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasLiked {
		return echo.NewHTTPError(http.StatusConflict, "Post already liked by this user")
	}

	like := &models.Like{
		PostID: postID,
		UserID: currentUserID,
	}

	if err := h.likeRepository.CreateLike(like); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.postRepository.IncrementLikesCount(context.Background(), postID, 1)
	h.likeCache.IncrLikesCount(c.Request().Context(), postID, 1)

	// Best-effort fan-out after the like is durably created. The activity
	// references the post so deleting the post sweeps up the like entries too.
	data := map[string]string{"post_preview": previewSnippet(post.Content)}
	if err := h.activityService.RecordActivity(c.Request().Context(), currentUserID,
		models.ActivityPostLiked, models.SubjectPost, postID, data); err != nil {
		log.Printf("Failed to record post_liked activity for post %s: %v", postID, err)
	}

	return c.JSON(http.StatusCreated, like)
}

// UnlikePost handles unliking a post, withdrawing the actor's like activity
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	if _, err := h.visiblePost(c, postID); err != nil {
		return err
	}

	if err := h.likeRepository.DeleteLike(postID, currentUserID); err != nil {
		if err.Error() == "like not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.postRepository.IncrementLikesCount(context.Background(), postID, -1)
	h.likeCache.IncrLikesCount(c.Request().Context(), postID, -1)

	if err := h.activityService.OnActionUndone(c.Request().Context(), currentUserID,
		models.ActivityPostLiked, models.SubjectPost, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetLikesCountForPost retrieves the total number of likes for a post,
// cache-first with a database fallback
func (h *LikeHandler) GetLikesCountForPost(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.visiblePost(c, postID); err != nil {
		return err
	}

	if count, found := h.likeCache.GetLikesCount(c.Request().Context(), postID); found {
		return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
	}

	count, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.likeCache.SetLikesCount(c.Request().Context(), postID, count)

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
}

// GetUserLikeStatusForPost checks if the authenticated user has liked a post
func (h *LikeHandler) GetUserLikeStatusForPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	if _, err := h.visiblePost(c, postID); err != nil {
		return err
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(postID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "user_id": currentUserID, "has_liked": hasLiked})
}
