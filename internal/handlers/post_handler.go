package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/huddle-social/backend/internal/models"
	"github.com/huddle-social/backend/internal/repositories"
	"github.com/huddle-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
	likeRepository    repositories.LikeRepository
	visibilityService *services.VisibilityService
	activityService   *services.ActivityService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	visibilityService *services.VisibilityService,
	activityService *services.ActivityService,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		commentRepository: commentRepo,
		likeRepository:    likeRepo,
		visibilityService: visibilityService,
		activityService:   activityService,
	}
}

// RegisterPostRoutes registers post-related routes requiring authentication
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetUserPosts) // Own posts, or another user's via ?user_id=
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// RegisterPublicPostRoutes registers post routes readable by anonymous viewers
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts/:id", h.GetPost)
}

// CreatePost creates a new post and fans it out to friends' feeds
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		UserID:    currentUserID,
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
		VideoURLs: req.VideoURLs,
		Privacy:   req.Privacy,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Fan out only after the post is durably created. Activity recording is a
	// best-effort side channel: a failure here never rolls back the post.
	data := map[string]string{"preview": previewSnippet(post.Content)}
	if err := h.activityService.RecordActivity(c.Request().Context(), currentUserID,
		models.ActivityPostCreated, models.SubjectPost, post.ID.Hex(), data); err != nil {
		log.Printf("Failed to record post_created activity for post %s: %v", post.ID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a single post, applying the visibility rules for the
// current viewer (who may be anonymous)
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	visible, err := h.visibilityService.IsVisible(post, viewerFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !visible {
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to view this post")
	}

	return c.JSON(http.StatusOK, post)
}

// GetUserPosts lists a user's posts restricted to what the current viewer may
// see. Without a user_id query param it lists the viewer's own posts.
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetUserID := currentUserID
	if param := c.QueryParam("user_id"); param != "" {
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
		}
		targetUserID = uint(id)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	privacies, err := h.visibilityService.VisiblePrivacies(targetUserID, viewerFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	skip := int64((page - 1) * limit)
	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), targetUserID, privacies, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// UpdatePost updates an existing post, owner only. Activity previews taken at
// creation time are not rewritten.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own posts")
	}

	if req.Content != "" {
		post.Content = req.Content
	}
	if req.ImageURLs != nil {
		post.ImageURLs = req.ImageURLs
	}
	if req.VideoURLs != nil {
		post.VideoURLs = req.VideoURLs
	}
	if req.Privacy != "" {
		post.Privacy = req.Privacy
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post, owner only, and removes every activity row the
// post and its dependent comments produced so no feed keeps dangling entries
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ctx := c.Request().Context()

	// Cascade dependent comments and their activity rows first
	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, comment := range comments {
		commentID := fmt.Sprintf("%d", comment.ID)
		if err := h.activityService.OnSubjectDeleted(ctx, models.SubjectComment, commentID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if err := h.commentRepository.DeleteCommentsByPostID(postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.likeRepository.DeleteLikesByPostID(postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Remove every activity referencing the post itself (post_created and
	// all post_liked rows)
	if err := h.activityService.OnSubjectDeleted(ctx, models.SubjectPost, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
