package handlers

import (
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

// AlbumHandler handles HTTP requests related to albums and their media
type AlbumHandler struct {
	albumRepository   repositories.AlbumRepository
	visibilityService *services.VisibilityService
	activityService   *services.ActivityService
}

// NewAlbumHandler creates a new AlbumHandler
func NewAlbumHandler(
	albumRepo repositories.AlbumRepository,
	visibilityService *services.VisibilityService,
	activityService *services.ActivityService,
) *AlbumHandler {
	return &AlbumHandler{
		albumRepository:   albumRepo,
		visibilityService: visibilityService,
		activityService:   activityService,
	}
}

// RegisterAlbumRoutes registers album routes requiring authentication
func (h *AlbumHandler) RegisterAlbumRoutes(g *echo.Group) {
	g.POST("/albums", h.CreateAlbum)
	g.GET("/albums", h.GetUserAlbums) // Own albums, or another user's via ?user_id=
	g.PUT("/albums/:id", h.UpdateAlbum)
	g.DELETE("/albums/:id", h.DeleteAlbum)
	g.POST("/albums/:id/media", h.AddMedia)
	g.DELETE("/media/:id", h.DeleteMedia)
}

// RegisterPublicAlbumRoutes registers album routes readable by anonymous viewers
func (h *AlbumHandler) RegisterPublicAlbumRoutes(g *echo.Group) {
	g.GET("/albums/:id", h.GetAlbum)
	g.GET("/albums/:id/media", h.GetAlbumMedia)
}

// CreateAlbum creates a new album and fans it out to friends' feeds
func (h *AlbumHandler) CreateAlbum(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateAlbumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	album := &models.Album{
		UserID:      currentUserID,
		Name:        req.Name,
		Description: req.Description,
		Privacy:     req.Privacy,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.albumRepository.CreateAlbum(c.Request().Context(), album); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	data := map[string]string{"name": previewSnippet(album.Name)}
	if err := h.activityService.RecordActivity(c.Request().Context(), currentUserID,
		models.ActivityAlbumCreated, models.SubjectAlbum, album.ID.Hex(), data); err != nil {
		log.Printf("Failed to record album_created activity for album %s: %v", album.ID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, album)
}

// GetAlbum retrieves a single album, applying visibility rules for the viewer
func (h *AlbumHandler) GetAlbum(c echo.Context) error {
	album, err := h.albumRepository.GetAlbumByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrAlbumNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Album not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	visible, err := h.visibilityService.IsVisible(album, viewerFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !visible {
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to view this album")
	}

	return c.JSON(http.StatusOK, album)
}

// GetUserAlbums lists a user's albums restricted to what the viewer may see
func (h *AlbumHandler) GetUserAlbums(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetUserID := currentUserID
	if param := c.QueryParam("user_id"); param != "" {
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
		}
		targetUserID = uint(id)
	}

	privacies, err := h.visibilityService.VisiblePrivacies(targetUserID, viewerFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	albums, err := h.albumRepository.GetAlbumsByUserID(c.Request().Context(), targetUserID, privacies)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, albums)
}

// UpdateAlbum updates an existing album, owner only
func (h *AlbumHandler) UpdateAlbum(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	albumID := c.Param("id")

	var req models.UpdateAlbumRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	album, err := h.albumRepository.GetAlbumByID(c.Request().Context(), albumID)
	if err != nil {
		if err == repositories.ErrAlbumNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Album not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if album.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own albums")
	}

	if req.Name != "" {
		album.Name = req.Name
	}
	if req.Description != "" {
		album.Description = req.Description
	}
	if req.Privacy != "" {
		album.Privacy = req.Privacy
	}

	if err := h.albumRepository.UpdateAlbum(c.Request().Context(), albumID, album); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, album)
}

// DeleteAlbum deletes an album, owner only, cascading its media and every
// activity row the album or its media produced
func (h *AlbumHandler) DeleteAlbum(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	albumID := c.Param("id")

	album, err := h.albumRepository.GetAlbumByID(c.Request().Context(), albumID)
	if err != nil {
		if err == repositories.ErrAlbumNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Album not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if album.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own albums")
	}

	ctx := c.Request().Context()

	deletedMedia, err := h.albumRepository.DeleteMediaByAlbumID(ctx, albumID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, media := range deletedMedia {
		if err := h.activityService.OnSubjectDeleted(ctx, models.SubjectMedia, media.ID.Hex()); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.albumRepository.DeleteAlbum(ctx, albumID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.activityService.OnSubjectDeleted(ctx, models.SubjectAlbum, albumID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// AddMedia adds a media item to an album, owner only, and fans it out
func (h *AlbumHandler) AddMedia(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	albumID := c.Param("id")

	var req models.CreateMediaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	album, err := h.albumRepository.GetAlbumByID(c.Request().Context(), albumID)
	if err != nil {
		if err == repositories.ErrAlbumNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Album not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if album.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only add media to your own albums")
	}

	media := &models.Media{
		AlbumID: album.ID,
		UserID:  currentUserID,
		URL:     req.URL,
		Caption: req.Caption,
		Privacy: req.Privacy,
	}

	if err := h.albumRepository.AddMedia(c.Request().Context(), media); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	data := map[string]string{
		"caption":  previewSnippet(media.Caption),
		"album_id": albumID,
	}
	if err := h.activityService.RecordActivity(c.Request().Context(), currentUserID,
		models.ActivityMediaAdded, models.SubjectMedia, media.ID.Hex(), data); err != nil {
		log.Printf("Failed to record media_added activity for media %s: %v", media.ID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, media)
}

// GetAlbumMedia lists an album's media restricted to what the viewer may see.
// The album itself must be visible first; individual items may still be
// stricter than the album.
func (h *AlbumHandler) GetAlbumMedia(c echo.Context) error {
	albumID := c.Param("id")

	album, err := h.albumRepository.GetAlbumByID(c.Request().Context(), albumID)
	if err != nil {
		if err == repositories.ErrAlbumNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Album not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	visible, err := h.visibilityService.IsVisible(album, viewerFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !visible {
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to view this album")
	}

	privacies, err := h.visibilityService.VisiblePrivacies(album.UserID, viewerFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	media, err := h.albumRepository.GetMediaByAlbumID(c.Request().Context(), albumID, privacies)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, media)
}

// DeleteMedia deletes a single media item, owner only, cleaning its activity rows
func (h *AlbumHandler) DeleteMedia(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	mediaID := c.Param("id")

	media, err := h.albumRepository.GetMediaByID(c.Request().Context(), mediaID)
	if err != nil {
		if err == repositories.ErrMediaNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Media not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if media.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own media")
	}

	if err := h.albumRepository.DeleteMedia(c.Request().Context(), mediaID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.activityService.OnSubjectDeleted(c.Request().Context(), models.SubjectMedia, mediaID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
