package handlers

import (
	"net/http"
	"strconv"

	"github.com/huddle-social/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	activityService   *services.ActivityService
	visibilityService *services.VisibilityService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(activityService *services.ActivityService, visibilityService *services.VisibilityService) *FeedHandler {
	return &FeedHandler{
		activityService:   activityService,
		visibilityService: visibilityService,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the authenticated user's activity feed, newest first.
// Pagination is limit-only: "load more" re-requests with a larger limit.
// Each entry's subject is re-checked against the viewer's current visibility,
// so a feed row survives a privacy change but its subject stops rendering.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, err := h.activityService.GetFeed(c.Request().Context(), currentUserID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Feed unavailable")
	}

	viewer := viewerFromContext(c)
	visible := make([]services.FeedEntry, 0, len(entries))
	for _, entry := range entries {
		if protected := entry.SubjectProtection(); protected != nil {
			ok, err := h.visibilityService.IsVisible(protected, viewer)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Feed unavailable")
			}
			if !ok {
				continue
			}
		}
		visible = append(visible, entry)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"entries": visible,
		},
		"meta": echo.Map{
			"limit":    limit,
			"returned": len(visible),
		},
	})
}
