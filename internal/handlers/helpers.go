package handlers

import (
	"github.com/huddle-social/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const previewLength = 100

// getUserIDFromContext returns the authenticated user's ID from JWT claims,
// or 0 when the request is anonymous
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// viewerFromContext returns the authenticated user's ID as a nullable viewer
// identity for visibility checks; nil means anonymous
func viewerFromContext(c echo.Context) *uint {
	if id := getUserIDFromContext(c); id > 0 {
		return &id
	}
	return nil
}

// previewSnippet truncates content for the denormalized activity payload.
// The snapshot is taken at event time and never updated afterwards.
func previewSnippet(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength])
}
