package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streetmuse/freelance-platform/internal/core/domain"
	"github.com/streetmuse/freelance-platform/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware. A token
// missing the user id or carrying an unknown role is rejected with 401.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	roleStr, _ := c.Get("role").(string)
	role := domain.Role(roleStr)

	if userID == "" || !role.Valid() {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return ports.Actor{ID: userID, Role: role}, nil
}

// ctxName returns the display name claim, if any.
func ctxName(c echo.Context) string {
	name, _ := c.Get("name").(string)
	return name
}
