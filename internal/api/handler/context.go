package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/perlametro/users-service/internal/core/domain"
)

// requestClaims is the identity the Auth middleware stored in the context.
type requestClaims struct {
	UserID string
	Role   string
}

// ctxClaims extracts the auth claims injected by the Auth middleware and
// fast-fails when they are absent: a non-empty user_id proves the middleware
// ran before the handler.
func ctxClaims(c echo.Context) (requestClaims, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return requestClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return requestClaims{UserID: userID, Role: role}, nil
}

// canActOn enforces the self-or-admin rule for mutations on a target user.
func (rc requestClaims) canActOn(targetID string) error {
	if rc.Role == domain.RoleAdmin || rc.UserID == targetID {
		return nil
	}
	return domain.ErrForbidden
}
