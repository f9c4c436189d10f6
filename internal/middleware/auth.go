package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sweetshop/internal/auth"
	"sweetshop/internal/errors"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
)

// userContextKey is where the resolved user lives for the duration of a
// request. Handlers read it through CurrentUser only.
const userContextKey = "currentUser"

// Guard gates request handling by identity and role. A request passes
// RequireAuth only when it carries a verifiable token whose subject still
// exists in the credential store; the resolved user record is attached to the
// request context for downstream handlers.
type Guard struct {
	jwtService *auth.JWTService
	userRepo   repository.UserRepository
}

// NewGuard creates a new authorization guard.
func NewGuard(jwtService *auth.JWTService, userRepo repository.UserRepository) *Guard {
	return &Guard{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// RequireAuth rejects requests without a bearer token (401), with an invalid
// or expired token (403), or whose token references a user that no longer
// exists (401).
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := auth.ExtractFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "authentication required",
				Code:  "UNAUTHENTICATED",
			})
		}

		claims, err := g.jwtService.Verify(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "INVALID_TOKEN",
			})
		}

		user, err := g.userRepo.FindByID(c.Request().Context(), claims.UserID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "authentication required",
					Code:  "UNAUTHENTICATED",
				})
			}
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to resolve user",
				Code:  "INTERNAL_ERROR",
			})
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// RequireAdmin runs RequireAuth and additionally rejects non-admin users (403).
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.RequireAuth(func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "admin access required",
				Code:  "ADMIN_REQUIRED",
			})
		}
		return next(c)
	})
}

// CurrentUser returns the user resolved by RequireAuth for this request.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}
