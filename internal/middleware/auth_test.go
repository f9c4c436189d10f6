package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sweetshop/internal/auth"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
)

func newGuardEnv(t *testing.T) (*Guard, *auth.JWTService, repository.UserRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	jwtService := auth.NewJWTService("test-secret")
	userRepo := repository.NewUserRepository(db)
	return NewGuard(jwtService, userRepo), jwtService, userRepo, db
}

func doRequest(t *testing.T, h echo.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuth_MissingToken(t *testing.T) {
	guard, _, _, _ := newGuardEnv(t)

	_, err := doRequest(t, guard.RequireAuth(okHandler), "")
	assert.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))

	// bare token without the Bearer scheme counts as absent
	_, err = doRequest(t, guard.RequireAuth(okHandler), "sometoken")
	assert.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	guard, _, _, _ := newGuardEnv(t)

	_, err := doRequest(t, guard.RequireAuth(okHandler), "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, httpErrorCode(t, err))
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	guard, _, _, db := newGuardEnv(t)
	user := createUser(t, db, "alice", model.RoleUser)

	token, err := auth.NewJWTService("other-secret").Issue(user)
	require.NoError(t, err)

	_, handlerErr := doRequest(t, guard.RequireAuth(okHandler), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, httpErrorCode(t, handlerErr))
}

func TestRequireAuth_UserNoLongerExists(t *testing.T) {
	guard, jwtService, _, db := newGuardEnv(t)
	user := createUser(t, db, "alice", model.RoleUser)

	token, err := jwtService.Issue(user)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&model.User{}, user.ID).Error)

	_, handlerErr := doRequest(t, guard.RequireAuth(okHandler), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, httpErrorCode(t, handlerErr))
}

func TestRequireAuth_AttachesResolvedUser(t *testing.T) {
	guard, jwtService, _, db := newGuardEnv(t)
	user := createUser(t, db, "alice", model.RoleUser)

	token, err := jwtService.Issue(user)
	require.NoError(t, err)

	var resolved *model.User
	handler := guard.RequireAuth(func(c echo.Context) error {
		current, ok := CurrentUser(c)
		require.True(t, ok)
		resolved = current
		return c.NoContent(http.StatusOK)
	})

	rec, handlerErr := doRequest(t, handler, "Bearer "+token)
	require.NoError(t, handlerErr)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "alice", resolved.Username)
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	guard, jwtService, _, db := newGuardEnv(t)
	user := createUser(t, db, "alice", model.RoleUser)

	token, err := jwtService.Issue(user)
	require.NoError(t, err)

	_, handlerErr := doRequest(t, guard.RequireAdmin(okHandler), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, httpErrorCode(t, handlerErr))
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	guard, jwtService, _, db := newGuardEnv(t)
	admin := createUser(t, db, "root", model.RoleAdmin)

	token, err := jwtService.Issue(admin)
	require.NoError(t, err)

	rec, handlerErr := doRequest(t, guard.RequireAdmin(okHandler), "Bearer "+token)
	require.NoError(t, handlerErr)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_PropagatesAuthFailure(t *testing.T) {
	guard, _, _, _ := newGuardEnv(t)

	_, err := doRequest(t, guard.RequireAdmin(okHandler), "")
	assert.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))

	_, err = doRequest(t, guard.RequireAdmin(okHandler), "Bearer garbage")
	assert.Equal(t, http.StatusForbidden, httpErrorCode(t, err))
}
