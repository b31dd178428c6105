package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/models"
)

func testUser() models.User {
	return models.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	other := auth.NewTokenIssuer("different", time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", -time.Minute)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestMiddlewareAndRoleCheck(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	protected := auth.Middleware(issuer)(auth.RequireRole(models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	))

	// No token.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Admin token passes.
	token, err := issuer.Issue(testUser())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Plain user token is rejected by the role check.
	user := testUser()
	user.Role = models.RoleUser
	token, err = issuer.Issue(user)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
