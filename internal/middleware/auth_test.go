// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

func testToken(t *testing.T, role models.UserRole) string {
	t.Helper()
	utils.SetJWTSecret("test-secret")

	user := &models.User{Email: "test@example.com", Role: role}
	user.ID = uuid.New()

	token, err := utils.GenerateJWT(user, time.Hour)
	require.NoError(t, err)
	return token
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthRequired()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected", chain...)
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	w := request(protectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsGarbageToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	w := request(protectedRouter(), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	token := testToken(t, models.UserRoleCustomer)
	w := request(protectedRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequiredRejectsCustomer(t *testing.T) {
	token := testToken(t, models.UserRoleCustomer)
	w := request(protectedRouter(AdminRequired()), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRequiredAcceptsAdmin(t *testing.T) {
	token := testToken(t, models.UserRoleAdmin)
	w := request(protectedRouter(AdminRequired()), token)
	assert.Equal(t, http.StatusOK, w.Code)
}
