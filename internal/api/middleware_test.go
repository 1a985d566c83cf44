package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forgefit/coach-engine/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, userID string, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authTestRouter(roles ...domain.Role) *gin.Engine {
	router := gin.New()
	group := router.Group("/", AuthMiddleware(testSecret))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/probe", func(c *gin.Context) {
		userID, _ := getUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return router
}

func doProbe(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := primitive.NewObjectID().Hex()
	token := signToken(t, testSecret, userID, domain.RoleAthlete, time.Hour)

	w := doProbe(authTestRouter(), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	w := doProbe(authTestRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	w := doProbe(authTestRouter(), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", primitive.NewObjectID().Hex(), domain.RoleAthlete, time.Hour)
	w := doProbe(authTestRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, primitive.NewObjectID().Hex(), domain.RoleAthlete, -time.Minute)
	w := doProbe(authTestRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRoleMiddleware_AllowsMatchingRole(t *testing.T) {
	token := signToken(t, testSecret, primitive.NewObjectID().Hex(), domain.RoleAdmin, time.Hour)
	w := doProbe(authTestRouter(domain.RoleAdmin), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleMiddleware_RejectsOtherRole(t *testing.T) {
	token := signToken(t, testSecret, primitive.NewObjectID().Hex(), domain.RoleAthlete, time.Hour)
	w := doProbe(authTestRouter(domain.RoleAdmin), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
