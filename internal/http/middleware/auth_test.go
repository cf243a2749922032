package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kinfolkhq/kinfolk-backend/internal/repos/testutil"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authTestRouter(t *testing.T) (*gin.Engine, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var gotConsumer string
	r := gin.New()
	r.Use(NewAuthMiddleware(testutil.Logger(t), testSecret).RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		gotConsumer = ConsumerID(c)
		c.Status(http.StatusOK)
	})
	return r, &gotConsumer
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r, gotConsumer := authTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-42"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if *gotConsumer != "user-42" {
		t.Fatalf("consumer id: got=%q want=%q", *gotConsumer, "user-42")
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r, _ := authTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	r, _ := authTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "user-42"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}
