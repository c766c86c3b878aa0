package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"resume-editor/internal/shared/auth"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.GET("/api/v1/resumes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":  UserIDFromContext(c),
			"email":   UserEmailFromContext(c),
			"isGuest": IsGuest(c),
		})
	})
	router.OPTIONS("/api/v1/resumes", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthGuestHeader(t *testing.T) {
	router := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	req.Header.Set("X-Guest-Id", "abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"email":"","isGuest":true,"userId":"guest:abc"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestAuthBearerToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	t.Setenv("ENV", "dev")
	token, err := auth.SignJWT(auth.Claims{Email: "ada@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"}})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	router := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"email":"ada@example.com","isGuest":false,"userId":"user-7"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestAuthRejectsMissingOrBadIdentity(t *testing.T) {
	router := newAuthRouter()

	for name, header := range map[string]string{
		"missing": "",
		"basic":   "Basic abc",
		"garbage": "Bearer not-a-jwt",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.Code)
		}
	}
}
