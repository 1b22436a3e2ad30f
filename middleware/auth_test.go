package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/reviewers-only", AuthMiddleware(), RequireRole(2, 3), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("userID")})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	prev := UserExists
	UserExists = func(id int) bool { return id != 99 }
	defer func() { UserExists = prev }()

	valid := func(userID, roleID int) string {
		return signedToken(t, "test-secret", Claims{
			UserID: userID,
			RoleID: roleID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", valid(1, 2), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signedToken(t, "other", Claims{UserID: 1, RoleID: 2}), http.StatusUnauthorized},
		{"deleted user", "Bearer " + valid(99, 2), http.StatusUnauthorized},
		{"submitter forbidden", "Bearer " + valid(1, 1), http.StatusForbidden},
		{"reviewer allowed", "Bearer " + valid(1, 2), http.StatusOK},
		{"admin allowed", "Bearer " + valid(1, 3), http.StatusOK},
	}

	r := newAuthRouter()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/reviewers-only", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("%s: got %d want %d (%s)", tc.name, w.Code, tc.want, w.Body.String())
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signedToken(t, "test-secret", Claims{
		UserID: 1,
		RoleID: 3,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	if _, err := ParseToken(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://ideas.example.org")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://ideas.example.org")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ideas.example.org" {
		t.Fatalf("unexpected allow origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin must not be allowed, got %q", got)
	}
}
