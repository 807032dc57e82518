package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func adminClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  "curator",
		"role": RoleAdmin,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func runAuthz(t *testing.T, path, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		r.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	Authz(next).ServeHTTP(w, r)
	return w, called
}

func TestAuthz_PublicEndpoints(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	paths := []string{"/healthz", "/metrics", "/auth/token", "/auth/token?debug=1"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w, called := runAuthz(t, path, "")

			if !called {
				t.Error("expected next handler to run without a token")
			}
			if w.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", w.Code)
			}
		})
	}
}

func TestAuthz_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	w, called := runAuthz(t, "/resources", "")

	if called {
		t.Error("next handler ran without a token")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAuthz_InvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	w, called := runAuthz(t, "/resources", "Bearer not.a.jwt")

	if called {
		t.Error("next handler ran with an invalid token")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAuthz_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signTestToken(t, "a-different-secret-also-32-chars!", adminClaims())
	w, called := runAuthz(t, "/resources", "Bearer "+token)

	if called {
		t.Error("next handler ran with a token signed by the wrong secret")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAuthz_ExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	claims := adminClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signTestToken(t, testSecret, claims)

	w, called := runAuthz(t, "/resources", "Bearer "+token)

	if called {
		t.Error("next handler ran with an expired token")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAuthz_NonAdminRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	claims := adminClaims()
	claims["role"] = "viewer"
	token := signTestToken(t, testSecret, claims)

	w, called := runAuthz(t, "/resources", "Bearer "+token)

	if called {
		t.Error("next handler ran for a non-admin role")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}
}

func TestAuthz_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signTestToken(t, testSecret, adminClaims())

	var user string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodDelete, "/resources/42", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	Authz(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if user != "curator" {
		t.Errorf("expected username 'curator' in context, got %q", user)
	}
}

func TestIsPublicEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/healthz", true},
		{"/healthz/", true},
		{"/metrics", true},
		{"/auth/token", true},
		{"/auth/token?x=1", true},
		{"/resources", false},
		{"/jurisdictions/uk", false},
		{"/healthzz", false},
		{"/auth/tokens", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsPublicEndpoint(tt.path); got != tt.want {
				t.Errorf("IsPublicEndpoint(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
