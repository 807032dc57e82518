package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-with-at-least-32-characters"

func setAuthEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_USER", "curator")
	t.Setenv("ADMIN_USER_PASSWORD", "registry-pass")
}

func postLogin(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	w := httptest.NewRecorder()
	TokenHandler()(w, r)
	return w
}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"valid secret", testSecret, false},
		{"missing secret", "", true},
		{"too short", "short", true},
		{"just under minimum", strings.Repeat("x", 31), true},
		{"exactly minimum", strings.Repeat("x", 32), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)

			err := ValidateSecret()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTokenHandler_Success(t *testing.T) {
	setAuthEnv(t)

	w := postLogin(t, "curator", "registry-pass")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}

	// The issued token must verify with the configured secret and carry
	// the admin role.
	tok, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected MapClaims")
	}
	if claims["sub"] != "curator" {
		t.Errorf("expected sub 'curator', got %v", claims["sub"])
	}
	if claims["role"] != RoleAdmin {
		t.Errorf("expected role %q, got %v", RoleAdmin, claims["role"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatal("expected exp claim")
	}
	remaining := time.Until(time.Unix(int64(exp), 0))
	if remaining < 55*time.Minute || remaining > 65*time.Minute {
		t.Errorf("expected roughly one hour lifetime, got %v", remaining)
	}
}

func TestTokenHandler_WrongUsername(t *testing.T) {
	setAuthEnv(t)

	w := postLogin(t, "intruder", "registry-pass")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestTokenHandler_WrongPassword(t *testing.T) {
	setAuthEnv(t)

	w := postLogin(t, "curator", "guess")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestTokenHandler_EmptyCredentials(t *testing.T) {
	setAuthEnv(t)

	w := postLogin(t, "", "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestTokenHandler_AdminNotConfigured(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_USER", "")
	t.Setenv("ADMIN_USER_PASSWORD", "")

	w := postLogin(t, "curator", "registry-pass")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestTokenHandler_InvalidJSON(t *testing.T) {
	setAuthEnv(t)

	r := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	TokenHandler()(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
