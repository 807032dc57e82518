package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"records-atlas/internal/handler/http/requestid"
)

// RoleAdmin is the only role the catalog knows. Mutating endpoints
// require it.
const RoleAdmin = "admin"

// minSecretLength is the minimum accepted JWT secret length in bytes.
const minSecretLength = 32

// tokenTTL is the lifetime of issued tokens.
const tokenTTL = time.Hour

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// ValidateSecret checks that the configured JWT secret is usable.
// Called at startup so a weak or missing secret fails fast.
func ValidateSecret() error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if len(secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters, got %d", minSecretLength, len(secret))
	}
	return nil
}

// TokenHandler authenticates the admin user against ADMIN_USER and
// ADMIN_USER_PASSWORD and issues an HS256 JWT valid for one hour.
func TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := requestid.FromContext(r.Context())
		logger := slog.With(slog.String("request_id", requestID))

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("authentication failed",
				slog.String("reason", "invalid_request"),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validateCredentials(req.Username, req.Password); err != nil {
			logger.Warn("authentication failed",
				slog.String("reason", "invalid_credentials"),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		secret := []byte(os.Getenv("JWT_SECRET"))
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  req.Username,
			"role": RoleAdmin,
			"iat":  time.Now().Unix(),
			"exp":  time.Now().Add(tokenTTL).Unix(),
		})
		signed, err := token.SignedString(secret)
		if err != nil {
			logger.Error("token generation failed",
				slog.String("error", err.Error()))
			http.Error(w, "token generation failed", http.StatusInternalServerError)
			return
		}

		logger.Info("authentication succeeded",
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(tokenResponse{Token: signed}); err != nil {
			logger.Error("failed to encode token response",
				slog.String("error", err.Error()))
		}
	}
}

// validateCredentials compares against the configured admin user with
// constant-time comparison to prevent timing attacks.
func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("credentials must not be empty")
	}

	adminUser := os.Getenv("ADMIN_USER")
	adminPass := os.Getenv("ADMIN_USER_PASSWORD")
	if adminUser == "" || adminPass == "" {
		return fmt.Errorf("admin credentials not configured")
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(adminUser)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(adminPass)) == 1
	if !userMatch || !passMatch {
		return fmt.Errorf("invalid credentials")
	}
	return nil
}
