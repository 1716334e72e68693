package services

import (
	"time"

	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/security"
	"github.com/lumenlearn/engage-go/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// AdminService resolves operator privileges for a session. The credential is
// presented once; on success a signed bypass token is issued that the client
// holds for the rest of the session, so later page loads grant access without
// re-presenting the credential. Purely local, no network call.
type AdminService struct {
	logger *logging.ChanneledLogger
}

// NewAdminService creates a new admin service.
func NewAdminService(logger *logging.ChanneledLogger) *AdminService {
	return &AdminService{logger: logger}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token   string `json:"token,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Authenticate validates the operator credential and issues a bypass token.
func (a *AdminService) Authenticate(sessionID, key string) *AuthResult {
	valid := false

	if key != "" && config.AdminKeyHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(config.AdminKeyHash), []byte(key)); err == nil {
			valid = true
		}
	}

	// Fallback for plaintext keys during development
	if !valid && key != "" && config.AdminKey != "" && key == config.AdminKey {
		valid = true
	}

	if !valid {
		a.logger.Auth().Warn("Admin authentication failed", "sessionId", sessionID)
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}

	token, err := security.GenerateBypassToken(sessionID, config.JWTSecret, config.AdminBypassLifetime)
	if err != nil {
		a.logger.Auth().Error("Bypass token generation failed", "error", err.Error(), "sessionId", sessionID)
		return &AuthResult{Success: false, Error: "Token generation failed"}
	}

	a.logger.Auth().Info("Admin bypass granted", "sessionId", sessionID, "lifetime", config.AdminBypassLifetime)
	return &AuthResult{Token: token, Success: true}
}

// ResolveBypass reports whether a presented token grants the admin bypass.
// Absent or invalid tokens resolve to false, never an error.
func (a *AdminService) ResolveBypass(token string) bool {
	if token == "" {
		return false
	}

	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		a.logger.Auth().Debug("Bypass token rejected", "error", err.Error())
		return false
	}

	if exp, ok := claims["exp"].(float64); ok && time.Now().UTC().Unix() > int64(exp) {
		return false
	}

	return security.IsBypassClaims(claims)
}
