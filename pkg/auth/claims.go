package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the only role the dashboard token carries.
const AdminRole = "admin"

// AdminTokenPayload captures the data available when minting a dashboard JWT.
type AdminTokenPayload struct {
	// SessionID becomes the jti and the Redis session key. When empty a
	// fresh id is generated.
	SessionID string
}

// AdminClaims represents the typed JWT issued to the dashboard.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
