package helpers

import (
	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// SessionClaims is what the auth middleware stores in the request context:
// the validated token claims plus the session state resolved for this user.
type SessionClaims struct {
	*CustomClaims
	UserID       string `json:"id"`
	Email        string `json:"email,omitempty"`
	SetupDone    bool   `json:"setup_done"`
	SessionState string `json:"session_state,omitempty"`
}

func (sc *SessionClaims) IsOwner(userID string) bool {
	return sc.UserID == userID
}
