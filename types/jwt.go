package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the verified principal carried by every access token.
// Handlers trust these fields; they never re-validate the credential.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
