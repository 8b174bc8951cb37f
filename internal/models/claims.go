package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims carries the authenticated identity pair supplied by the auth
// service. The wallet API trusts these claims; it never performs
// authentication itself.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	UserType string `json:"user_type"`
}

// CanActFor reports whether the claims may operate on the given identity.
// Admins may act on any wallet; everyone else only on their own.
func (c *UserClaims) CanActFor(userID uint, userType string) bool {
	if c.UserType == UserTypeAdmin {
		return true
	}
	return c.UserID == userID && c.UserType == userType
}
