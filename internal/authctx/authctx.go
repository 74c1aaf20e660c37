package authctx

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Email extracts the authenticated user's email from JWT claims in context.
func Email(c *fiber.Ctx) string {
	claims, ok := tokenClaims(c)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

// UserID extracts the user UUID from the sub claim.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := tokenClaims(c)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}

// IsAdmin reports the is_admin claim minted at login. The admin route
// middleware re-checks the allow-list and the stored flag on top of this.
func IsAdmin(c *fiber.Ctx) bool {
	claims, ok := tokenClaims(c)
	if !ok {
		return false
	}
	admin, _ := claims["is_admin"].(bool)
	return admin
}

func tokenClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// OwnedBy returns a GORM scope that filters rows to a single owner.
func OwnedBy(email string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_email = ?", email)
	}
}
