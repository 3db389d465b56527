package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// currentUserID reads the authenticated user's id from the JWT set by the
// Protected middleware.
func currentUserID(c *fiber.Ctx) (primitive.ObjectID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "Missing authentication")
	}
	claims := token.Claims.(jwt.MapClaims)
	idStr, _ := claims["user_id"].(string)
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, fiber.NewError(fiber.StatusUnauthorized, "Malformed user id in token")
	}
	return id, nil
}

func currentRole(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	return role
}
