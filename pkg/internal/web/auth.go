package web

import (
	"fmt"
	"strings"

	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// Identity issuance is the identity service's job; we only verify its
// HS-signed bearer tokens and resolve the local account row.

type authClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

func authMiddleware(c *fiber.Ctx) error {
	var tk string
	if authorization := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(authorization, "Bearer ") {
		tk = strings.TrimPrefix(authorization, "Bearer ")
	} else if val := c.Query("tk"); len(val) > 0 {
		// Websocket clients cannot set headers
		tk = val
	}
	if len(tk) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization token is required")
	}

	var claims authClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(viper.GetString("secret")), nil
	})
	if err != nil || !token.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization token is invalid")
	}

	user, err := services.GetAccount(claims.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "account was not found")
	}

	c.Locals("user", user)

	return c.Next()
}
