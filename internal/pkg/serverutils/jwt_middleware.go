package serverutils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware accepts HMAC bearer tokens signed with secret and stores the
// user_id claim in ctx.Locals("user_id"). Browsers opening a websocket cannot
// set headers, so a "token" query parameter is accepted as well.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var tokenStr string
		if authHeader := ctx.Get("Authorization"); len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		} else {
			tokenStr = ctx.Query("token")
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}

		userID, _ := claims["user_id"].(string)
		ctx.Locals("user_id", userID)
		return ctx.Next()
	}
}

// UserID returns the user_id set by JwtMiddleware, or "".
func UserID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals("user_id").(string)
	return id
}
