package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/edudesk/admin-api/internal/utils"
)

// identity is what the admin surface needs from a token: who is calling (for
// audit attribution) and what role gates apply.
type identity struct {
	ID   uint
	Name string
	Role string
}

// JWTProtected validates the bearer token and binds the caller's identity to
// the request. Handlers read user_id and user_name when stamping audit
// entries; RequireRole reads user_role.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c.Get("Authorization"))
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		who := identityFromClaims(claims)
		if who.ID != 0 {
			c.Locals("user_id", who.ID)
		}
		if who.Role != "" {
			c.Locals("user_role", who.Role)
		}
		if who.Name != "" {
			c.Locals("user_name", who.Name)
		}

		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("authorization header missing")
	}
	const bearer = "bearer "
	if !strings.HasPrefix(strings.ToLower(header), bearer) {
		return "", fmt.Errorf("invalid authorization header")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", fmt.Errorf("invalid token")
	}
	return token, nil
}

func identityFromClaims(claims jwt.MapClaims) identity {
	var who identity
	for _, key := range []string{"sub", "user_id", "id"} {
		if value, ok := claims[key]; ok {
			if id, err := claimUserID(value); err == nil {
				who.ID = id
				break
			}
		}
	}
	for _, key := range []string{"role", "roles"} {
		if value, ok := claims[key]; ok {
			if role := claimRole(value); role != "" {
				who.Role = role
				break
			}
		}
	}
	for _, key := range []string{"name", "user_name"} {
		if value, ok := claims[key]; ok {
			if name, isString := value.(string); isString {
				if trimmed := strings.TrimSpace(name); trimmed != "" {
					who.Name = trimmed
					break
				}
			}
		}
	}
	return who
}

func claimUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

func claimRole(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				if role := strings.ToLower(strings.TrimSpace(str)); role != "" {
					return role
				}
			}
		}
	}
	return ""
}
