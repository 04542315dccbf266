package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"clubhub/internal/core/domain"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/response"
)

const accountKey = "account"

// AuthMiddleware resolves the Bearer session token into the acting account.
// Every protected route goes through Gate.Authenticate; nothing else reads tokens.
func AuthMiddleware(gate *services.AuthorizationGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		account, err := gate.Authenticate(c.UserContext(), token)
		if err != nil {
			return response.FromError(c, err)
		}

		c.Locals(accountKey, account)
		return c.Next()
	}
}

// RequirePermission allows the request only when the actor holds every code
func RequirePermission(gate *services.AuthorizationGate, codes ...string) fiber.Handler {
	predicates := make([]services.Predicate, 0, len(codes))
	for _, code := range codes {
		predicates = append(predicates, gate.HasPermission(code))
	}

	return func(c *fiber.Ctx) error {
		actor := CurrentAccount(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if err := gate.Require(c.UserContext(), actor, predicates...); err != nil {
			return response.FromError(c, err)
		}
		return c.Next()
	}
}

// CurrentAccount returns the account stored by AuthMiddleware, or nil
func CurrentAccount(c *fiber.Ctx) *domain.Account {
	account, _ := c.Locals(accountKey).(*domain.Account)
	return account
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
