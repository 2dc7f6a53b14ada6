package auth

import (
	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/rs/zerolog/log"
)

const (
	// UsernameKey is the fiber.Locals key holding the authenticated user.
	UsernameKey = "username"

	// Realm shown by browsers in the login prompt.
	Realm = "Studio CMS"

	// AnonymousActor is recorded when no user is authenticated.
	AnonymousActor = "anonymous"
)

// Users maps usernames to argon2id hashes.
type Users map[string]string

// Authorize reports whether password matches the stored hash of user.
func (u Users) Authorize(user, password string) bool {
	hash, ok := u[user]
	if !ok || hash == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		log.Warn().Err(err).Str("user", user).Msg("stored password hash is not usable")
		return false
	}

	return match
}

// New returns the basic auth middleware for users.
func New(users Users) fiber.Handler {
	if len(users) == 0 {
		log.Warn().Msg("no admin users configured: editor and write endpoints will reject every request")
	}

	return basicauth.New(basicauth.Config{
		Realm:           Realm,
		Authorizer:      users.Authorize,
		ContextUsername: UsernameKey,
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="`+Realm+`"`)

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":      false,
				"error":   "unauthorized",
				"message": "authentication required",
			})
		},
	})
}

// Actor returns the authenticated username or AnonymousActor.
func Actor(c *fiber.Ctx) string {
	if user, ok := c.Locals(UsernameKey).(string); ok && user != "" {
		return user
	}

	return AnonymousActor
}

// HashPassword creates an argon2id hash for the configuration.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}
