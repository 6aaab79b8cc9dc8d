// Package middleware provides the request logging, authentication, and
// rate limiting layers shared by all handlers.
package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"inkwell/config"
	"inkwell/database"
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "sessionid"

const sessionTTL = 7 * 24 * time.Hour

var secretKey string

// InitMiddleware stores configuration used by the auth middleware.
func InitMiddleware(cfg *config.Config) {
	secretKey = cfg.SecretKey
}

// sessionAuthHash binds a token to the password hash it was issued against,
// so changing the password invalidates every other session.
func sessionAuthHash(passwordHash string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(passwordHash))
	return hex.EncodeToString(mac.Sum(nil))
}

func issueToken(user *models.User) (string, error) {
	if secretKey == "" {
		return "", fmt.Errorf("secret key not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"sah": sessionAuthHash(user.Password),
		"exp": now.Add(sessionTTL).Unix(),
		"iat": now.Unix(),
		"jti": uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// IssueCookie signs a fresh session token for the user and sets it on the
// response. Called on login and again after a password change so the
// viewer stays logged in.
func IssueCookie(c *fiber.Ctx, user *models.User) error {
	token, err := issueToken(user)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return nil
}

// ClearCookie removes the session cookie.
func ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

// CurrentUser resolves the session cookie to a user and stores it in
// c.Locals("user"). An invalid or stale token is treated as anonymous,
// never as an error.
func CurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(SessionCookie)
		if raw == "" {
			return c.Next()
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Next()
		}
		sub, _ := claims["sub"].(string)
		id, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return c.Next()
		}

		var user models.User
		if err := database.DB.First(&user, id).Error; err != nil {
			return c.Next()
		}

		// Stale tokens issued before a password change are rejected.
		sah, _ := claims["sah"].(string)
		if !hmac.Equal([]byte(sah), []byte(sessionAuthHash(user.Password))) {
			return c.Next()
		}

		c.Locals("user", &user)
		return c.Next()
	}
}

// Viewer returns the authenticated user for the request, or nil.
func Viewer(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// LoginRequired gates a route to authenticated viewers; anonymous requests
// are redirected to the login page with a next parameter.
func LoginRequired(c *fiber.Ctx) error {
	if Viewer(c) == nil {
		return c.Redirect("/auth/login/?next=" + url.QueryEscape(c.OriginalURL()))
	}
	return c.Next()
}
