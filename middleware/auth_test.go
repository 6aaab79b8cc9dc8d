package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/config"
	"inkwell/database"
	"inkwell/middleware"
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthApp(t *testing.T) (*fiber.App, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	middleware.InitMiddleware(&config.Config{SecretKey: "test-secret-key"})

	user := &models.User{Username: "alice", Password: "bcrypt-hash-stand-in"}
	require.NoError(t, db.Create(user).Error)

	app := fiber.New()
	app.Use(middleware.CurrentUser())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if u := middleware.Viewer(c); u != nil {
			return c.SendString(u.Username)
		}
		return c.SendString("anonymous")
	})
	app.Get("/issue", func(c *fiber.Ctx) error {
		return middleware.IssueCookie(c, user)
	})
	app.Get("/gated", middleware.LoginRequired, func(c *fiber.Ctx) error {
		return c.SendString("in")
	})
	return app, user
}

func whoami(t *testing.T, app *fiber.App, cookie string) string {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	return string(buf[:n])
}

func issueCookie(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/issue", nil), -1)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c.Value
		}
	}
	t.Fatal("no cookie issued")
	return ""
}

func TestCurrentUserResolvesCookie(t *testing.T) {
	app, _ := setupAuthApp(t)

	assert.Equal(t, "anonymous", whoami(t, app, ""))

	cookie := issueCookie(t, app)
	assert.Equal(t, "alice", whoami(t, app, cookie))
}

func TestCurrentUserIgnoresGarbageTokens(t *testing.T) {
	app, _ := setupAuthApp(t)

	assert.Equal(t, "anonymous", whoami(t, app, "not-a-jwt"))
	assert.Equal(t, "anonymous", whoami(t, app, "eyJhbGciOiJIUzI1NiJ9.tampered.sig"))
}

func TestCurrentUserRejectsStaleTokenAfterPasswordChange(t *testing.T) {
	app, user := setupAuthApp(t)
	cookie := issueCookie(t, app)
	require.Equal(t, "alice", whoami(t, app, cookie))

	// Simulate a password change: the stored hash moves on.
	require.NoError(t, database.DB.Model(user).Update("password", "a-new-hash").Error)

	assert.Equal(t, "anonymous", whoami(t, app, cookie))
}

func TestLoginRequiredRedirectsAnonymous(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/gated", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/auth/login/?next=")
}
