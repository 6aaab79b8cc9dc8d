package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkwell/config"
	"inkwell/database"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

const testPassword = "sw0rdfish-42"

// setupApp wires an in-memory SQLite database into the global handle and
// builds the full application, templates and routes included.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	middleware.InitMiddleware(&config.Config{SecretKey: "test-secret-key"})

	return routes.NewApp("../views")
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashPassword(t, testPassword),
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	// MinCost keeps the suite fast; the handlers only compare hashes.
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func createCategory(t *testing.T, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{
		Title:       "Category " + slug,
		Slug:        slug,
		IsPublished: published,
	}
	require.NoError(t, database.DB.Create(category).Error)
	return category
}

type postOpts struct {
	title       string
	pubDate     time.Time
	isPublished bool
}

func createPost(t *testing.T, author *models.User, category *models.Category, opts postOpts) *models.Post {
	t.Helper()
	if opts.pubDate.IsZero() {
		opts.pubDate = time.Now().Add(-time.Hour)
	}
	post := &models.Post{
		Title:       opts.title,
		Text:        "body of " + opts.title,
		PubDate:     opts.pubDate,
		IsPublished: opts.isPublished,
		AuthorID:    author.ID,
		CategoryID:  category.ID,
	}
	require.NoError(t, database.DB.Create(post).Error)
	return post
}

func createComment(t *testing.T, author *models.User, post *models.Post, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Text:     text,
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	require.NoError(t, database.DB.Create(comment).Error)
	return comment
}

// login submits the login form and returns the session cookie value.
func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {testPassword}}
	resp := doPost(t, app, "/auth/login/", form, "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode, "login should redirect")

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.Value != "" {
			return cookie.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func doGet(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doPost(t *testing.T, app *fiber.App, path string, form url.Values, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
