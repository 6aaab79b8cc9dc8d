package routes

import (
	"time"

	"inkwell/cache"
	"inkwell/handlers"
	"inkwell/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

// NewApp builds the Fiber application: template engine, error pages,
// middleware chain, and the full routing table.
func NewApp(viewsDir string) *fiber.App {
	engine := html.New(viewsDir, ".html")

	app := fiber.New(fiber.Config{
		AppName:           "Inkwell",
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      handlers.ErrorHandler,
	})

	app.Use(middleware.StructuredLogger())
	app.Use(middleware.CurrentUser())

	Setup(app)
	return app
}

func Setup(app *fiber.App) {
	app.Get("/", handlers.Index)
	app.Get("/category/:slug/", handlers.CategoryPosts)

	// Post routes. Create is registered before :id so the literal segment wins.
	posts := app.Group("/posts")
	posts.Get("/create/", middleware.LoginRequired, handlers.PostCreate)
	posts.Post("/create/", middleware.LoginRequired, handlers.PostCreate)
	posts.Get("/:id/", handlers.PostDetail)
	posts.Get("/:id/edit/", middleware.LoginRequired, handlers.PostEdit)
	posts.Post("/:id/edit/", middleware.LoginRequired, handlers.PostEdit)
	posts.Get("/:id/delete/", middleware.LoginRequired, handlers.PostDelete)
	posts.Post("/:id/delete/", middleware.LoginRequired, handlers.PostDelete)

	// Comment routes
	posts.Post("/:id/comment/", middleware.LoginRequired, handlers.CommentCreate)
	posts.Get("/:id/comment/:cid/edit/", middleware.LoginRequired, handlers.CommentEdit)
	posts.Post("/:id/comment/:cid/edit/", middleware.LoginRequired, handlers.CommentEdit)
	posts.Get("/:id/comment/:cid/delete/", middleware.LoginRequired, handlers.CommentDelete)
	posts.Post("/:id/comment/:cid/delete/", middleware.LoginRequired, handlers.CommentDelete)

	// Profile routes
	profile := app.Group("/profile")
	profile.Get("/:username/", handlers.Profile)
	profile.Get("/:username/edit/", middleware.LoginRequired, handlers.ProfileEdit)
	profile.Post("/:username/edit/", middleware.LoginRequired, handlers.ProfileEdit)

	// Auth routes; form submissions on login and registration are rate limited.
	authLimit := middleware.RateLimit(cache.Client, 10, time.Minute, "auth")
	auth := app.Group("/auth")
	auth.Get("/registration/", handlers.Registration)
	auth.Post("/registration/", authLimit, handlers.Registration)
	auth.Get("/login/", handlers.Login)
	auth.Post("/login/", authLimit, handlers.Login)
	auth.Get("/logout/", handlers.Logout)
	auth.Get("/password_change/", middleware.LoginRequired, handlers.PasswordChange)
	auth.Post("/password_change/", middleware.LoginRequired, handlers.PasswordChange)
	auth.Get("/password_change/done/", middleware.LoginRequired, handlers.PasswordChangeDone)
}
