package handlers

import (
	"strings"

	"inkwell/database"
	"inkwell/forms"
	"inkwell/middleware"
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Registration creates a new account and redirects to the login page.
func Registration(c *fiber.Ctx) error {
	form := new(forms.RegistrationForm)
	if c.Method() != fiber.MethodPost {
		return c.Render("registration", fiber.Map{"Form": form})
	}

	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	errs := forms.Validate(form)
	if errs == nil {
		errs = map[string]string{}
	}
	if form.Username != "" {
		var cnt int64
		database.DB.Model(&models.User{}).
			Where("username = ?", form.Username).
			Count(&cnt)
		if cnt > 0 {
			errs["username"] = "A user with that username already exists."
		}
	}
	if len(errs) > 0 {
		return c.Render("registration", fiber.Map{"Form": form, "Errors": errs})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password1), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hashed),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return err
	}

	return c.Redirect("/auth/login/")
}

// Login authenticates a user and issues the session cookie.
func Login(c *fiber.Ctx) error {
	form := new(forms.LoginForm)
	if c.Method() != fiber.MethodPost {
		return c.Render("login", fiber.Map{"Form": form})
	}

	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	invalid := fiber.Map{
		"Form":   form,
		"Errors": map[string]string{"__all__": "Invalid username or password."},
	}

	if errs := forms.Validate(form); errs != nil {
		return c.Render("login", invalid)
	}

	var user models.User
	err := database.DB.Where("username = ?", form.Username).First(&user).Error
	if err != nil {
		return c.Render("login", invalid)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil {
		return c.Render("login", invalid)
	}

	if err := middleware.IssueCookie(c, &user); err != nil {
		return err
	}

	// Only follow same-site next targets.
	next := c.Query("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	return c.Redirect(next)
}

// Logout clears the session cookie.
func Logout(c *fiber.Ctx) error {
	middleware.ClearCookie(c)
	return c.Redirect("/")
}

// PasswordChange sets a new password for the viewer. A mismatched
// confirmation persists nothing; on success the session cookie is
// re-issued so the viewer stays logged in.
func PasswordChange(c *fiber.Ctx) error {
	viewer := middleware.Viewer(c)

	form := new(forms.PasswordChangeForm)
	if c.Method() != fiber.MethodPost {
		return c.Render("password_change", fiber.Map{"Form": form})
	}

	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := forms.Validate(form); errs != nil {
		return c.Render("password_change", fiber.Map{"Form": form, "Errors": errs})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password1), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	viewer.Password = string(hashed)
	if err := database.DB.Save(viewer).Error; err != nil {
		return err
	}

	if err := middleware.IssueCookie(c, viewer); err != nil {
		return err
	}
	return c.Redirect("/auth/password_change/done/")
}

// PasswordChangeDone renders the confirmation page.
func PasswordChangeDone(c *fiber.Ctx) error {
	return c.Render("password_change_done", fiber.Map{})
}
