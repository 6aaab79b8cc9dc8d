package handlers

import (
	"inkwell/database"
	"inkwell/forms"
	"inkwell/middleware"
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
)

// Profile renders a user's post listing. Owners see all of their posts,
// everyone else only the publicly visible ones.
func Profile(c *fiber.Ctx) error {
	username := c.Params("username")

	var user models.User
	err := database.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		return fiber.ErrNotFound
	}

	q := database.DB.Model(&models.Post{}).
		Where("posts.author_id = ?", user.ID).
		Preload("Author").
		Preload("Category")

	viewer := middleware.Viewer(c)
	if viewer == nil || viewer.ID != user.ID {
		q = q.Scopes(models.Visible(now()))
	}

	page, err := models.PaginatePosts(q, c.QueryInt("page", 1))
	if err != nil {
		return err
	}

	return c.Render("profile", fiber.Map{"Profile": &user, "Page": page})
}

// ProfileEdit updates the viewer's own account record, regardless of the
// username segment in the URL.
func ProfileEdit(c *fiber.Ctx) error {
	viewer := middleware.Viewer(c)

	if c.Method() != fiber.MethodPost {
		form := &forms.ProfileForm{
			Username:  viewer.Username,
			Email:     viewer.Email,
			FirstName: viewer.FirstName,
			LastName:  viewer.LastName,
			Bio:       viewer.Bio,
		}
		return c.Render("user", fiber.Map{"Form": form})
	}

	form := new(forms.ProfileForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	errs := forms.Validate(form)
	if errs == nil {
		errs = map[string]string{}
	}
	if form.Username != viewer.Username {
		var cnt int64
		database.DB.Model(&models.User{}).
			Where("username = ?", form.Username).
			Count(&cnt)
		if cnt > 0 {
			errs["username"] = "A user with that username already exists."
		}
	}
	if len(errs) > 0 {
		return c.Render("user", fiber.Map{"Form": form, "Errors": errs})
	}

	viewer.Username = form.Username
	viewer.Email = form.Email
	viewer.FirstName = form.FirstName
	viewer.LastName = form.LastName
	viewer.Bio = form.Bio
	if err := database.DB.Save(viewer).Error; err != nil {
		return err
	}

	return c.Redirect("/profile/" + viewer.Username + "/")
}
