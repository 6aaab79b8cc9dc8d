package handlers

import (
	"inkwell/database"
	"inkwell/forms"
	"inkwell/middleware"
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
)

// CommentCreate adds a comment to a post. On validation failure the post
// detail page is re-rendered with the invalid form and existing comments.
func CommentCreate(c *fiber.Ctx) error {
	viewer := middleware.Viewer(c)

	post, err := loadPost(c)
	if err != nil {
		return err
	}

	form := new(forms.CommentForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	if errs := forms.Validate(form); errs != nil {
		comments, err := loadComments(post.ID)
		if err != nil {
			return err
		}
		return c.Render("detail", fiber.Map{
			"Post":     post,
			"Comments": comments,
			"Form":     form,
			"Errors":   errs,
		})
	}

	comment := models.Comment{
		Text:     form.Text,
		AuthorID: viewer.ID,
		PostID:   post.ID,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		return err
	}

	return c.Redirect(postPath(c))
}

// CommentEdit lets the comment author change its text. Anyone else gets an
// explicit forbidden response.
func CommentEdit(c *fiber.Ctx) error {
	comment, err := loadComment(c)
	if err != nil {
		return err
	}
	if comment.AuthorID != middleware.Viewer(c).ID {
		return fiber.ErrForbidden
	}

	if c.Method() != fiber.MethodPost {
		form := &forms.CommentForm{Text: comment.Text}
		return c.Render("comment", fiber.Map{
			"Comment": comment,
			"Form":    form,
			"IsEdit":  true,
		})
	}

	form := new(forms.CommentForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := forms.Validate(form); errs != nil {
		return c.Render("comment", fiber.Map{
			"Comment": comment,
			"Form":    form,
			"Errors":  errs,
			"IsEdit":  true,
		})
	}

	comment.Text = form.Text
	if err := database.DB.Save(comment).Error; err != nil {
		return err
	}

	return c.Redirect(postPath(c))
}

// CommentDelete confirms and deletes a comment, author only.
func CommentDelete(c *fiber.Ctx) error {
	comment, err := loadComment(c)
	if err != nil {
		return err
	}
	if comment.AuthorID != middleware.Viewer(c).ID {
		return fiber.ErrForbidden
	}

	if c.Method() != fiber.MethodPost {
		return c.Render("comment", fiber.Map{
			"Comment":  comment,
			"IsDelete": true,
		})
	}

	if err := database.DB.Delete(comment).Error; err != nil {
		return err
	}
	return c.Redirect(postPath(c))
}

func loadComment(c *fiber.Ctx) (*models.Comment, error) {
	cid, err := c.ParamsInt("cid")
	if err != nil || cid < 1 {
		return nil, fiber.ErrNotFound
	}

	var comment models.Comment
	err = database.DB.Preload("Author").First(&comment, cid).Error
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return &comment, nil
}

// postPath rebuilds the detail URL from the id segment of the current route.
func postPath(c *fiber.Ctx) string {
	return "/posts/" + c.Params("id") + "/"
}
