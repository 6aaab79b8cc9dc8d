package handlers

import (
	"fmt"
	"time"

	"inkwell/database"
	"inkwell/forms"
	"inkwell/middleware"
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
)

const pubDateInputLayout = "2006-01-02T15:04"

// Index renders the public post listing, newest first, 10 per page.
func Index(c *fiber.Ctx) error {
	q := database.DB.Model(&models.Post{}).
		Scopes(models.Visible(now())).
		Preload("Author").
		Preload("Category")

	page, err := models.PaginatePosts(q, c.QueryInt("page", 1))
	if err != nil {
		return err
	}

	return c.Render("index", fiber.Map{"Page": page})
}

// CategoryPosts renders the public listing scoped to one published category.
// An unknown or unpublished category is a 404.
func CategoryPosts(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var category models.Category
	err := database.DB.
		Where("slug = ? AND is_published = ?", slug, true).
		First(&category).Error
	if err != nil {
		return fiber.ErrNotFound
	}

	q := database.DB.Model(&models.Post{}).
		Where("posts.category_id = ? AND posts.is_published = ? AND posts.pub_date <= ?",
			category.ID, true, now()).
		Preload("Author").
		Preload("Category")

	page, err := models.PaginatePosts(q, c.QueryInt("page", 1))
	if err != nil {
		return err
	}

	return c.Render("category", fiber.Map{"Category": category, "Page": page})
}

// PostDetail renders one post with its comments and an empty comment form.
// A post hidden from the viewer is indistinguishable from a missing one.
func PostDetail(c *fiber.Ctx) error {
	post, err := loadPost(c)
	if err != nil {
		return err
	}
	if !post.VisibleTo(middleware.Viewer(c), now()) {
		return fiber.ErrNotFound
	}

	comments, err := loadComments(post.ID)
	if err != nil {
		return err
	}

	return c.Render("detail", fiber.Map{
		"Post":     post,
		"Comments": comments,
		"Form":     &forms.CommentForm{},
	})
}

// PostCreate shows the post form and, on a valid submission, persists a new
// post authored by the viewer. Any author value in the input is ignored.
func PostCreate(c *fiber.Ctx) error {
	viewer := middleware.Viewer(c)

	form := new(forms.PostForm)
	if c.Method() != fiber.MethodPost {
		return renderPostForm(c, form, nil, fiber.Map{})
	}

	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	pubDate, errs := validatePostForm(form)
	if len(errs) > 0 {
		return renderPostForm(c, form, errs, fiber.Map{})
	}

	post := models.Post{
		Title:       form.Title,
		Text:        form.Text,
		PubDate:     pubDate,
		IsPublished: form.IsPublished,
		CategoryID:  form.CategoryID,
		AuthorID:    viewer.ID,
	}
	if err := database.DB.Create(&post).Error; err != nil {
		return err
	}

	return c.Redirect("/profile/" + viewer.Username + "/")
}

// PostEdit lets the author change a post. Non-authors are redirected to the
// post detail page rather than shown an error.
func PostEdit(c *fiber.Ctx) error {
	post, err := loadPost(c)
	if err != nil {
		return err
	}
	viewer := middleware.Viewer(c)
	if post.AuthorID != viewer.ID {
		return c.Redirect(fmt.Sprintf("/posts/%d/", post.ID))
	}

	if c.Method() != fiber.MethodPost {
		form := &forms.PostForm{
			Title:       post.Title,
			Text:        post.Text,
			PubDate:     post.PubDate.Format(pubDateInputLayout),
			CategoryID:  post.CategoryID,
			IsPublished: post.IsPublished,
		}
		return renderPostForm(c, form, nil, fiber.Map{"IsEdit": true, "Post": post})
	}

	form := new(forms.PostForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	pubDate, errs := validatePostForm(form)
	if len(errs) > 0 {
		return renderPostForm(c, form, errs, fiber.Map{"IsEdit": true, "Post": post})
	}

	post.Title = form.Title
	post.Text = form.Text
	post.PubDate = pubDate
	post.IsPublished = form.IsPublished
	post.CategoryID = form.CategoryID
	if err := database.DB.Save(post).Error; err != nil {
		return err
	}

	return renderPostForm(c, form, nil, fiber.Map{"IsEdit": true, "Post": post})
}

// PostDelete confirms and deletes a post. The lookup is scoped to the
// viewer, so a non-owner request reads as not found.
func PostDelete(c *fiber.Ctx) error {
	viewer := middleware.Viewer(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return fiber.ErrNotFound
	}

	var post models.Post
	err = database.DB.
		Preload("Category").
		Where("author_id = ?", viewer.ID).
		First(&post, id).Error
	if err != nil {
		return fiber.ErrNotFound
	}

	if c.Method() != fiber.MethodPost {
		return c.Render("create", fiber.Map{"Post": post, "IsDelete": true})
	}

	if err := database.DB.Delete(&post).Error; err != nil {
		return err
	}
	return c.Redirect("/profile/" + viewer.Username + "/")
}

func loadPost(c *fiber.Ctx) (*models.Post, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, fiber.ErrNotFound
	}

	var post models.Post
	err = database.DB.Preload("Author").Preload("Category").First(&post, id).Error
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	return &post, nil
}

func loadComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := database.DB.
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// validatePostForm runs the declared rules plus the checks the schema
// cannot express: a parseable publish date and an existing category.
func validatePostForm(form *forms.PostForm) (time.Time, map[string]string) {
	errs := forms.Validate(form)
	if errs == nil {
		errs = map[string]string{}
	}

	pubDate, err := form.PubDateTime()
	if err != nil && errs["pub_date"] == "" {
		errs["pub_date"] = "Enter a valid date and time."
	}

	if form.CategoryID != 0 {
		var cnt int64
		database.DB.Model(&models.Category{}).
			Where("id = ?", form.CategoryID).
			Count(&cnt)
		if cnt == 0 {
			errs["category"] = "Select a valid category."
		}
	}

	return pubDate, errs
}

func renderPostForm(c *fiber.Ctx, form *forms.PostForm, errs map[string]string, extra fiber.Map) error {
	var categories []models.Category
	if err := database.DB.Order("title ASC").Find(&categories).Error; err != nil {
		return err
	}

	data := fiber.Map{
		"Form":       form,
		"Errors":     errs,
		"Categories": categories,
	}
	for k, v := range extra {
		data[k] = v
	}
	return c.Render("create", data)
}
