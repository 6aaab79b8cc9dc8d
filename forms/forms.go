// Package forms defines the submitted-form schemas and their validation
// rules. Each form binds request fields via `form` tags and declares its
// constraints via validator tags; Validate turns rule violations into
// per-field messages for the templates.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the form field names, not the Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// PostForm binds the post create/edit form. The author is never part of
// the form; handlers always stamp the current viewer.
type PostForm struct {
	Title       string `form:"title" validate:"required,max=256"`
	Text        string `form:"text" validate:"required"`
	PubDate     string `form:"pub_date" validate:"required"`
	CategoryID  uint   `form:"category" validate:"required"`
	IsPublished bool   `form:"is_published"`
}

// pubDateLayouts accepted from the datetime-local input and API-style clients.
var pubDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// PubDateTime parses the submitted publish date.
func (f *PostForm) PubDateTime() (time.Time, error) {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, f.PubDate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", f.PubDate)
}

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

type RegistrationForm struct {
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"omitempty,email"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

type ProfileForm struct {
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"omitempty,email"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Bio       string `form:"bio"`
}

type PasswordChangeForm struct {
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Validate runs the declared rules and returns field → message. A nil map
// means the form is valid.
func Validate(form any) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	fieldErrs := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrs["__all__"] = "Invalid submission."
		return fieldErrs
	}
	for _, fe := range verrs {
		fieldErrs[fe.Field()] = message(fe)
	}
	return fieldErrs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "eqfield":
		return "Passwords don't match."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	}
	return "Invalid value."
}
