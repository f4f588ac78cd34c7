package services

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"unicode/utf8"

	"blog/app/models"

	"github.com/go-playground/validator/v10"
)

var formValidate = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the form field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CommentForm is the visitor-facing comment form. It carries the submitted
// values and, after Validate, the field errors to show next to each input.
type CommentForm struct {
	UserName    string            `form:"user_name" json:"user_name" validate:"required,max=100"`
	UserEmail   string            `form:"user_email" json:"user_email" validate:"required,email"`
	CommentText string            `form:"comment_text" json:"comment_text" validate:"required,max=500"`
	Errors      map[string]string `form:"-" json:"errors,omitempty"`
}

// NewCommentForm binds a form from posted values, trimming surrounding whitespace.
func NewCommentForm(values url.Values) *CommentForm {
	return &CommentForm{
		UserName:    strings.TrimSpace(values.Get("user_name")),
		UserEmail:   strings.TrimSpace(values.Get("user_email")),
		CommentText: strings.TrimSpace(values.Get("comment_text")),
	}
}

// Validate checks the form and records one message per failing field.
func (f *CommentForm) Validate() bool {
	f.Errors = nil
	err := formValidate.Struct(f)
	if err == nil {
		return true
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		f.Errors = map[string]string{"__all__": err.Error()}
		return false
	}
	f.Errors = make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, seen := f.Errors[fe.Field()]; !seen {
			f.Errors[fe.Field()] = fieldMessage(fe)
		}
	}
	return false
}

// Valid reports whether the last Validate call found no errors.
func (f *CommentForm) Valid() bool {
	return len(f.Errors) == 0
}

// Error returns the message for a field, or "" when the field is valid.
func (f *CommentForm) Error(field string) string {
	return f.Errors[field]
}

// Comment builds the comment the form describes for the given post.
func (f *CommentForm) Comment(post *models.Post) *models.Comment {
	return &models.Comment{
		PostID:      post.ID,
		UserName:    f.UserName,
		UserEmail:   f.UserEmail,
		CommentText: f.CommentText,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
			fe.Param(), utf8.RuneCountInString(fe.Value().(string)))
	default:
		return fmt.Sprintf("Failed the %q check.", fe.Tag())
	}
}
