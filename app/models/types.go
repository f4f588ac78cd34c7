package models

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate    = validator.New(validator.WithRequiredStructEnabled())
	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func init() {
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

// Author represents a person who writes posts.
type Author struct {
	ID        int    `json:"id" validate:"gte=0"`
	FirstName string `json:"first_name" yaml:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" yaml:"last_name" validate:"required,max=100"`
	Email     string `json:"email" yaml:"email" validate:"required,email"`
}

// Tag is a short label attached to posts.
type Tag struct {
	ID      int    `json:"id" validate:"gte=0"`
	Caption string `json:"caption" yaml:"caption" validate:"required,max=20"`
}

// Post represents a blog post. Date holds the time the post was last saved.
type Post struct {
	ID       int       `json:"id" validate:"gte=0"`
	Title    string    `json:"title" yaml:"title" validate:"required,max=255"`
	Excerpt  string    `json:"excerpt" yaml:"excerpt" validate:"required,max=400"`
	Image    string    `json:"image,omitempty" yaml:"image" validate:"omitempty,max=100"`
	Date     time.Time `json:"date" yaml:"-"`
	Slug     string    `json:"slug" yaml:"slug" validate:"required,max=50,slug"`
	Content  string    `json:"content" yaml:"content" validate:"required,min=10"`
	TagIDs   []int     `json:"tag_ids" yaml:"-" validate:"unique,dive,gt=0"`
	AuthorID *int      `json:"author_id,omitempty" yaml:"-" validate:"omitempty,gt=0"`
}

// Comment represents a visitor comment on a post.
type Comment struct {
	ID          int       `json:"id" validate:"gte=0"`
	PostID      int       `json:"post_id" validate:"required,gt=0"`
	UserName    string    `json:"user_name" validate:"required,max=100"`
	UserEmail   string    `json:"user_email" validate:"required,email"`
	CommentText string    `json:"comment_text" validate:"required,max=500"`
	CreatedAt   time.Time `json:"created_at"`
}
