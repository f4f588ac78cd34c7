package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validPost() *Post {
	return &Post{
		Title:   "Valid Title",
		Excerpt: "A short summary",
		Slug:    "valid-title",
		Content: "This is valid content that meets the minimum length requirement",
	}
}

func TestPostValidation(t *testing.T) {
	authorID := 3
	tests := []struct {
		name    string
		mutate  func(p *Post)
		wantErr bool
	}{
		{name: "valid post", mutate: func(p *Post) {}},
		{name: "valid post with author and tags", mutate: func(p *Post) {
			p.AuthorID = &authorID
			p.TagIDs = []int{1, 2}
		}},
		{name: "content exactly ten characters", mutate: func(p *Post) { p.Content = "0123456789" }},
		{name: "content too short", mutate: func(p *Post) { p.Content = "Too short" }, wantErr: true},
		{name: "empty title", mutate: func(p *Post) { p.Title = "" }, wantErr: true},
		{name: "excerpt too long", mutate: func(p *Post) { p.Excerpt = strings.Repeat("e", 401) }, wantErr: true},
		{name: "missing slug", mutate: func(p *Post) { p.Slug = "" }, wantErr: true},
		{name: "slug with spaces", mutate: func(p *Post) { p.Slug = "hello world" }, wantErr: true},
		{name: "slug with slash", mutate: func(p *Post) { p.Slug = "hello/world" }, wantErr: true},
		{name: "zero tag id", mutate: func(p *Post) { p.TagIDs = []int{0} }, wantErr: true},
		{name: "duplicate tag ids", mutate: func(p *Post) { p.TagIDs = []int{3, 3} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := validPost()
			tt.mutate(post)
			err := post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeSave(t *testing.T) {
	post := validPost()
	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	post.BeforeSave(first)
	assert.Equal(t, first, post.Date)

	second := first.Add(48 * time.Hour)
	post.BeforeSave(second)
	assert.Equal(t, second, post.Date, "every save restamps the date")
}

func TestPostTagManagement(t *testing.T) {
	post := validPost()

	t.Run("add tag", func(t *testing.T) {
		post.AddTag(1)
		post.AddTag(2)
		post.AddTag(1)
		assert.Equal(t, []int{1, 2}, post.TagIDs)
		assert.True(t, post.HasTag(2))
	})

	t.Run("remove existing tag", func(t *testing.T) {
		assert.True(t, post.RemoveTag(1))
		assert.Equal(t, []int{2}, post.TagIDs)
	})

	t.Run("remove non-existent tag", func(t *testing.T) {
		assert.False(t, post.RemoveTag(999))
	})
}

func TestPostSetAuthor(t *testing.T) {
	post := validPost()

	post.SetAuthor(&Author{ID: 7})
	if assert.NotNil(t, post.AuthorID) {
		assert.Equal(t, 7, *post.AuthorID)
	}

	post.SetAuthor(nil)
	assert.Nil(t, post.AuthorID)
}

func TestPostURL(t *testing.T) {
	post := validPost()
	assert.Equal(t, "/posts/valid-title", post.URL())
}
