package routes

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"blog/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIPostRoutes(t *testing.T) {
	app := setupTestApp(t)
	client := app.newClient(t)

	author := &models.Author{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, app.repo.Authors.Create(author))
	tag := &models.Tag{Caption: "go"}
	require.NoError(t, app.repo.Tags.Create(tag))

	app.repo.Posts.SetClock(func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) })
	post := &models.Post{Title: "Hello World", Excerpt: "Hi", Slug: "hello-world", Content: "Long enough content"}
	post.SetAuthor(author)
	post.AddTag(tag.ID)
	require.NoError(t, app.repo.Posts.Create(post))
	seedPost(t, app.repo, "older", "Older", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	t.Run("GET /api/posts", func(t *testing.T) {
		resp, body := app.get(t, client, "/api/posts")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var payload struct {
			Posts []models.Post `json:"posts"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		require.Len(t, payload.Posts, 2)
		assert.Equal(t, "hello-world", payload.Posts[0].Slug)
		assert.Equal(t, "older", payload.Posts[1].Slug)
	})

	t.Run("GET /api/posts/{slug}", func(t *testing.T) {
		resp, _ := app.postForm(t, client, "/posts/hello-world", url.Values{
			"user_name":    {"Ann"},
			"user_email":   {"ann@x.com"},
			"comment_text": {"Great post, thanks!"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		resp, _ = app.postForm(t, client, "/read-later", url.Values{"post_id": {strconv.Itoa(post.ID)}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		resp, body := app.get(t, client, "/api/posts/hello-world")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var detail struct {
			Post          models.Post      `json:"post"`
			Author        *models.Author   `json:"author"`
			Tags          []models.Tag     `json:"tags"`
			Comments      []models.Comment `json:"comments"`
			SavedForLater bool             `json:"saved_for_later"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &detail))
		assert.Equal(t, "Hello World", detail.Post.Title)
		require.NotNil(t, detail.Author)
		assert.Equal(t, "Ada", detail.Author.FirstName)
		require.Len(t, detail.Tags, 1)
		assert.Equal(t, "go", detail.Tags[0].Caption)
		require.Len(t, detail.Comments, 1)
		assert.Equal(t, "Great post, thanks!", detail.Comments[0].CommentText)
		assert.True(t, detail.SavedForLater)
	})

	t.Run("GET /api/posts/{slug} not found", func(t *testing.T) {
		resp, body := app.get(t, client, "/api/posts/missing")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Post not found"}`, body)
	})

	t.Run("GET /api/authors/{id}/posts", func(t *testing.T) {
		resp, body := app.get(t, client, "/api/authors/"+strconv.Itoa(author.ID)+"/posts")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload struct {
			Author models.Author `json:"author"`
			Posts  []models.Post `json:"posts"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		assert.Equal(t, "Lovelace", payload.Author.LastName)
		require.Len(t, payload.Posts, 1)
		assert.Equal(t, "hello-world", payload.Posts[0].Slug)

		resp, _ = app.get(t, client, "/api/authors/999/posts")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("GET /api/tags/{id}/posts", func(t *testing.T) {
		resp, body := app.get(t, client, "/api/tags/"+strconv.Itoa(tag.ID)+"/posts")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload struct {
			Tag   models.Tag    `json:"tag"`
			Posts []models.Post `json:"posts"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		assert.Equal(t, "go", payload.Tag.Caption)
		assert.Len(t, payload.Posts, 1)

		resp, _ = app.get(t, client, "/api/tags/999/posts")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
