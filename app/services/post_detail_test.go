package services

import (
	"testing"

	"blog/app/models"
	"blog/app/repositories/mock"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detailFixture struct {
	posts    *mock.PostRepository
	authors  *mock.AuthorRepository
	tags     *mock.TagRepository
	comments *mock.CommentRepository
	service  *DetailService
}

func newDetailFixture() *detailFixture {
	f := &detailFixture{
		posts:    mock.NewPostRepository(),
		authors:  mock.NewAuthorRepository(),
		tags:     mock.NewTagRepository(),
		comments: mock.NewCommentRepository(),
	}
	f.service = NewDetailService(f.posts, f.authors, f.tags, f.comments)
	return f
}

func TestDetailShow(t *testing.T) {
	f := newDetailFixture()
	post := seedPost(t, f.posts, "hello-world")

	t.Run("fresh session", func(t *testing.T) {
		detail, err := f.service.Show("hello-world", nil)
		require.NoError(t, err)
		assert.Equal(t, post.ID, detail.Post.ID)
		assert.NotNil(t, detail.Comments)
		assert.Empty(t, detail.Comments)
		assert.Empty(t, detail.Tags)
		assert.Nil(t, detail.Author)
		assert.False(t, detail.SavedForLater)
		assert.Equal(t, &CommentForm{}, detail.CommentForm)
	})

	t.Run("saved for later", func(t *testing.T) {
		detail, err := f.service.Show("hello-world", SavedSet{99, post.ID})
		require.NoError(t, err)
		assert.True(t, detail.SavedForLater)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := f.service.Show("missing", nil)
		assert.True(t, errors.Is(err, ErrPostNotFound))
	})
}

func TestDetailRelations(t *testing.T) {
	f := newDetailFixture()
	author := &models.Author{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, f.authors.Create(author))
	web := &models.Tag{Caption: "web"}
	require.NoError(t, f.tags.Create(web))
	golang := &models.Tag{Caption: "go"}
	require.NoError(t, f.tags.Create(golang))

	post := &models.Post{Title: "T", Excerpt: "E", Slug: "tagged", Content: "long enough content"}
	post.SetAuthor(author)
	post.AddTag(golang.ID)
	post.AddTag(web.ID)
	require.NoError(t, f.posts.Create(post))

	detail, err := f.service.Show("tagged", nil)
	require.NoError(t, err)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "Ada Lovelace", detail.Author.FullName())

	captions := []string{}
	for _, tag := range detail.Tags {
		captions = append(captions, tag.Caption)
	}
	if diff := cmp.Diff([]string{"web", "go"}, captions); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	t.Run("deleted author is tolerated", func(t *testing.T) {
		require.NoError(t, f.authors.Delete(author.ID))
		detail, err := f.service.Show("tagged", nil)
		require.NoError(t, err)
		assert.Nil(t, detail.Author)
	})
}

func TestDetailSubmit(t *testing.T) {
	f := newDetailFixture()
	post := seedPost(t, f.posts, "hello-world")

	t.Run("valid submission redirects", func(t *testing.T) {
		form := &CommentForm{UserName: "Ann", UserEmail: "ann@x.com", CommentText: "Great post, thanks!"}
		outcome, err := f.service.Submit("hello-world", form, nil)
		require.NoError(t, err)
		assert.Equal(t, "/posts/hello-world", outcome.RedirectTo)
		assert.Nil(t, outcome.Detail)

		detail, err := f.service.Show("hello-world", nil)
		require.NoError(t, err)
		require.Len(t, detail.Comments, 1)
		want := &models.Comment{
			ID:          detail.Comments[0].ID,
			PostID:      post.ID,
			UserName:    "Ann",
			UserEmail:   "ann@x.com",
			CommentText: "Great post, thanks!",
			CreatedAt:   detail.Comments[0].CreatedAt,
		}
		if diff := cmp.Diff(want, detail.Comments[0]); diff != "" {
			t.Errorf("comment mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid submission re-renders with the bound form", func(t *testing.T) {
		before := f.comments.Count()
		form := &CommentForm{UserName: "Bob", UserEmail: "bad", CommentText: ""}
		outcome, err := f.service.Submit("hello-world", form, SavedSet{post.ID})
		require.NoError(t, err)
		assert.Empty(t, outcome.RedirectTo)
		require.NotNil(t, outcome.Detail)

		detail := outcome.Detail
		assert.Same(t, form, detail.CommentForm)
		assert.Equal(t, "Bob", detail.CommentForm.UserName)
		assert.Equal(t, "bad", detail.CommentForm.UserEmail)
		assert.Equal(t, "Enter a valid email address.", detail.CommentForm.Error("user_email"))
		assert.Equal(t, "This field is required.", detail.CommentForm.Error("comment_text"))
		assert.True(t, detail.SavedForLater)
		assert.Len(t, detail.Comments, before)
		assert.Equal(t, before, f.comments.Count())
	})

	t.Run("unknown slug", func(t *testing.T) {
		form := &CommentForm{UserName: "Ann", UserEmail: "ann@x.com", CommentText: "Hi"}
		_, err := f.service.Submit("missing", form, nil)
		assert.True(t, errors.Is(err, ErrPostNotFound))
	})
}
