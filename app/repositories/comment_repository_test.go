package repositories

import (
	"fmt"
	"sync"
	"testing"

	"blog/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository(t *testing.T) {
	db := setupTestDB(t)
	posts := NewBadgerPostRepository(db)
	repo := NewBadgerCommentRepository(db)

	post := newPost("commented")
	require.NoError(t, posts.Create(post))

	t.Run("create and get comment", func(t *testing.T) {
		comment := &models.Comment{
			PostID:      post.ID,
			UserName:    "Ann",
			UserEmail:   "ann@x.com",
			CommentText: "Great post, thanks!",
		}
		require.NoError(t, repo.Create(comment))
		assert.Greater(t, comment.ID, 0)
		assert.False(t, comment.CreatedAt.IsZero())

		got, err := repo.GetByID(comment.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.UserName)
		assert.Equal(t, "ann@x.com", got.UserEmail)
		assert.Equal(t, "Great post, thanks!", got.CommentText)
		assert.Equal(t, post.ID, got.PostID)
	})

	t.Run("list newest first", func(t *testing.T) {
		for _, text := range []string{"second", "third"} {
			require.NoError(t, repo.Create(&models.Comment{
				PostID:      post.ID,
				UserName:    "Ann",
				UserEmail:   "ann@x.com",
				CommentText: text,
			}))
		}

		comments, err := repo.ListByPost(post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "third", comments[0].CommentText)
		assert.Equal(t, "second", comments[1].CommentText)
		assert.Greater(t, comments[0].ID, comments[1].ID)
		assert.Greater(t, comments[1].ID, comments[2].ID)
	})

	t.Run("comment on missing post", func(t *testing.T) {
		err := repo.Create(&models.Comment{
			PostID:      999,
			UserName:    "Ann",
			UserEmail:   "ann@x.com",
			CommentText: "Hello?",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid comment", func(t *testing.T) {
		err := repo.Create(&models.Comment{
			PostID:      post.ID,
			UserName:    "Ann",
			UserEmail:   "not-an-email",
			CommentText: "Hello",
		})
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("delete comment", func(t *testing.T) {
		comments, err := repo.ListByPost(post.ID)
		require.NoError(t, err)
		target := comments[0].ID

		require.NoError(t, repo.Delete(target))
		_, err = repo.GetByID(target)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(target), ErrNotFound)
	})

	t.Run("empty list for post without comments", func(t *testing.T) {
		other := newPost("quiet")
		require.NoError(t, posts.Create(other))
		comments, err := repo.ListByPost(other.ID)
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})
}

func TestCommentRepositoryConcurrentCreate(t *testing.T) {
	repo, err := NewRepository("test_db")
	require.NoError(t, err)
	defer repo.Close()

	post := newPost("busy")
	require.NoError(t, repo.Posts.Create(post))

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Comments.Create(&models.Comment{
				PostID:      post.ID,
				UserName:    fmt.Sprintf("user%d", i),
				UserEmail:   fmt.Sprintf("user%d@x.com", i),
				CommentText: "Concurrent comment",
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	comments, err := repo.Comments.ListByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, writers)

	seen := make(map[int]bool, writers)
	for _, c := range comments {
		assert.False(t, seen[c.ID], "duplicate comment ID %d", c.ID)
		seen[c.ID] = true
	}
}
