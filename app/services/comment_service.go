package services

import (
	"blog/app/models"
	"blog/app/repositories"

	"github.com/pkg/errors"
)

// ErrPostNotFound is returned when no post matches the requested slug.
var ErrPostNotFound = errors.New("post not found")

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// Submit resolves the post for slug and stores the comment described by form.
// The post always comes from the slug. When the form is invalid nothing is
// stored, stored is false and form.Errors holds the field messages.
func (s *CommentService) Submit(slug string, form *CommentForm) (post *models.Post, stored bool, err error) {
	post, err = findPost(s.postRepo, slug)
	if err != nil {
		return nil, false, err
	}

	if !form.Validate() {
		return post, false, nil
	}

	comment := form.Comment(post)
	if err := s.commentRepo.Create(comment); err != nil {
		return post, false, errors.Wrapf(err, "create comment on %q", slug)
	}
	return post, true, nil
}

// ListPostComments retrieves all comments for a post, newest first
func (s *CommentService) ListPostComments(postID int) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(postID)
	if err != nil {
		return nil, errors.Wrapf(err, "list comments for post %d", postID)
	}
	return comments, nil
}

// findPost looks a post up by slug and maps a miss to ErrPostNotFound.
func findPost(repo repositories.PostRepository, slug string) (*models.Post, error) {
	post, err := repo.GetBySlug(slug)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errors.Wrapf(ErrPostNotFound, "slug %q", slug)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load post %q", slug)
	}
	return post, nil
}
