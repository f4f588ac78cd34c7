package services

import (
	"blog/app/models"
	"blog/app/repositories"

	"github.com/pkg/errors"
)

// PostDetail is everything the post detail page shows.
type PostDetail struct {
	Post          *models.Post      `json:"post"`
	Author        *models.Author    `json:"author,omitempty"`
	Tags          []*models.Tag     `json:"tags"`
	Comments      []*models.Comment `json:"comments"`
	CommentForm   *CommentForm      `json:"-"`
	SavedForLater bool              `json:"saved_for_later"`
}

// Outcome is the result of a comment submission: either a redirect target
// or a detail page to render again with the rejected form.
type Outcome struct {
	RedirectTo string
	Detail     *PostDetail
}

// DetailService assembles post detail pages and handles comment submission.
type DetailService struct {
	postRepo   repositories.PostRepository
	authorRepo repositories.AuthorRepository
	tagRepo    repositories.TagRepository
	comments   *CommentService
}

// NewDetailService creates a new DetailService
func NewDetailService(postRepo repositories.PostRepository, authorRepo repositories.AuthorRepository,
	tagRepo repositories.TagRepository, commentRepo repositories.CommentRepository) *DetailService {
	return &DetailService{
		postRepo:   postRepo,
		authorRepo: authorRepo,
		tagRepo:    tagRepo,
		comments:   NewCommentService(commentRepo, postRepo),
	}
}

// Show builds the detail page for slug with a fresh comment form.
func (s *DetailService) Show(slug string, saved SavedSet) (*PostDetail, error) {
	post, err := findPost(s.postRepo, slug)
	if err != nil {
		return nil, err
	}
	return s.assemble(post, &CommentForm{}, saved)
}

// Submit stores the comment when form is valid and asks for a redirect to
// the post. An invalid form yields the detail page with the form's errors.
func (s *DetailService) Submit(slug string, form *CommentForm, saved SavedSet) (*Outcome, error) {
	post, stored, err := s.comments.Submit(slug, form)
	if err != nil {
		return nil, err
	}
	if stored {
		return &Outcome{RedirectTo: post.URL()}, nil
	}

	detail, err := s.assemble(post, form, saved)
	if err != nil {
		return nil, err
	}
	return &Outcome{Detail: detail}, nil
}

func (s *DetailService) assemble(post *models.Post, form *CommentForm, saved SavedSet) (*PostDetail, error) {
	detail := &PostDetail{
		Post:          post,
		CommentForm:   form,
		SavedForLater: saved.IsSaved(post.ID),
	}

	if post.AuthorID != nil {
		author, err := s.authorRepo.GetByID(*post.AuthorID)
		switch {
		case err == nil:
			detail.Author = author
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, errors.Wrapf(err, "load author of %q", post.Slug)
		}
	}

	tags, err := s.tagRepo.ListByIDs(post.TagIDs)
	if err != nil {
		return nil, errors.Wrapf(err, "load tags of %q", post.Slug)
	}
	detail.Tags = tags

	comments, err := s.comments.ListPostComments(post.ID)
	if err != nil {
		return nil, err
	}
	detail.Comments = comments
	return detail, nil
}
