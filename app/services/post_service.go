package services

import (
	"blog/app/models"
	"blog/app/repositories"

	"github.com/pkg/errors"
)

// StartingPageSize is the number of posts shown on the starting page.
const StartingPageSize = 3

// PostService handles business logic for blog posts
type PostService struct {
	postRepo   repositories.PostRepository
	authorRepo repositories.AuthorRepository
	tagRepo    repositories.TagRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, authorRepo repositories.AuthorRepository, tagRepo repositories.TagRepository) *PostService {
	return &PostService{
		postRepo:   postRepo,
		authorRepo: authorRepo,
		tagRepo:    tagRepo,
	}
}

// Latest returns the n most recently saved posts
func (s *PostService) Latest(n int) ([]*models.Post, error) {
	if n < 1 {
		n = StartingPageSize
	}
	posts, err := s.postRepo.List(n)
	if err != nil {
		return nil, errors.Wrap(err, "list latest posts")
	}
	return posts, nil
}

// All returns every post, most recently saved first
func (s *PostService) All() ([]*models.Post, error) {
	posts, err := s.postRepo.List(0)
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	return posts, nil
}

// ByAuthor lists an author's posts
func (s *PostService) ByAuthor(authorID int) (*models.Author, []*models.Post, error) {
	author, err := s.authorRepo.GetByID(authorID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "author %d", authorID)
	}
	posts, err := s.postRepo.ListByAuthor(authorID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "list posts of author %d", authorID)
	}
	return author, posts, nil
}

// ByTag lists the posts carrying a tag
func (s *PostService) ByTag(tagID int) (*models.Tag, []*models.Post, error) {
	tag, err := s.tagRepo.GetByID(tagID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "tag %d", tagID)
	}
	posts, err := s.postRepo.ListByTag(tagID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "list posts tagged %d", tagID)
	}
	return tag, posts, nil
}

// CreatePost creates a new blog post
func (s *PostService) CreatePost(post *models.Post) error {
	if err := s.postRepo.Create(post); err != nil {
		return errors.Wrapf(err, "create post %q", post.Slug)
	}
	return nil
}

// CreateAuthor creates a new author
func (s *PostService) CreateAuthor(author *models.Author) error {
	if err := s.authorRepo.Create(author); err != nil {
		return errors.Wrapf(err, "create author %q", author.Email)
	}
	return nil
}

// CreateTag creates a new tag
func (s *PostService) CreateTag(tag *models.Tag) error {
	if err := s.tagRepo.Create(tag); err != nil {
		return errors.Wrapf(err, "create tag %q", tag.Caption)
	}
	return nil
}
