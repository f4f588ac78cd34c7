package repositories

import "blog/app/models"

// AuthorRepository defines the interface for author data access
type AuthorRepository interface {
	Create(author *models.Author) error
	GetByID(id int) (*models.Author, error)
	List() ([]*models.Author, error)
	Update(author *models.Author) error
	Delete(id int) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	Create(tag *models.Tag) error
	GetByID(id int) (*models.Tag, error)
	ListByIDs(ids []int) ([]*models.Tag, error)
	List() ([]*models.Tag, error)
	Update(tag *models.Tag) error
	Delete(id int) error
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	List(limit int) ([]*models.Post, error)
	ListByIDs(ids []int) ([]*models.Post, error)
	ListByAuthor(authorID int) ([]*models.Post, error)
	ListByTag(tagID int) ([]*models.Post, error)
	Update(post *models.Post) error
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	Delete(id int) error
}
