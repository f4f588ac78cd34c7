package services

import (
	"blog/app/models"
	"blog/app/repositories"

	"github.com/pkg/errors"
)

// StoredPostsKey is the session value holding the saved-for-later post IDs.
const StoredPostsKey = "stored_posts"

// SavedSet is the ordered set of post IDs a visitor saved for later.
// A nil set is empty.
type SavedSet []int

// IsSaved reports whether postID is in the set
func (s SavedSet) IsSaved(postID int) bool {
	for _, id := range s {
		if id == postID {
			return true
		}
	}
	return false
}

// Toggle adds postID when absent and removes it when present. It returns
// the new set and whether the ID was added; s itself is left unchanged.
func (s SavedSet) Toggle(postID int) (SavedSet, bool) {
	next := make(SavedSet, 0, len(s)+1)
	removed := false
	for _, id := range s {
		if id == postID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if removed {
		return next, false
	}
	return append(next, postID), true
}

// ReadLaterService resolves saved sets to posts
type ReadLaterService struct {
	postRepo repositories.PostRepository
}

// NewReadLaterService creates a new ReadLaterService
func NewReadLaterService(postRepo repositories.PostRepository) *ReadLaterService {
	return &ReadLaterService{postRepo: postRepo}
}

// ListSaved returns the saved posts that still exist, newest first.
func (s *ReadLaterService) ListSaved(set SavedSet) ([]*models.Post, error) {
	if len(set) == 0 {
		return []*models.Post{}, nil
	}
	posts, err := s.postRepo.ListByIDs(set)
	if err != nil {
		return nil, errors.Wrap(err, "list saved posts")
	}
	return posts, nil
}
