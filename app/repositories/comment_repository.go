package repositories

import (
	"sort"

	"blog/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db  *badger.DB
	ids *sequences
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db, ids: newSequences(db)}
}

// Create creates a new comment on an existing post
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return invalid(err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, postKey(comment.PostID))
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrNotFound, "post %d", comment.PostID)
		}

		id, err := r.ids.next(CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		// Save comment with post ID in key for efficient listing
		return setEntity(txn, commentKey(comment.PostID, comment.ID), comment)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id int) (*models.Comment, error) {
	var comment *models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := findCommentKey(txn, id)
		if err != nil {
			return err
		}
		comment = &models.Comment{}
		return getEntity(txn, key, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost retrieves all comments for a post, newest first
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, commentPrefix(postID), func(_, val []byte) error {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return err
			}
			comments = append(comments, &comment)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID > comments[j].ID
	})
	return comments, nil
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := findCommentKey(txn, id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// findCommentKey locates a comment's key. Comment keys are grouped by post,
// so a lookup by comment ID alone walks the keys only.
func findCommentKey(txn *badger.Txn, id int) ([]byte, error) {
	keys, err := scanKeys(txn, []byte(CommentKeyPrefix))
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		commentID, err := trailingID(key)
		if err != nil {
			return nil, err
		}
		if commentID == id {
			return key, nil
		}
	}
	return nil, ErrNotFound
}
