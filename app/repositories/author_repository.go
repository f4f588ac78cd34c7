package repositories

import (
	"sort"

	"blog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerAuthorRepository implements AuthorRepository using BadgerDB
type BadgerAuthorRepository struct {
	db  *badger.DB
	ids *sequences
}

// NewBadgerAuthorRepository creates a new BadgerAuthorRepository
func NewBadgerAuthorRepository(db *badger.DB) *BadgerAuthorRepository {
	return &BadgerAuthorRepository{db: db, ids: newSequences(db)}
}

// Create creates a new author
func (r *BadgerAuthorRepository) Create(author *models.Author) error {
	if err := author.Validate(); err != nil {
		return invalid(err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := r.ids.next(AuthorSeqKey)
		if err != nil {
			return err
		}
		author.ID = id
		return setEntity(txn, authorKey(author.ID), author)
	})
}

// GetByID retrieves an author by ID
func (r *BadgerAuthorRepository) GetByID(id int) (*models.Author, error) {
	var author models.Author
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, authorKey(id), &author)
	})
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// List retrieves all authors ordered by ID
func (r *BadgerAuthorRepository) List() ([]*models.Author, error) {
	authors := []*models.Author{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(AuthorKeyPrefix), func(_, val []byte) error {
			var author models.Author
			if err := unmarshalEntity(val, &author); err != nil {
				return err
			}
			authors = append(authors, &author)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].ID < authors[j].ID })
	return authors, nil
}

// Update updates an existing author
func (r *BadgerAuthorRepository) Update(author *models.Author) error {
	if err := author.Validate(); err != nil {
		return invalid(err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, authorKey(author.ID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return setEntity(txn, authorKey(author.ID), author)
	})
}

// Delete deletes an author. The author's posts are kept with their author cleared.
func (r *BadgerAuthorRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, authorKey(id))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		keys, err := scanKeys(txn, authorPostPrefix(id))
		if err != nil {
			return err
		}
		for _, key := range keys {
			postID, err := trailingID(key)
			if err != nil {
				return err
			}
			var post models.Post
			if err := getEntity(txn, postKey(postID), &post); err != nil {
				return err
			}
			post.AuthorID = nil
			if err := setEntity(txn, postKey(postID), &post); err != nil {
				return err
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		return txn.Delete(authorKey(id))
	})
}
