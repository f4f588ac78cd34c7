package repositories

import (
	"sort"

	"blog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerTagRepository implements TagRepository using BadgerDB
type BadgerTagRepository struct {
	db  *badger.DB
	ids *sequences
}

// NewBadgerTagRepository creates a new BadgerTagRepository
func NewBadgerTagRepository(db *badger.DB) *BadgerTagRepository {
	return &BadgerTagRepository{db: db, ids: newSequences(db)}
}

// Create creates a new tag
func (r *BadgerTagRepository) Create(tag *models.Tag) error {
	if err := tag.Validate(); err != nil {
		return invalid(err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := r.ids.next(TagSeqKey)
		if err != nil {
			return err
		}
		tag.ID = id
		return setEntity(txn, tagKey(tag.ID), tag)
	})
}

// GetByID retrieves a tag by ID
func (r *BadgerTagRepository) GetByID(id int) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, tagKey(id), &tag)
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListByIDs retrieves the given tags ordered by ID, skipping unknown IDs
func (r *BadgerTagRepository) ListByIDs(ids []int) ([]*models.Tag, error) {
	tags := []*models.Tag{}
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var tag models.Tag
			err := getEntity(txn, tagKey(id), &tag)
			if err == ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			tags = append(tags, &tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

// List retrieves all tags ordered by ID
func (r *BadgerTagRepository) List() ([]*models.Tag, error) {
	tags := []*models.Tag{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(TagKeyPrefix), func(_, val []byte) error {
			var tag models.Tag
			if err := unmarshalEntity(val, &tag); err != nil {
				return err
			}
			tags = append(tags, &tag)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

// Update updates an existing tag
func (r *BadgerTagRepository) Update(tag *models.Tag) error {
	if err := tag.Validate(); err != nil {
		return invalid(err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, tagKey(tag.ID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return setEntity(txn, tagKey(tag.ID), tag)
	})
}

// Delete deletes a tag and detaches it from every post that carried it
func (r *BadgerTagRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, tagKey(id))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		keys, err := scanKeys(txn, tagPostPrefix(id))
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
			post.RemoveTag(id)
			if err := setEntity(txn, postKey(postID), &post); err != nil {
				return err
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		return txn.Delete(tagKey(id))
	})
}
