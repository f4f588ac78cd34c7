package repositories

import (
	"sort"
	"strconv"
	"time"

	"blog/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db  *badger.DB
	ids *sequences
	now func() time.Time
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db, ids: newSequences(db), now: time.Now}
}

// SetClock replaces the clock used to stamp post dates
func (r *BadgerPostRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	post.BeforeSave(r.now())
	if err := post.Validate(); err != nil {
		return invalid(err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		taken, err := exists(txn, slugKey(post.Slug))
		if err != nil {
			return err
		}
		if taken {
			return errors.Wrapf(ErrDuplicateSlug, "slug %q", post.Slug)
		}
		if err := checkPostRefs(txn, post); err != nil {
			return err
		}

		id, err := r.ids.next(PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		if err := setEntity(txn, postKey(post.ID), post); err != nil {
			return err
		}
		if err := txn.Set(slugKey(post.Slug), []byte(strconv.Itoa(post.ID))); err != nil {
			return err
		}
		return setPostIndexes(txn, post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post through the slug index
func (r *BadgerPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := postIDForSlug(txn, slug)
		if err != nil {
			return err
		}
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves posts newest first. A limit <= 0 returns every post.
func (r *BadgerPostRepository) List(limit int) ([]*models.Post, error) {
	posts, err := r.scan(func(*models.Post) bool { return true })
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// ListByIDs retrieves the posts whose IDs are in ids, newest first.
// IDs with no matching post are skipped.
func (r *BadgerPostRepository) ListByIDs(ids []int) ([]*models.Post, error) {
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}
	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return r.scan(func(p *models.Post) bool {
		_, ok := wanted[p.ID]
		return ok
	})
}

// ListByAuthor retrieves the posts written by an author
func (r *BadgerPostRepository) ListByAuthor(authorID int) ([]*models.Post, error) {
	return r.listByIndex(authorPostPrefix(authorID))
}

// ListByTag retrieves the posts carrying a tag
func (r *BadgerPostRepository) ListByTag(tagID int) ([]*models.Post, error) {
	return r.listByIndex(tagPostPrefix(tagID))
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	post.BeforeSave(r.now())
	if err := post.Validate(); err != nil {
		return invalid(err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Post
		if err := getEntity(txn, postKey(post.ID), &existing); err != nil {
			return err
		}

		if existing.Slug != post.Slug {
			taken, err := exists(txn, slugKey(post.Slug))
			if err != nil {
				return err
			}
			if taken {
				return errors.Wrapf(ErrDuplicateSlug, "slug %q", post.Slug)
			}
			if err := txn.Delete(slugKey(existing.Slug)); err != nil {
				return err
			}
			if err := txn.Set(slugKey(post.Slug), []byte(strconv.Itoa(post.ID))); err != nil {
				return err
			}
		}
		if err := checkPostRefs(txn, post); err != nil {
			return err
		}

		if err := deletePostIndexes(txn, &existing); err != nil {
			return err
		}
		if err := setPostIndexes(txn, post); err != nil {
			return err
		}
		return setEntity(txn, postKey(post.ID), post)
	})
}

// Delete deletes a post by ID together with its comments
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Post
		if err := getEntity(txn, postKey(id), &existing); err != nil {
			return err
		}

		commentKeys, err := scanKeys(txn, commentPrefix(id))
		if err != nil {
			return err
		}
		for _, key := range commentKeys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		if err := deletePostIndexes(txn, &existing); err != nil {
			return err
		}
		if err := txn.Delete(slugKey(existing.Slug)); err != nil {
			return err
		}
		return txn.Delete(postKey(id))
	})
}

func (r *BadgerPostRepository) scan(keep func(*models.Post) bool) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(PostKeyPrefix), func(_, val []byte) error {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return err
			}
			if keep(&post) {
				posts = append(posts, &post)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (r *BadgerPostRepository) listByIndex(prefix []byte) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		keys, err := scanKeys(txn, prefix)
		if err != nil {
			return err
		}
		for _, key := range keys {
			id, err := trailingID(key)
			if err != nil {
				return err
			}
			var post models.Post
			if err := getEntity(txn, postKey(id), &post); err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(posts)
	return posts, nil
}

func postIDForSlug(txn *badger.Txn, slug string) (int, error) {
	item, err := txn.Get(slugKey(slug))
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		id, err = strconv.Atoi(string(val))
		return err
	})
	return id, err
}

// checkPostRefs verifies the author and tags a post points at exist
func checkPostRefs(txn *badger.Txn, post *models.Post) error {
	if post.AuthorID != nil {
		ok, err := exists(txn, authorKey(*post.AuthorID))
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrNotFound, "author %d", *post.AuthorID)
		}
	}
	for _, tagID := range post.TagIDs {
		ok, err := exists(txn, tagKey(tagID))
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrNotFound, "tag %d", tagID)
		}
	}
	return nil
}

func setPostIndexes(txn *badger.Txn, post *models.Post) error {
	if post.AuthorID != nil {
		if err := txn.Set(authorPostKey(*post.AuthorID, post.ID), nil); err != nil {
			return err
		}
	}
	for _, tagID := range post.TagIDs {
		if err := txn.Set(tagPostKey(tagID, post.ID), nil); err != nil {
			return err
		}
	}
	return nil
}

func deletePostIndexes(txn *badger.Txn, post *models.Post) error {
	if post.AuthorID != nil {
		if err := txn.Delete(authorPostKey(*post.AuthorID, post.ID)); err != nil {
			return err
		}
	}
	for _, tagID := range post.TagIDs {
		if err := txn.Delete(tagPostKey(tagID, post.ID)); err != nil {
			return err
		}
	}
	return nil
}

// sortNewestFirst orders posts by date descending, breaking ties by ID descending
func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].ID > posts[j].ID
	})
}
