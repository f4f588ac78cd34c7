package repositories

import (
	"io"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Repository bundles the entity repositories over one Badger database.
type Repository struct {
	db       *badger.DB
	ids      *sequences
	mutex    sync.Mutex
	dbPath   string
	isTestDB bool

	Authors  *BadgerAuthorRepository
	Tags     *BadgerTagRepository
	Posts    *BadgerPostRepository
	Comments *BadgerCommentRepository
}

// NewRepository opens the database at path. An empty path or "test_db"
// opens a throwaway database in a fresh temp directory.
func NewRepository(path string) (*Repository, error) {
	isTest := false
	if path == "" || path == "test_db" {
		tempPath, err := os.MkdirTemp("", "blog_test_db_")
		if err != nil {
			return nil, errors.Wrap(err, "create temp dir")
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if isTest {
		opts = opts.WithSyncWrites(false)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger at %s", path)
	}
	repo := NewRepositoryWithDB(db)
	repo.dbPath = path
	repo.isTestDB = isTest
	return repo, nil
}

// NewRepositoryWithDB wraps an already opened database.
// The entity repositories share one set of ID sequences.
func NewRepositoryWithDB(db *badger.DB) *Repository {
	repo := &Repository{
		db:       db,
		ids:      newSequences(db),
		Authors:  NewBadgerAuthorRepository(db),
		Tags:     NewBadgerTagRepository(db),
		Posts:    NewBadgerPostRepository(db),
		Comments: NewBadgerCommentRepository(db),
	}
	repo.Authors.ids = repo.ids
	repo.Tags.ids = repo.ids
	repo.Posts.ids = repo.ids
	repo.Comments.ids = repo.ids
	return repo
}

// DB exposes the underlying database for collaborators sharing it.
func (r *Repository) DB() *badger.DB {
	return r.db
}

// Close releases the ID leases and closes the database.
func (r *Repository) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	releaseErr := r.ids.release()
	if err := r.db.Close(); err != nil {
		return err
	}

	// Clean up test database
	if r.isTestDB {
		if err := os.RemoveAll(r.dbPath); err != nil {
			return errors.Wrap(err, "cleanup test database")
		}
	}
	return releaseErr
}

// Backup writes a full backup of the database to w.
func (r *Repository) Backup(w io.Writer) error {
	_, err := r.db.Backup(w, 0)
	return err
}

// Load restores a backup produced by Backup. Leased IDs are released first
// so the restored sequence values are the ones later inserts continue from.
func (r *Repository) Load(rd io.Reader) (err error) {
	if err := r.ids.release(); err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic occurred during restore: %v", rec)
		}
	}()
	return r.db.Load(rd, 4)
}
