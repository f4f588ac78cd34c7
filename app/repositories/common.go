package repositories

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

const (
	// Key prefixes for different entity types
	AuthorKeyPrefix  = "author:"
	TagKeyPrefix     = "tag:"
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"

	// Secondary indexes
	SlugKeyPrefix       = "slug:"
	AuthorPostKeyPrefix = "authorpost:"
	TagPostKeyPrefix    = "tagpost:"

	// Sequence keys for auto-incrementing IDs
	AuthorSeqKey  = "seq:author"
	TagSeqKey     = "seq:tag"
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateSlug = errors.New("slug already exists")
	ErrInvalid       = errors.New("invalid record")
)

// sequenceBandwidth is how many IDs each badger sequence lease reserves
const sequenceBandwidth = 100

// sequences hands out entity IDs from badger sequence leases. Inserts never
// read or write a shared counter key inside their own transaction, so
// concurrent inserts do not conflict.
type sequences struct {
	db   *badger.DB
	mu   sync.Mutex
	seqs map[string]*badger.Sequence
}

func newSequences(db *badger.DB) *sequences {
	return &sequences{db: db, seqs: make(map[string]*badger.Sequence)}
}

// next returns the next ID for seqKey. IDs start at 1; the stored value is
// the highest ID handed out once the lease is released.
func (s *sequences) next(seqKey string) (int, error) {
	s.mu.Lock()
	seq, ok := s.seqs[seqKey]
	if !ok {
		var err error
		seq, err = s.db.GetSequence([]byte(seqKey), sequenceBandwidth)
		if err != nil {
			s.mu.Unlock()
			return 0, errors.Wrapf(err, "lease sequence %s", seqKey)
		}
		s.seqs[seqKey] = seq
	}
	s.mu.Unlock()

	n, err := seq.Next()
	if err != nil {
		return 0, errors.Wrapf(err, "next id from %s", seqKey)
	}
	return int(n) + 1, nil
}

// release hands unused IDs back to the database and forgets every lease.
// It must run before the database closes or its keys are replaced.
func (s *sequences) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for key, seq := range s.seqs {
		if err := seq.Release(); err != nil && first == nil {
			first = errors.Wrapf(err, "release sequence %s", key)
		}
		delete(s.seqs, key)
	}
	return first
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal entity")
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return errors.Wrap(err, "failed to unmarshal entity")
	}
	return nil
}

// getEntity loads the JSON value at key into entity, mapping a missing key to ErrNotFound
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity marshals entity and stores it at key
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// exists reports whether key is present
func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// scanPrefix calls fn with the key and value of every item under prefix
func scanPrefix(txn *badger.Txn, prefix []byte, fn func(key, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		err := item.Value(func(val []byte) error {
			return fn(key, val)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// scanKeys returns the keys under prefix without reading values
func scanKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

// trailingID parses the id after the last ':' of an index key
func trailingID(key []byte) (int, error) {
	s := string(key)
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return 0, fmt.Errorf("malformed key %q", s)
	}
	return strconv.Atoi(s[i+1:])
}

func authorKey(id int) []byte { return []byte(fmt.Sprintf("%s%d", AuthorKeyPrefix, id)) }
func tagKey(id int) []byte    { return []byte(fmt.Sprintf("%s%d", TagKeyPrefix, id)) }
func postKey(id int) []byte   { return []byte(fmt.Sprintf("%s%d", PostKeyPrefix, id)) }
func slugKey(slug string) []byte {
	return []byte(SlugKeyPrefix + slug)
}
func commentKey(postID, id int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", CommentKeyPrefix, postID, id))
}
func commentPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", CommentKeyPrefix, postID))
}
func authorPostKey(authorID, postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", AuthorPostKeyPrefix, authorID, postID))
}
func authorPostPrefix(authorID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", AuthorPostKeyPrefix, authorID))
}
func tagPostKey(tagID, postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", TagPostKeyPrefix, tagID, postID))
}
func tagPostPrefix(tagID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", TagPostKeyPrefix, tagID))
}

// invalid wraps a validation failure so callers can match ErrInvalid
func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}
