package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerStore keeps sessions in the application's Badger database.
// Expiry is delegated to Badger entry TTLs.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a new BadgerStore
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) Load(_ context.Context, id string) (Values, error) {
	var values Values
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(KeyPrefix + id))
		if err == badger.ErrKeyNotFound {
			values = Values{}
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			values, err = decodeValues(val)
			return err
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load session %s", id)
	}
	return values, nil
}

func (s *BadgerStore) Save(_ context.Context, id string, values Values, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(KeyPrefix+id), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	return errors.Wrapf(err, "save session %s", id)
}

// Touch rewrites the session entry with a fresh TTL.
func (s *BadgerStore) Touch(_ context.Context, id string, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(KeyPrefix + id)
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		entry := badger.NewEntry(key, data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	return errors.Wrapf(err, "touch session %s", id)
}

func (s *BadgerStore) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(KeyPrefix + id))
	})
	return errors.Wrapf(err, "delete session %s", id)
}
