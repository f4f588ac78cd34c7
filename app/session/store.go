package session

import (
	"context"
	"encoding/json"
	"time"
)

// KeyPrefix namespaces session records in the backing store.
const KeyPrefix = "session:"

// Values holds a session's named values, each JSON encoded.
type Values map[string]json.RawMessage

// Store persists session values by session ID.
// Load returns an empty Values, not an error, for unknown or expired IDs.
// Touch extends a stored session's expiry and ignores unknown IDs.
type Store interface {
	Load(ctx context.Context, id string) (Values, error)
	Save(ctx context.Context, id string, values Values, ttl time.Duration) error
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

func decodeValues(data []byte) (Values, error) {
	values := Values{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
