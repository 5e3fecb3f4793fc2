package auth

import (
	"encoding/json"
	"time"

	"github.com/bailey339/websiteThatlegendjack/internal/common"
	"github.com/gofiber/fiber/v2"
)

// PendingAuthorization is an authorization attempt awaiting its callback.
type PendingAuthorization struct {
	State      string    `json:"state"`
	CreateTime time.Time `json:"createTime"`
}

// PendingStore keeps at most one pending authorization per session. Entries
// are keyed by an HMAC of the session id so the storage never holds usable
// session ids.
type PendingStore struct {
	storage fiber.Storage
	secret  string
}

func (s *PendingStore) key(sessionID string) string {
	return common.CalculateHash(s.secret, sessionID)
}

func (s *PendingStore) Get(sessionID string) (*PendingAuthorization, error) {
	blob, err := s.storage.Get(s.key(sessionID))
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		return nil, ErrPendingNotFound
	}
	var pending PendingAuthorization
	if err := json.Unmarshal(blob, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *PendingStore) Put(sessionID string, pending *PendingAuthorization, expireDuration time.Duration) error {
	blob, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return s.storage.Set(s.key(sessionID), blob, expireDuration)
}

func (s *PendingStore) Remove(sessionID string) error {
	return s.storage.Delete(s.key(sessionID))
}

// Take returns the session's pending authorization and removes it so a state
// value can be used at most once.
func (s *PendingStore) Take(sessionID string) (*PendingAuthorization, error) {
	pending, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.Remove(sessionID); err != nil {
		return nil, err
	}
	return pending, nil
}

func NewPendingStore(storage fiber.Storage, secret string) *PendingStore {
	return &PendingStore{
		storage: storage,
		secret:  secret,
	}
}
