package tokens

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bailey339/websiteThatlegendjack/model"
	"github.com/gofiber/fiber/v2"
)

const tokenKey = "spotify:token"

// KVStore keeps the token as one JSON value in a fiber.Storage. It is durable
// only when the storage is.
type KVStore struct {
	storage fiber.Storage
}

func (s *KVStore) Load(ctx context.Context) (*model.Token, error) {
	blob, err := s.storage.Get(tokenKey)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		return nil, ErrTokenNotFound
	}
	var token model.Token
	if err := json.Unmarshal(blob, &token); err != nil {
		return nil, fmt.Errorf("corrupted token record: %w", err)
	}
	return &token, nil
}

func (s *KVStore) Save(ctx context.Context, token *model.Token) error {
	blob, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return s.storage.Set(tokenKey, blob, 0)
}

func (s *KVStore) Clear(ctx context.Context) error {
	return s.storage.Delete(tokenKey)
}

func NewKVStore(storage fiber.Storage) *KVStore {
	return &KVStore{storage: storage}
}
