package store

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	fredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Storage is the key-value backend shared by sessions, pending
// authorizations and the kv token store.
type Storage struct {
	fiber.Storage
	driver string
	rdb    redis.UniversalClient
}

func (s *Storage) Driver() string {
	return s.driver
}

// Durable reports whether values survive a process restart.
func (s *Storage) Durable() bool {
	return s.driver == DriverRedis
}

// Redis returns the underlying redis client, or nil for the memory driver.
func (s *Storage) Redis() redis.UniversalClient {
	return s.rdb
}

func NewMemoryStorage() *Storage {
	return &Storage{
		Storage: memory.New(memory.Config{GCInterval: 10 * time.Second}),
		driver:  DriverMemory,
	}
}

func NewRedisStorage(redisURL string) *Storage {
	storage := fredis.New(fredis.Config{URL: redisURL})
	return &Storage{
		Storage: storage,
		driver:  DriverRedis,
		rdb:     storage.Conn(),
	}
}

func NewStorage(driver string, redisURL string) (*Storage, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStorage(), nil
	case DriverRedis:
		return NewRedisStorage(redisURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}
