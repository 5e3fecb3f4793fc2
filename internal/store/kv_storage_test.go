package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStoragePrefix(t *testing.T) {
	base := NewMemoryStorage()
	pending := NewKVStorage(base, "pending:")
	tokens := NewKVStorage(base, "token:")

	require.NoError(t, pending.Set("abc", []byte("state"), time.Minute))
	require.NoError(t, tokens.Set("abc", []byte("record"), 0))

	val, err := base.Get("pending:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), val)

	val, err = tokens.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("record"), val)

	require.NoError(t, pending.Delete("abc"))
	val, err = pending.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, pending.Reset())
	val, err = tokens.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("record"), val)
}

func TestNewStorage(t *testing.T) {
	storage, err := NewStorage(DriverMemory, "")
	require.NoError(t, err)
	assert.False(t, storage.Durable())
	assert.Nil(t, storage.Redis())

	_, err = NewStorage("etcd", "")
	assert.Error(t, err)
}
