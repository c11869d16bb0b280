package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryServiceSetGet(t *testing.T) {
	m := NewMemoryService()

	require.NoError(t, m.Set("key", []byte("value"), 0))

	got, err := m.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestMemoryServiceMiss(t *testing.T) {
	m := NewMemoryService()

	_, err := m.Get("absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryServiceExpiry(t *testing.T) {
	m := NewMemoryService()

	require.NoError(t, m.Set("key", []byte("value"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := m.Get("key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryServiceDelete(t *testing.T) {
	m := NewMemoryService()

	require.NoError(t, m.Set("key", []byte("value"), 0))
	require.NoError(t, m.Delete("key"))

	_, err := m.Get("key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
