package hostfuncs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedBuffer_Write(t *testing.T) {
	t.Run("writes within limit", func(t *testing.T) {
		buf := NewBoundedBuffer(100)
		n, err := buf.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "hello", buf.String())
		assert.False(t, buf.Truncated())
	})

	t.Run("truncates at limit", func(t *testing.T) {
		buf := NewBoundedBuffer(10)
		n, err := buf.Write([]byte("hello world"))
		require.NoError(t, err)
		assert.Equal(t, 11, n)
		assert.Equal(t, "hello worl", buf.String())
		assert.True(t, buf.Truncated())
	})

	t.Run("writes after the limit are dropped", func(t *testing.T) {
		buf := NewBoundedBuffer(10)
		_, _ = buf.Write([]byte("12345"))
		_, _ = buf.Write([]byte("67890"))
		assert.False(t, buf.Truncated())

		n, err := buf.Write([]byte("XXXXX"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "1234567890", buf.String())
		assert.True(t, buf.Truncated())
	})

	t.Run("empty write at limit is not truncation", func(t *testing.T) {
		buf := NewBoundedBuffer(1)
		_, _ = buf.Write([]byte("a"))
		_, _ = buf.Write(nil)
		assert.False(t, buf.Truncated())
	})
}

func TestBoundedBuffer_Reset(t *testing.T) {
	buf := NewBoundedBuffer(3)
	_, _ = buf.Write([]byte("abcdef"))
	require.True(t, buf.Truncated())

	buf.Reset()
	assert.Equal(t, 0, buf.Len())
	assert.False(t, buf.Truncated())
}
