package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("connects", func(t *testing.T) {
		mini := miniredis.RunT(t)

		client, err := NewClient(context.Background(), mini.Addr())
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		got, err := mini.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("unreachable", func(t *testing.T) {
		mini := miniredis.RunT(t)
		addr := mini.Addr()
		mini.Close()

		client, err := NewClient(context.Background(), addr)
		assert.Nil(t, client)
		assert.Error(t, err)
	})
}
