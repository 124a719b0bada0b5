package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreKeepsCopies(t *testing.T) {
	t.Parallel()

	store := New()
	payload := []byte(`{"id": 603}`)
	require.NoError(t, store.Put(context.Background(), "tmdb_details/2026-09-01/1/603.json", payload))

	payload[0] = 'x'
	stored, ok := store.Get("tmdb_details/2026-09-01/1/603.json")
	require.True(t, ok)
	require.Equal(t, []byte(`{"id": 603}`), stored)
	require.Equal(t, 1, store.Len())
}
