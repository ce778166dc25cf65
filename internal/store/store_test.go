package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, k := range []string{"plan:u1:b", "plan:u1:a", "plan:u10:c", "session:u1:x"} {
		require.NoError(t, s.Set(ctx, k, []byte("{}")))
	}

	keys, err := s.ListKeys(ctx, Prefix("plan", "u1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"plan:u1:a", "plan:u1:b"}, keys)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, SetJSON(ctx, s, Key("rec", "1"), record{Name: "one", Count: 1}))
	require.NoError(t, SetJSON(ctx, s, Key("rec", "2"), record{Name: "two", Count: 2}))

	var got record
	require.NoError(t, GetJSON(ctx, s, "rec:1", &got))
	assert.Equal(t, record{Name: "one", Count: 1}, got)

	all, err := ListJSON[record](ctx, s, "rec:")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "two", all[1].Name)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `plan:u\*1:`, escapeGlob("plan:u*1:"))
	assert.Equal(t, "plan:u1:", escapeGlob("plan:u1:"))
}
