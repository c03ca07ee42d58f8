package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmatch/pawmatch/internal/facet"
)

func TestManagerIsolation(t *testing.T) {
	m := NewManager(nil, nil)

	a := m.Get("alice")
	b := m.Get("bob")
	a.MergeTurn("a dog in johor", facet.FacetSet{Animal: "dog", State: "johor"})

	assert.True(t, b.Facets.IsEmpty())
	assert.Same(t, a, m.Get("alice"))
}

func TestManagerReset(t *testing.T) {
	m := NewManager(nil, nil)

	s := m.Get("alice")
	s.MergeTurn("a dog", facet.FacetSet{Animal: "dog"})
	m.Reset("alice")

	assert.True(t, m.Get("alice").Facets.IsEmpty())
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	s := NewState("alice")
	s.MergeTurn("a female dog in johor", facet.FacetSet{
		Animal: "dog", Gender: "female", State: "johor",
	})
	s.MergeTurn("remove state", facet.FacetSet{})
	require.NoError(t, store.Save(s))

	loaded, err := store.Load("alice")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "dog", loaded.Facets.Animal)
	assert.Empty(t, loaded.Facets.State)
	assert.True(t, loaded.Blocked.Has(facet.KeyState))
	assert.Equal(t, 2, loaded.Turns)

	t.Run("unknown session loads as nil", func(t *testing.T) {
		missing, err := store.Load("nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("save overwrites", func(t *testing.T) {
		s.MergeTurn("a cat now", facet.FacetSet{Animal: "cat"})
		require.NoError(t, store.Save(s))

		again, err := store.Load("alice")
		require.NoError(t, err)
		assert.Equal(t, "cat", again.Facets.Animal)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, store.Delete("alice"))
		gone, err := store.Load("alice")
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestManagerWithStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	m := NewManager(store, nil)
	s := m.Get("carol")
	s.MergeTurn("a cat in penang", facet.FacetSet{Animal: "cat", State: "penang"})
	m.Put(s)
	require.NoError(t, m.Close())

	// A fresh manager over the same file sees the persisted session.
	store2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	m2 := NewManager(store2, nil)
	defer m2.Close()

	restored := m2.Get("carol")
	assert.Equal(t, "cat", restored.Facets.Animal)
	assert.Equal(t, "penang", restored.Facets.State)
}
