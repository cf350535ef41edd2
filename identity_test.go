package idcache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/idcache"
)

func TestNewObject(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 1000; i++ {
		o, err := idcache.NewObject()
		require.NoError(t, err)
		assert.Len(t, o.Identity(), 36)
		assert.False(t, seen[o.Identity()])

		seen[o.Identity()] = true
	}
}

func TestObject_Equal(t *testing.T) {
	a := idcache.MustNewObject()
	b := idcache.MustNewObject()

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(idcache.Object{ID: a.ID}))

	// Objects are compared by identity.
	s := idcache.NewStore[idcache.Object]()
	s.AddOrUpdate(a)
	s.AddOrUpdate(idcache.Object{ID: a.ID})
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Contains(a))
	assert.False(t, s.Contains(b))
}
