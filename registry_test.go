package eagerload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/eagerload"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	posts := userPostsEdge(postsByAuthor())
	profile := userProfileEdge(profilesByID())
	accountEdge := userAccountEdge(&countingLoader[int, *account]{fn: func([]int) ([]*account, error) {
		return nil, nil
	}})

	t.Run("register and lookup", func(t *testing.T) {
		t.Parallel()
		reg := eagerload.NewRegistry()
		require.NoError(t, reg.Register("User", posts))
		require.NoError(t, reg.Register("User", profile))

		e, ok := reg.Lookup("User", "posts")
		require.True(t, ok)
		assert.Equal(t, "posts", e.Name())
		assert.Equal(t, eagerload.KindHasMany, e.Kind())
		assert.False(t, e.KeyOnParent())

		_, ok = reg.Lookup("User", "missing")
		assert.False(t, ok)
		_, ok = reg.Lookup("Post", "posts")
		assert.False(t, ok)
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		t.Parallel()
		reg := eagerload.NewRegistry()
		require.NoError(t, reg.Register("User", posts))
		err := reg.Register("User", posts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"posts"`)

		assert.Panics(t, func() { reg.MustRegister("User", posts) })
	})

	t.Run("edges are sorted by name", func(t *testing.T) {
		t.Parallel()
		reg := eagerload.NewRegistry()
		reg.MustRegister("User", profile)
		reg.MustRegister("User", posts)
		reg.MustRegister("User", accountEdge)
		reg.MustRegister("Post", postCommentsEdge(commentsFor()))

		edges := reg.Edges("User")
		require.Len(t, edges, 3)
		assert.Equal(t, "account", edges[0].Name())
		assert.Equal(t, "posts", edges[1].Name())
		assert.Equal(t, "profile", edges[2].Name())

		assert.Empty(t, reg.Edges("Comment"))
	})

	t.Run("typed lookup", func(t *testing.T) {
		t.Parallel()
		reg := eagerload.NewRegistry()
		reg.MustRegister("User", posts)

		got, err := eagerload.EdgeAs[*eagerload.ManyEdge[*user, *post, int]](reg, "User", "posts")
		require.NoError(t, err)
		assert.Same(t, posts, got)

		_, err = eagerload.EdgeAs[*eagerload.OneEdge[*user, *account, int]](reg, "User", "posts")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has_many")

		_, err = eagerload.EdgeAs[*eagerload.ManyEdge[*user, *post, int]](reg, "User", "missing")
		require.Error(t, err)
	})
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "has_one", eagerload.KindHasOne.String())
	assert.Equal(t, "optional_one", eagerload.KindOptionalOne.String())
	assert.Equal(t, "has_many", eagerload.KindHasMany.String())
	assert.Equal(t, "unknown", eagerload.Kind(9).String())
}
