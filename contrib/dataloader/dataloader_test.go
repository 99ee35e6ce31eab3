package dataloader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/eagerload"
)

type testUser struct {
	ID   int
	Name string
}

type testPost struct {
	ID       int
	AuthorID int
}

func userKey(u *testUser) int { return u.ID }

// ===== OrderByKeys Tests =====

func TestOrderByKeys(t *testing.T) {
	t.Parallel()

	t.Run("reorders to key order", func(t *testing.T) {
		t.Parallel()
		users := []*testUser{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
		result, errs := OrderByKeys([]int{1, 2, 3}, users, userKey)

		require.Len(t, result, 3)
		assert.Equal(t, "a", result[0].Name)
		assert.Equal(t, "b", result[1].Name)
		assert.Equal(t, "c", result[2].Name)
		for _, err := range errs {
			assert.NoError(t, err)
		}
	})

	t.Run("missing keys get ErrNotFound", func(t *testing.T) {
		t.Parallel()
		users := []*testUser{{ID: 1, Name: "a"}}
		result, errs := OrderByKeys([]int{1, 99}, users, userKey)

		require.Len(t, result, 2)
		require.Len(t, errs, 2)
		assert.NoError(t, errs[0])
		assert.ErrorIs(t, errs[1], ErrNotFound)
		assert.Nil(t, result[1])
	})

	t.Run("empty keys", func(t *testing.T) {
		t.Parallel()
		result, errs := OrderByKeys(nil, []*testUser{{ID: 1}}, userKey)
		assert.Empty(t, result)
		assert.Empty(t, errs)
	})
}

// ===== GroupByKey Tests =====

func TestGroupByKey(t *testing.T) {
	t.Parallel()

	posts := []*testPost{
		{ID: 1, AuthorID: 10},
		{ID: 2, AuthorID: 20},
		{ID: 3, AuthorID: 10},
	}
	groups := GroupByKey(posts, func(p *testPost) int { return p.AuthorID })

	require.Len(t, groups, 2)
	require.Len(t, groups[10], 2)
	assert.Equal(t, 1, groups[10][0].ID)
	assert.Equal(t, 3, groups[10][1].ID)
	require.Len(t, groups[20], 1)
}

func TestOrderGroupsByKeys(t *testing.T) {
	t.Parallel()

	groups := map[int][]*testPost{
		10: {{ID: 1, AuthorID: 10}},
		20: {{ID: 2, AuthorID: 20}},
	}
	ordered := OrderGroupsByKeys([]int{20, 30, 10}, groups)

	require.Len(t, ordered, 3)
	assert.Equal(t, 2, ordered[0][0].ID)
	assert.Nil(t, ordered[1])
	assert.Equal(t, 1, ordered[2][0].ID)
}

// ===== Batch Function Adapters =====

func TestFromBatchFunc(t *testing.T) {
	t.Parallel()

	t.Run("not found entries become absences", func(t *testing.T) {
		t.Parallel()
		fn := BatchFunc[int, *testUser](func(_ context.Context, keys []int) ([]*testUser, []error) {
			return []*testUser{{ID: 1}, nil, {ID: 3}},
				[]error{nil, ErrNotFound, nil}
		})

		rows, err := FromBatchFunc(fn).Load(context.Background(), []int{1, 2, 3})

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].ID)
		assert.Equal(t, 3, rows[1].ID)
	})

	t.Run("per-key error fails the load", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("row corrupt")
		fn := BatchFunc[int, *testUser](func(_ context.Context, keys []int) ([]*testUser, []error) {
			return []*testUser{{ID: 1}, nil}, []error{nil, boom}
		})

		_, err := FromBatchFunc(fn).Load(context.Background(), []int{1, 2})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("whole batch error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("backend down")
		fn := BatchFunc[int, *testUser](func(_ context.Context, _ []int) ([]*testUser, []error) {
			return nil, []error{boom}
		})

		_, err := FromBatchFunc(fn).Load(context.Background(), []int{1, 2})
		assert.ErrorIs(t, err, boom)
	})
}

func TestToBatchFunc(t *testing.T) {
	t.Parallel()

	t.Run("orders and reports missing keys", func(t *testing.T) {
		t.Parallel()
		loader := eagerload.LoaderFunc[int, *testUser](func(_ context.Context, keys []int) ([]*testUser, error) {
			return []*testUser{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}, nil
		})

		values, errs := ToBatchFunc(loader, userKey)(context.Background(), []int{1, 2, 3})

		require.Len(t, values, 3)
		assert.Equal(t, "a", values[0].Name)
		assert.Equal(t, "b", values[1].Name)
		assert.ErrorIs(t, errs[2], ErrNotFound)
	})

	t.Run("loader failure fails the batch", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("query failed")
		loader := eagerload.LoaderFunc[int, *testUser](func(_ context.Context, _ []int) ([]*testUser, error) {
			return nil, boom
		})

		values, errs := ToBatchFunc(loader, userKey)(context.Background(), []int{1})

		assert.Nil(t, values)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], boom)
	})
}

// ===== Context Loaders =====

func TestWithLoaders(t *testing.T) {
	t.Parallel()

	type bundle struct {
		Users eagerload.Loader[int, *testUser]
	}

	loader := eagerload.LoaderFunc[int, *testUser](func(_ context.Context, _ []int) ([]*testUser, error) {
		return nil, nil
	})
	ctx := WithLoaders(context.Background(), &bundle{Users: loader})

	got := For[*bundle](ctx)
	require.NotNil(t, got)
	assert.NotNil(t, got.Users)

	assert.Nil(t, For[*bundle](context.Background()))
}
