package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/govflow/service/dao"
)

type record struct {
	ID    string
	Items []string
}

func cloneRecord(r *record) *record {
	ret := *r
	ret.Items = append([]string(nil), r.Items...)
	return &ret
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewCloningMemoryStore[string, record](func(r *record) string { return r.ID }, cloneRecord)

	assert.ErrorIs(t, s.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, s.Save(ctx, &record{}), dao.ErrInvalidID)

	r := &record{ID: "r1", Items: []string{"a"}}
	require.NoError(t, s.Save(ctx, r))
	r.Items[0] = "mutated"

	loaded, err := s.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, loaded.Items)
	loaded.Items[0] = "mutated"

	again, _ := s.Load(ctx, "r1")
	assert.Equal(t, []string{"a"}, again.Items)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "r1"))
	assert.ErrorIs(t, s.Delete(ctx, "r1"), dao.ErrNotFound)
	_, err = s.Load(ctx, "r1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}
