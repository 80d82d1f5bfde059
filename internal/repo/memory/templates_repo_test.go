package memory

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/worklog/internal/domain/template"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesListNewestFirstAndScoped(t *testing.T) {
	ctx := context.Background()
	r := NewTemplatesRepo()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, name := range []string{"PUSH", "PULL", "LEGS"} {
		_, err := r.Create(ctx, "alice", template.CreateRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := r.Create(ctx, "bob", template.CreateRequest{Name: "BOB"})
	require.NoError(t, err)

	list, err := r.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"LEGS", "PULL", "PUSH"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestTemplatesSameTimestampUsesInsertOrder(t *testing.T) {
	ctx := context.Background()
	r := NewTemplatesRepo()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	_, err := r.Create(ctx, "alice", template.CreateRequest{Name: "FIRST"})
	require.NoError(t, err)
	_, err = r.Create(ctx, "alice", template.CreateRequest{Name: "SECOND"})
	require.NoError(t, err)

	list, err := r.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "SECOND", list[0].Name)
}

func TestTemplatesOwnershipAndLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewTemplatesRepo()

	tpl, err := r.Create(ctx, "alice", template.CreateRequest{
		Name:      "UPPER",
		Exercises: []string{"Bench", "Row"},
	})
	require.NoError(t, err)

	_, err = r.GetByID(ctx, "bob", tpl.ID)
	assert.ErrorIs(t, err, template.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "bob", tpl.ID), template.ErrNotFound)

	newName := "UPPER A"
	updated, err := r.Update(ctx, "alice", tpl.ID, template.UpdateRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "UPPER A", updated.Name)
	assert.Equal(t, tpl.Exercises, updated.Exercises)

	_, err = r.Update(ctx, "bob", tpl.ID, template.UpdateRequest{Name: &newName})
	assert.ErrorIs(t, err, template.ErrNotFound)

	require.NoError(t, r.Delete(ctx, "alice", tpl.ID))
	assert.ErrorIs(t, r.Delete(ctx, "alice", tpl.ID), template.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "alice", uuid.NewString()), template.ErrNotFound)
}
