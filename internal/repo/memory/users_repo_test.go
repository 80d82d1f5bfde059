package memory

import (
	"context"
	"testing"

	"github.com/geocoder89/worklog/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	r := NewUsersRepo()

	u, err := r.Create(ctx, "alice@x.com", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	got, err := r.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = r.Create(ctx, "alice@x.com", "other")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUsersEmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	r := NewUsersRepo()

	_, err := r.Create(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	_, err = r.GetByEmail(ctx, "Alice@x.com")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = r.Create(ctx, "Alice@x.com", "hash")
	assert.NoError(t, err)
}
