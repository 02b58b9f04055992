package memory

import (
	"context"
	"testing"

	"docchat-client/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRepositoryRoundTrip(t *testing.T) {
	repo := NewStateRepository()
	ctx := context.Background()

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "empty repository loads nothing")

	require.NoError(t, repo.Save(ctx, entity.PersistedState{
		Sessions:         []entity.ChatSession{{Id: "s1", Title: "First"}},
		CurrentSessionId: "s1",
	}))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.CurrentSessionId)
	assert.Len(t, got.Sessions, 1)
}
