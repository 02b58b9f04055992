package mapper

import (
	"testing"
	"time"

	"docchat-client/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMapperRoundTrip(t *testing.T) {
	m := NewStateMapper()
	saved := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := entity.PersistedState{
		Sessions: []entity.ChatSession{{
			Id:                "s1",
			Title:             "Attention paper",
			AttachedDocuments: []entity.DocumentBrief{{Id: "d1", OriginalFilename: "paper1.pdf"}},
		}},
		CurrentSessionId: "s1",
		Documents:        []entity.Document{{Id: "d1", OriginalFilename: "paper1.pdf"}},
		SavedAt:          saved,
	}

	cs, err := m.ClientStateToModel("laptop", st)
	require.NoError(t, err)
	assert.Equal(t, "laptop", cs.Key)
	assert.Equal(t, "s1", cs.CurrentSessionId)
	assert.True(t, cs.SavedAt.Equal(saved))

	back, err := m.ClientStateToEntity(cs)
	require.NoError(t, err)
	assert.Equal(t, "s1", back.CurrentSessionId)
	require.Len(t, back.Sessions, 1)
	assert.True(t, back.Sessions[0].HasDocument("d1"))

	nilState, err := m.ClientStateToEntity(nil)
	assert.NoError(t, err)
	assert.Nil(t, nilState)
}
