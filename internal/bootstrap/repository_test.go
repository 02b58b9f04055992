package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"docchat-client/internal/config"
	"docchat-client/internal/entity"
	"docchat-client/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateRepository(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     config.StateConfig
		wantErr bool
	}{
		{"Memory", config.StateConfig{Kind: "memory"}, false},
		{"File", config.StateConfig{Kind: "file", FilePath: filepath.Join(t.TempDir(), "state.json")}, false},
		{"Unknown", config.StateConfig{Kind: "sqlite"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, closeRepo, err := NewStateRepository(ctx, tt.cfg, logger.NewNopLogger())
			defer closeRepo()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			st := entity.PersistedState{CurrentSessionId: "s1"}
			require.NoError(t, repo.Save(ctx, st))
			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, "s1", loaded.CurrentSessionId)
		})
	}
}
