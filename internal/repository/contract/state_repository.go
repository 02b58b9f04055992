package contract

import (
	"context"

	"docchat-client/internal/entity"
)

// StateRepository keeps the long-lived part of the client state across
// restarts. Load returns nil, nil when nothing was saved yet.
type StateRepository interface {
	Load(ctx context.Context) (*entity.PersistedState, error)
	Save(ctx context.Context, state entity.PersistedState) error
}
