package memory

import (
	"context"

	"docchat-client/internal/entity"
	"docchat-client/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

const stateKey = "state"

// StateRepository keeps the persisted state in process memory only. It is the
// default for tests and for STATE_STORE=memory.
type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() contract.StateRepository {
	return &StateRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *StateRepository) Load(ctx context.Context) (*entity.PersistedState, error) {
	if x, found := r.cache.Get(stateKey); found {
		st := x.(entity.PersistedState)
		return &st, nil
	}
	return nil, nil
}

func (r *StateRepository) Save(ctx context.Context, state entity.PersistedState) error {
	r.cache.Set(stateKey, state, cache.NoExpiration)
	return nil
}
