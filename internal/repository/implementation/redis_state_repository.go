package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"docchat-client/internal/entity"
	"docchat-client/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type RedisStateRepositoryImpl struct {
	rdb *redis.Client
	key string
}

func NewRedisStateRepository(rdb *redis.Client, key string) contract.StateRepository {
	return &RedisStateRepositoryImpl{
		rdb: rdb,
		key: "docchat:state:" + key,
	}
}

func (r *RedisStateRepositoryImpl) Load(ctx context.Context) (*entity.PersistedState, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var st entity.PersistedState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}

func (r *RedisStateRepositoryImpl) Save(ctx context.Context, state entity.PersistedState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
