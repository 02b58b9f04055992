package implementation

import (
	"context"
	"errors"
	"fmt"

	"docchat-client/internal/entity"
	"docchat-client/internal/mapper"
	"docchat-client/internal/model"
	"docchat-client/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresStateRepositoryImpl struct {
	db     *gorm.DB
	key    string
	mapper *mapper.StateMapper
}

func NewPostgresStateRepository(db *gorm.DB, key string) contract.StateRepository {
	return &PostgresStateRepositoryImpl{
		db:     db,
		key:    key,
		mapper: mapper.NewStateMapper(),
	}
}

func (r *PostgresStateRepositoryImpl) Load(ctx context.Context) (*entity.PersistedState, error) {
	var m model.ClientState
	if err := r.db.WithContext(ctx).Where("key = ?", r.key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ClientStateToEntity(&m)
}

func (r *PostgresStateRepositoryImpl) Save(ctx context.Context, state entity.PersistedState) error {
	m, err := r.mapper.ClientStateToModel(r.key, state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "current_session_id", "saved_at", "updated_at"}),
	}).Create(m).Error
}
