package mapper

import (
	"encoding/json"

	"docchat-client/internal/entity"
	"docchat-client/internal/model"

	"gorm.io/datatypes"
)

type StateMapper struct{}

func NewStateMapper() *StateMapper {
	return &StateMapper{}
}

func (m *StateMapper) ClientStateToModel(key string, st entity.PersistedState) (*model.ClientState, error) {
	payload, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	return &model.ClientState{
		Key:              key,
		Payload:          datatypes.JSON(payload),
		CurrentSessionId: st.CurrentSessionId,
		SavedAt:          st.SavedAt,
	}, nil
}

func (m *StateMapper) ClientStateToEntity(cs *model.ClientState) (*entity.PersistedState, error) {
	if cs == nil {
		return nil, nil
	}
	var st entity.PersistedState
	if err := json.Unmarshal(cs.Payload, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
