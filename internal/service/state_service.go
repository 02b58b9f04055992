package service

import (
	"docchat-client/internal/dto"
	"docchat-client/internal/mapper"
	"docchat-client/internal/state"
)

// IStateService renders the whole snapshot for the local API and the
// websocket push.
type IStateService interface {
	View() dto.StateView
}

type stateService struct {
	store  *state.Store
	mapper *mapper.ViewMapper
}

func NewStateService(store *state.Store) IStateService {
	return &stateService{
		store:  store,
		mapper: mapper.NewViewMapper(),
	}
}

func (ss *stateService) View() dto.StateView {
	return ss.mapper.SnapshotToView(ss.store.Snapshot())
}
