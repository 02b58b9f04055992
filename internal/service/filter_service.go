package service

import (
	"docchat-client/internal/dto"
	"docchat-client/internal/mapper"
	"docchat-client/internal/state"
	"docchat-client/pkg/docfilter"
)

// IFilterService drives the @document picker held in the state snapshot.
type IFilterService interface {
	Input(text string) dto.FilterView
	Down() dto.FilterView
	Up() dto.FilterView
	Confirm() dto.FilterView
	Cancel() dto.FilterView
	ClearLock() dto.FilterView
	View() dto.FilterView
}

type filterService struct {
	store  *state.Store
	mapper *mapper.ViewMapper
}

func NewFilterService(store *state.Store) IFilterService {
	return &filterService{
		store:  store,
		mapper: mapper.NewViewMapper(),
	}
}

func (fs *filterService) apply(action string, fn func(f docfilter.State, s *state.Snapshot) docfilter.State) dto.FilterView {
	snap, _ := fs.store.Apply(action, func(s *state.Snapshot) error {
		s.Filter = fn(s.Filter, s)
		return nil
	})
	return fs.mapper.FilterToView(snap.Filter, snap.Documents)
}

func (fs *filterService) Input(text string) dto.FilterView {
	return fs.apply("filter.input", func(f docfilter.State, s *state.Snapshot) docfilter.State {
		return f.Input(text, s.Documents)
	})
}

func (fs *filterService) Down() dto.FilterView {
	return fs.apply("filter.down", func(f docfilter.State, s *state.Snapshot) docfilter.State {
		return f.MoveDown(s.Documents)
	})
}

func (fs *filterService) Up() dto.FilterView {
	return fs.apply("filter.up", func(f docfilter.State, s *state.Snapshot) docfilter.State {
		return f.MoveUp()
	})
}

func (fs *filterService) Confirm() dto.FilterView {
	return fs.apply("filter.confirm", func(f docfilter.State, s *state.Snapshot) docfilter.State {
		return f.Confirm(s.Documents)
	})
}

func (fs *filterService) Cancel() dto.FilterView {
	return fs.apply("filter.cancel", func(f docfilter.State, s *state.Snapshot) docfilter.State {
		return f.Cancel()
	})
}

func (fs *filterService) ClearLock() dto.FilterView {
	return fs.apply("filter.clear", func(f docfilter.State, s *state.Snapshot) docfilter.State {
		return f.ClearLock()
	})
}

func (fs *filterService) View() dto.FilterView {
	snap := fs.store.Snapshot()
	return fs.mapper.FilterToView(snap.Filter, snap.Documents)
}
