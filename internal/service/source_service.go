package service

import (
	"context"
	"fmt"
	"time"

	"docchat-client/internal/dto"
	"docchat-client/internal/entity"
	"docchat-client/internal/mapper"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/state"
	"docchat-client/pkg/backend"

	"github.com/patrickmn/go-cache"
)

const chunkCacheTTL = 10 * time.Minute

type ISourceService interface {
	// Sources lists the evidence of the latest answer with display numbers.
	Sources() []dto.SourceView
	// SetActive selects a chunk of the current evidence set. A chunk that
	// is not part of it is ignored and false is returned.
	SetActive(chunk entity.SourceChunk, highlightedText string) bool
	SetActiveById(chunkId, highlightedText string) bool
	Clear()
	Active() *entity.ActiveSource
	// ChunkDetail fetches a chunk from the backend. It is the fallback for
	// citations in older messages that no longer resolve locally.
	ChunkDetail(ctx context.Context, chunkId string) (*entity.ChunkDetail, error)
}

type sourceService struct {
	api    backend.API
	store  *state.Store
	mapper *mapper.BackendMapper
	views  *mapper.ViewMapper
	cache  *cache.Cache
	logger logger.ILogger
}

func NewSourceService(api backend.API, store *state.Store, log logger.ILogger) ISourceService {
	return &sourceService{
		api:    api,
		store:  store,
		mapper: mapper.NewBackendMapper(),
		views:  mapper.NewViewMapper(),
		cache:  cache.New(chunkCacheTTL, 2*chunkCacheTTL),
		logger: log,
	}
}

func (ss *sourceService) Sources() []dto.SourceView {
	return ss.views.SourcesToView(ss.store.Snapshot())
}

func (ss *sourceService) SetActive(chunk entity.SourceChunk, highlightedText string) bool {
	return ss.SetActiveById(chunk.ChunkId, highlightedText)
}

func (ss *sourceService) SetActiveById(chunkId, highlightedText string) bool {
	found := false
	_, _ = ss.store.Apply("sources.set_active", func(s *state.Snapshot) error {
		chunk, ok := s.Sources.Lookup(chunkId)
		if !ok {
			return errMiss
		}
		found = true
		s.Active = &entity.ActiveSource{Chunk: chunk, HighlightedText: highlightedText}
		return nil
	})
	if !found {
		ss.logger.Debug("SourceService", "Chunk not in current evidence", map[string]interface{}{"chunk_id": chunkId})
	}
	return found
}

func (ss *sourceService) Clear() {
	_, _ = ss.store.Apply("sources.clear_active", func(s *state.Snapshot) error {
		if s.Active == nil {
			return errMiss
		}
		s.Active = nil
		return nil
	})
}

func (ss *sourceService) Active() *entity.ActiveSource {
	return ss.store.Snapshot().Active
}

func (ss *sourceService) ChunkDetail(ctx context.Context, chunkId string) (*entity.ChunkDetail, error) {
	if x, found := ss.cache.Get(chunkId); found {
		detail := x.(entity.ChunkDetail)
		return &detail, nil
	}

	resp, err := ss.api.GetChunk(ctx, chunkId)
	if err != nil {
		return nil, fmt.Errorf("get chunk %s: %w", chunkId, err)
	}
	detail := ss.mapper.ChunkDetailToEntity(resp)
	ss.cache.Set(chunkId, *detail, cache.DefaultExpiration)
	return detail, nil
}
