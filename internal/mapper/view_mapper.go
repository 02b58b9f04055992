package mapper

import (
	"docchat-client/internal/dto"
	"docchat-client/internal/entity"
	"docchat-client/internal/state"
	"docchat-client/pkg/docfilter"
)

type ViewMapper struct{}

func NewViewMapper() *ViewMapper {
	return &ViewMapper{}
}

func (m *ViewMapper) SnapshotToView(snap state.Snapshot) dto.StateView {
	return dto.StateView{
		Version:          snap.Version,
		CurrentSessionId: snap.CurrentSessionId,
		Sessions:         nonNilSessions(snap.Sessions),
		Documents:        nonNilDocuments(snap.Documents),
		Timeline:         nonNilMessages(snap.Timeline),
		Sources:          m.SourcesToView(snap),
		Active:           snap.Active,
		Filter:           m.FilterToView(snap.Filter, snap.Documents),
		Pending:          snap.IsPending(),
		Error:            snap.Error,
	}
}

func (m *ViewMapper) SourcesToView(snap state.Snapshot) []dto.SourceView {
	chunks := snap.Sources.Chunks()
	out := make([]dto.SourceView, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, dto.SourceView{
			Number: snap.Sources.PositionOf(c.ChunkId),
			Chunk:  c,
			Active: snap.Active != nil && snap.Active.Chunk.ChunkId == c.ChunkId,
		})
	}
	return out
}

func (m *ViewMapper) FilterToView(f docfilter.State, docs []entity.Document) dto.FilterView {
	return dto.FilterView{
		Buffer:     f.Buffer,
		Open:       f.Open,
		Query:      f.Query,
		Selected:   f.Selected,
		Candidates: f.Candidates(docs),
		Empty:      f.Empty(docs),
		Locked:     f.Locked,
	}
}

func nonNilSessions(in []entity.ChatSession) []entity.ChatSession {
	if in == nil {
		return []entity.ChatSession{}
	}
	return in
}

func nonNilDocuments(in []entity.Document) []entity.Document {
	if in == nil {
		return []entity.Document{}
	}
	return in
}

func nonNilMessages(in []entity.ChatMessage) []entity.ChatMessage {
	if in == nil {
		return []entity.ChatMessage{}
	}
	return in
}
