// Package sourceindex holds the evidence chunks returned for the latest turn.
package sourceindex

import "docchat-client/internal/entity"

// Index maps chunk ids to chunks and remembers the order in which the
// backend returned them. An Index is never mutated after New; replacing the
// evidence set means building a new Index.
type Index struct {
	order []string
	byId  map[string]entity.SourceChunk
	pos   map[string]int
}

func Empty() *Index {
	return &Index{byId: map[string]entity.SourceChunk{}, pos: map[string]int{}}
}

// New builds an index from a response's source list. When the same chunk id
// appears more than once the first occurrence wins.
func New(chunks []entity.SourceChunk) *Index {
	idx := &Index{
		order: make([]string, 0, len(chunks)),
		byId:  make(map[string]entity.SourceChunk, len(chunks)),
		pos:   make(map[string]int, len(chunks)),
	}
	for _, c := range chunks {
		if _, dup := idx.byId[c.ChunkId]; dup {
			continue
		}
		idx.order = append(idx.order, c.ChunkId)
		idx.byId[c.ChunkId] = c
		idx.pos[c.ChunkId] = len(idx.order)
	}
	return idx
}

// Lookup returns the chunk for id, or false when the id is not part of the
// current turn.
func (i *Index) Lookup(id string) (entity.SourceChunk, bool) {
	if i == nil {
		return entity.SourceChunk{}, false
	}
	c, ok := i.byId[id]
	return c, ok
}

// PositionOf returns the 1-based rank of id in the response order, or 0.
func (i *Index) PositionOf(id string) int {
	if i == nil {
		return 0
	}
	return i.pos[id]
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.order)
}

func (i *Index) Keys() []string {
	if i == nil {
		return []string{}
	}
	return append([]string(nil), i.order...)
}

// Chunks returns the evidence list in response order.
func (i *Index) Chunks() []entity.SourceChunk {
	if i == nil {
		return []entity.SourceChunk{}
	}
	out := make([]entity.SourceChunk, 0, len(i.order))
	for _, k := range i.order {
		out = append(out, i.byId[k])
	}
	return out
}
