package state

import (
	"docchat-client/internal/entity"
	"docchat-client/pkg/docfilter"
	"docchat-client/pkg/sourceindex"
)

// PendingTurn is the in-flight send. At most one exists at a time.
type PendingTurn struct {
	ProvisionalId string
	// Epoch is the conversation epoch captured at Pending entry. A response
	// that arrives under a different epoch is stale.
	Epoch       uint64
	DocumentIds []string
	NewSession  bool
}

// Snapshot is one immutable view of the whole client state. Mutation only
// happens on a private clone inside Store.Apply.
type Snapshot struct {
	Version uint64
	Epoch   uint64
	// Selection is bumped when a session switch starts. Only the switch
	// holding the latest value may apply its history.
	Selection uint64

	Documents        []entity.Document
	Sessions         []entity.ChatSession
	CurrentSessionId string

	Timeline []entity.ChatMessage
	Sources  *sourceindex.Index
	Active   *entity.ActiveSource
	Filter   docfilter.State

	Pending *PendingTurn
	Error   *entity.ErrorState
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Sources: sourceindex.Empty(),
		Filter:  docfilter.New(),
	}
}

func (s *Snapshot) clone() *Snapshot {
	c := *s

	if s.Documents != nil {
		c.Documents = append(make([]entity.Document, 0, len(s.Documents)), s.Documents...)
	}
	if s.Sessions != nil {
		c.Sessions = make([]entity.ChatSession, len(s.Sessions))
		for i, sess := range s.Sessions {
			c.Sessions[i] = sess.Clone()
		}
	}
	if s.Timeline != nil {
		c.Timeline = make([]entity.ChatMessage, len(s.Timeline))
		for i, m := range s.Timeline {
			m.Citations = append([]string(nil), m.Citations...)
			c.Timeline[i] = m
		}
	}
	if s.Active != nil {
		a := *s.Active
		c.Active = &a
	}
	if s.Pending != nil {
		p := *s.Pending
		p.DocumentIds = append([]string(nil), s.Pending.DocumentIds...)
		c.Pending = &p
	}
	if s.Error != nil {
		e := *s.Error
		c.Error = &e
	}
	return &c
}

func (s Snapshot) IsPending() bool {
	return s.Pending != nil
}

// SessionIndex returns the registry position of id, or -1.
func (s Snapshot) SessionIndex(id string) int {
	for i, sess := range s.Sessions {
		if sess.Id == id {
			return i
		}
	}
	return -1
}

// CurrentSession returns the current session, if any.
func (s Snapshot) CurrentSession() (entity.ChatSession, bool) {
	if i := s.SessionIndex(s.CurrentSessionId); i >= 0 && s.CurrentSessionId != "" {
		return s.Sessions[i], true
	}
	return entity.ChatSession{}, false
}

// PutSession replaces an existing entry in place, or inserts it first.
func (s *Snapshot) PutSession(sess entity.ChatSession) {
	if i := s.SessionIndex(sess.Id); i >= 0 {
		s.Sessions[i] = sess
		return
	}
	s.Sessions = append([]entity.ChatSession{sess}, s.Sessions...)
}

func (s *Snapshot) RemoveSession(id string) bool {
	i := s.SessionIndex(id)
	if i < 0 {
		return false
	}
	s.Sessions = append(s.Sessions[:i], s.Sessions[i+1:]...)
	return true
}

func (s Snapshot) Document(id string) (entity.Document, bool) {
	for _, d := range s.Documents {
		if d.Id == id {
			return d, true
		}
	}
	return entity.Document{}, false
}

// PutDocument replaces an existing document in place, or appends it.
func (s *Snapshot) PutDocument(doc entity.Document) {
	for i, d := range s.Documents {
		if d.Id == doc.Id {
			s.Documents[i] = doc
			return
		}
	}
	s.Documents = append(s.Documents, doc)
}

// RemoveDocument drops a document together with every reference to it:
// session attachments and a locked filter.
func (s *Snapshot) RemoveDocument(id string) bool {
	found := false
	docs := s.Documents[:0]
	for _, d := range s.Documents {
		if d.Id == id {
			found = true
			continue
		}
		docs = append(docs, d)
	}
	s.Documents = docs

	for i := range s.Sessions {
		attached := s.Sessions[i].AttachedDocuments[:0]
		for _, b := range s.Sessions[i].AttachedDocuments {
			if b.Id != id {
				attached = append(attached, b)
			}
		}
		s.Sessions[i].AttachedDocuments = attached
	}

	if s.Filter.Locked != nil && s.Filter.Locked.Id == id {
		s.Filter = s.Filter.ClearLock()
	}
	return found
}

// ResetConversation clears the conversation view and starts a new epoch.
// Documents, sessions and the filter are kept.
func (s *Snapshot) ResetConversation() {
	s.Timeline = nil
	s.Sources = sourceindex.Empty()
	s.Active = nil
	s.Epoch++
}

// ReplaceSources swaps in the evidence set of a new answer. The active
// source survives only if its chunk is part of the new set, and then points
// at the new chunk value.
func (s *Snapshot) ReplaceSources(chunks []entity.SourceChunk) {
	s.Sources = sourceindex.New(chunks)
	if s.Active == nil {
		return
	}
	chunk, ok := s.Sources.Lookup(s.Active.Chunk.ChunkId)
	if !ok {
		s.Active = nil
		return
	}
	s.Active = &entity.ActiveSource{Chunk: chunk, HighlightedText: s.Active.HighlightedText}
}

// RemoveMessage drops a timeline entry by id.
func (s *Snapshot) RemoveMessage(id string) bool {
	for i, m := range s.Timeline {
		if m.Id == id {
			s.Timeline = append(s.Timeline[:i], s.Timeline[i+1:]...)
			return true
		}
	}
	return false
}

func (s Snapshot) Message(id string) (entity.ChatMessage, bool) {
	for _, m := range s.Timeline {
		if m.Id == id {
			return m, true
		}
	}
	return entity.ChatMessage{}, false
}

func (s *Snapshot) SetError(kind entity.ErrorKind, message string) {
	s.Error = &entity.ErrorState{Kind: kind, Message: message}
}

func (s *Snapshot) ClearError() {
	s.Error = nil
}

// Persisted extracts the long-lived subset.
func (s Snapshot) Persisted() entity.PersistedState {
	c := s.clone()
	return entity.PersistedState{
		Sessions:         c.Sessions,
		CurrentSessionId: c.CurrentSessionId,
		Documents:        c.Documents,
	}
}

// Restore loads a persisted subset into an otherwise fresh snapshot.
func (s *Snapshot) Restore(p entity.PersistedState) {
	s.Sessions = make([]entity.ChatSession, len(p.Sessions))
	for i, sess := range p.Sessions {
		s.Sessions[i] = sess.Clone()
	}
	s.Documents = append([]entity.Document(nil), p.Documents...)
	s.CurrentSessionId = ""
	if p.CurrentSessionId != "" && s.SessionIndex(p.CurrentSessionId) >= 0 {
		s.CurrentSessionId = p.CurrentSessionId
	}
}
