// Package docfilter implements the "@document" picker layered over the chat
// input. State is a value: every transition returns a new State, so it can be
// stored inside an immutable snapshot.
package docfilter

import (
	"strings"
	"unicode"

	"docchat-client/internal/entity"
)

// Trigger opens the document picker when typed in the input.
const Trigger = '@'

type State struct {
	Buffer   string           `json:"buffer"`
	Open     bool             `json:"open"`
	Query    string           `json:"query"`
	Selected int              `json:"selected"`
	Locked   *entity.Document `json:"locked,omitempty"`

	trigger int // byte offset of the active trigger in Buffer, -1 when closed
}

func New() State {
	return State{trigger: -1}
}

// Input replaces the text buffer and recomputes whether the picker is open.
func (s State) Input(buffer string, docs []entity.Document) State {
	s.Buffer = buffer
	pos, query, ok := activeTrigger(buffer)
	if !ok || s.Locked != nil {
		return s.close()
	}
	s.Open = true
	s.Query = query
	s.trigger = pos
	s.Selected = clamp(s.Selected, len(s.Candidates(docs)))
	return s
}

// Candidates lists the documents whose display name contains the query,
// in document list order. A closed picker has no candidates.
func (s State) Candidates(docs []entity.Document) []entity.Document {
	out := make([]entity.Document, 0)
	if !s.Open {
		return out
	}
	q := strings.ToLower(s.Query)
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.DisplayName()), q) {
			out = append(out, d)
		}
	}
	return out
}

func (s State) MoveDown(docs []entity.Document) State {
	if !s.Open {
		return s
	}
	s.Selected = clamp(s.Selected+1, len(s.Candidates(docs)))
	return s
}

func (s State) MoveUp() State {
	if !s.Open {
		return s
	}
	if s.Selected > 0 {
		s.Selected--
	}
	return s
}

// Confirm locks the highlighted candidate and strips the trigger and query
// from the buffer. With no candidates it is a no-op.
func (s State) Confirm(docs []entity.Document) State {
	if !s.Open {
		return s
	}
	candidates := s.Candidates(docs)
	if len(candidates) == 0 {
		return s
	}
	chosen := candidates[clamp(s.Selected, len(candidates))]
	s.Buffer = strings.TrimRightFunc(s.Buffer[:s.trigger], unicode.IsSpace)
	s.Locked = &chosen
	return s.close()
}

// Cancel closes the picker and leaves the buffer and lock untouched.
func (s State) Cancel() State {
	return s.close()
}

// ClearLock drops the locked document, e.g. when the user removes the chip.
func (s State) ClearLock() State {
	s.Locked = nil
	return s
}

// Consume hands out the locked filter for one send and clears it.
func (s State) Consume() (State, *entity.Document) {
	locked := s.Locked
	s.Locked = nil
	return s, locked
}

// Empty reports an open picker whose query matches nothing; renderers show an
// explanatory empty state for it.
func (s State) Empty(docs []entity.Document) bool {
	return s.Open && len(s.Candidates(docs)) == 0
}

func (s State) close() State {
	s.Open = false
	s.Query = ""
	s.Selected = 0
	s.trigger = -1
	return s
}

// activeTrigger finds the last trigger in buffer whose following text has no
// whitespace yet, i.e. the token after it is still being typed.
func activeTrigger(buffer string) (int, string, bool) {
	pos := strings.LastIndexByte(buffer, Trigger)
	if pos < 0 {
		return -1, "", false
	}
	query := buffer[pos+1:]
	if strings.IndexFunc(query, unicode.IsSpace) >= 0 {
		return -1, "", false
	}
	return pos, query, true
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
