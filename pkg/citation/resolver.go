package citation

import (
	"fmt"
	"regexp"
	"strings"

	"docchat-client/internal/entity"
)

// TokenType indicates whether a token is plain text or an inline citation
type TokenType string

const (
	TokenLiteral  TokenType = "literal"
	TokenCitation TokenType = "citation"
)

// Token is one lexical unit of a message body
type Token struct {
	Type    TokenType
	Raw     string // The original matched text
	ChunkId string // Inner identifier, only set for citations
}

// SegmentKind is the resolved form of a token
type SegmentKind string

const (
	SegmentLiteral    SegmentKind = "literal"
	SegmentCitation   SegmentKind = "citation"
	SegmentUnresolved SegmentKind = "unresolved"
)

// Segment is what a renderer consumes
type Segment struct {
	Kind    SegmentKind         `json:"kind"`
	Text    string              `json:"text"`
	ChunkId string              `json:"chunk_id,omitempty"`
	Number  int                 `json:"number,omitempty"`
	Chunk   *entity.SourceChunk `json:"chunk,omitempty"`
}

// Lookup is the read side of the current evidence set.
type Lookup interface {
	Lookup(chunkId string) (entity.SourceChunk, bool)
	PositionOf(chunkId string) int
}

// Citation token pattern:
// [[3f2a9c1e-...]] - chunk id made of hex digits and hyphens, any case
var citationPattern = regexp.MustCompile(`(?i)\[\[([a-f0-9-]+)\]\]`)

// Tokenize splits content into an ordered, lossless sequence of literal and
// citation tokens. Empty literals between adjacent citations are omitted.
func Tokenize(content string) []Token {
	tokens := make([]Token, 0)
	last := 0
	for _, loc := range citationPattern.FindAllStringSubmatchIndex(content, -1) {
		if loc[0] > last {
			tokens = append(tokens, Token{Type: TokenLiteral, Raw: content[last:loc[0]]})
		}
		tokens = append(tokens, Token{
			Type:    TokenCitation,
			Raw:     content[loc[0]:loc[1]],
			ChunkId: content[loc[2]:loc[3]],
		})
		last = loc[1]
	}
	if last < len(content) || len(tokens) == 0 {
		tokens = append(tokens, Token{Type: TokenLiteral, Raw: content[last:]})
	}
	return tokens
}

// Join reassembles tokens into the original content.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Raw)
	}
	return b.String()
}

// Resolve binds every citation token in content to the evidence set.
// Unknown ids become unresolved segments, never errors.
func Resolve(content string, lookup Lookup) []Segment {
	tokens := Tokenize(content)
	segments := make([]Segment, 0, len(tokens))
	for _, t := range tokens {
		if t.Type == TokenLiteral {
			segments = append(segments, Segment{Kind: SegmentLiteral, Text: t.Raw})
			continue
		}

		seg := Segment{Kind: SegmentUnresolved, Text: t.Raw, ChunkId: t.ChunkId}
		if lookup != nil {
			if chunk, ok := findChunk(lookup, t.ChunkId); ok {
				seg.Kind = SegmentCitation
				seg.ChunkId = chunk.ChunkId
				seg.Number = lookup.PositionOf(chunk.ChunkId)
				seg.Chunk = &chunk
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// findChunk tries the id as written, then lower-cased, since the token is
// matched case-insensitively but ids are stored as the backend sent them.
func findChunk(lookup Lookup, id string) (entity.SourceChunk, bool) {
	if c, ok := lookup.Lookup(id); ok {
		return c, true
	}
	if lower := strings.ToLower(id); lower != id {
		return lookup.Lookup(lower)
	}
	return entity.SourceChunk{}, false
}

// CitedIds returns the distinct chunk ids cited in content, lower-cased, in
// first-appearance order.
func CitedIds(content string) []string {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range citationPattern.FindAllStringSubmatch(content, -1) {
		id := strings.ToLower(m[1])
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// PlainText renders segments as text, with resolved citations shown as
// [n] and unresolved ones as [?].
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		switch s.Kind {
		case SegmentCitation:
			fmt.Fprintf(&b, "[%d]", s.Number)
		case SegmentUnresolved:
			b.WriteString("[?]")
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
