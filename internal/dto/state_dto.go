package dto

import (
	"time"

	"docchat-client/internal/entity"
	"docchat-client/pkg/citation"
)

// Requests accepted by the local state API.

type SelectSessionRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,max=64"`
}

type CreateLocalSessionRequest struct {
	Title       string   `json:"title" validate:"max=200"`
	DocumentIds []string `json:"document_ids" validate:"dive,required"`
}

type SendLocalMessageRequest struct {
	Message           string   `json:"message" validate:"required"`
	AttachDocumentIds []string `json:"attach_document_ids" validate:"dive,required"`
}

type SetActiveSourceRequest struct {
	ChunkId         string `json:"chunk_id" validate:"required"`
	HighlightedText string `json:"highlighted_text"`
}

type FilterInputRequest struct {
	Text string `json:"text"`
}

// Views returned by the local state API.

type SourceView struct {
	Number int                `json:"number"`
	Chunk  entity.SourceChunk `json:"chunk"`
	Active bool               `json:"active"`
}

type FilterView struct {
	Buffer     string            `json:"buffer"`
	Open       bool              `json:"open"`
	Query      string            `json:"query"`
	Selected   int               `json:"selected"`
	Candidates []entity.Document `json:"candidates"`
	Empty      bool              `json:"empty"`
	Locked     *entity.Document  `json:"locked,omitempty"`
}

type StateView struct {
	Version          uint64               `json:"version"`
	CurrentSessionId string               `json:"current_session_id"`
	Sessions         []entity.ChatSession `json:"sessions"`
	Documents        []entity.Document    `json:"documents"`
	Timeline         []entity.ChatMessage `json:"timeline"`
	Sources          []SourceView         `json:"sources"`
	Active           *entity.ActiveSource `json:"active,omitempty"`
	Filter           FilterView           `json:"filter"`
	Pending          bool                 `json:"pending"`
	Error            *entity.ErrorState   `json:"error,omitempty"`
}

type MessageSegmentsView struct {
	MessageId string             `json:"message_id"`
	Segments  []citation.Segment `json:"segments"`
	Text      string             `json:"text"`
}

// StateChangedEvent is pushed to websocket subscribers after a transition.
type StateChangedEvent struct {
	Action     string    `json:"action"`
	Version    uint64    `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SendLocalMessageResponse struct {
	SessionId string             `json:"session_id"`
	Reply     entity.ChatMessage `json:"reply"`
	Sources   int                `json:"sources"`
	Stale     bool               `json:"stale"`
}
