package backend

import (
	"context"
	"io"

	"docchat-client/internal/dto"
)

// API is the contract of the retrieval/generation backend consumed by the
// client state coordinator.
type API interface {
	// Documents
	UploadDocument(ctx context.Context, filename string, content io.Reader) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error)
	GetDocument(ctx context.Context, documentId string) (*dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, documentId string) error
	ProcessDocument(ctx context.Context, documentId string) (*dto.DocumentResponse, error)

	// Sessions
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context) ([]dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionWithMessagesResponse, error)
	DeleteSession(ctx context.Context, sessionId string) error
	AttachDocument(ctx context.Context, sessionId, documentId string) (*dto.SessionResponse, error)

	// Chat
	SendMessage(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetChunk(ctx context.Context, chunkId string) (*dto.ChunkDetailResponse, error)
}
