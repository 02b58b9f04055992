package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"docchat-client/internal/dto"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/state"
	"docchat-client/pkg/backend"

	"github.com/google/uuid"
)

var errOffline = errors.New("dial tcp: connection refused")

// fakeBackend is an in-memory backend.API. Hooks override single calls.
type fakeBackend struct {
	mu sync.Mutex

	documents []dto.DocumentResponse
	sessions  map[string]*dto.SessionWithMessagesResponse
	order     []string
	chunks    map[string]dto.ChunkDetailResponse

	sendCalls  int
	chunkCalls int
	lastSend   dto.SendMessageRequest

	onSend    func(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	onUpload  func(filename string) (*dto.DocumentResponse, error)
	// onGetSession runs before GetSession answers, outside the lock.
	onGetSession func(sessionId string)
	failLists bool
}

var _ backend.API = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		sessions: map[string]*dto.SessionWithMessagesResponse{},
		chunks:   map[string]dto.ChunkDetailResponse{},
	}
}

func newTestStore() *state.Store {
	return state.NewStore(nil, nil, logger.NewNopLogger())
}

func notFound() error {
	return &backend.Error{Status: http.StatusNotFound, Detail: "not found"}
}

func (f *fakeBackend) addDocument(id, name string) dto.DocumentResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := dto.DocumentResponse{Id: id, Filename: id + ".pdf", OriginalFilename: name, UploadDate: time.Now()}
	f.documents = append(f.documents, d)
	return d
}

func (f *fakeBackend) addSession(id string, created time.Time, messages ...dto.MessageResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	title := "Session " + id
	f.sessions[id] = &dto.SessionWithMessagesResponse{
		SessionResponse: dto.SessionResponse{Id: id, Title: &title, CreatedAt: created, UpdatedAt: created, AttachedDocuments: []dto.DocumentBriefResponse{}},
		Messages:        messages,
	}
	f.order = append(f.order, id)
}

func (f *fakeBackend) UploadDocument(ctx context.Context, filename string, content io.Reader) (*dto.DocumentResponse, error) {
	if f.onUpload != nil {
		return f.onUpload(filename)
	}
	if _, err := io.ReadAll(content); err != nil {
		return nil, err
	}
	d := f.addDocument(fmt.Sprintf("doc-%d", len(f.documents)+1), filename)
	return &d, nil
}

func (f *fakeBackend) ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLists {
		return nil, errOffline
	}
	return append([]dto.DocumentResponse(nil), f.documents...), nil
}

func (f *fakeBackend) GetDocument(ctx context.Context, documentId string) (*dto.DocumentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.documents {
		if d.Id == documentId {
			return &d, nil
		}
	}
	return nil, notFound()
}

func (f *fakeBackend) DeleteDocument(ctx context.Context, documentId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.documents {
		if d.Id == documentId {
			f.documents = append(f.documents[:i], f.documents[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (f *fakeBackend) ProcessDocument(ctx context.Context, documentId string) (*dto.DocumentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.documents {
		if d.Id == documentId {
			now := time.Now()
			pages := 12
			f.documents[i].Processed = &now
			f.documents[i].PageCount = &pages
			out := f.documents[i]
			return &out, nil
		}
	}
	return nil, notFound()
}

func (f *fakeBackend) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	id := fmt.Sprintf("session-%d", len(f.order)+1)
	f.addSession(id, time.Now())

	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessions[id]
	if req.Title != nil {
		s.Title = req.Title
	}
	for _, docId := range req.DocumentIds {
		s.AttachedDocuments = append(s.AttachedDocuments, dto.DocumentBriefResponse{Id: docId})
	}
	out := s.SessionResponse
	return &out, nil
}

func (f *fakeBackend) ListSessions(ctx context.Context) ([]dto.SessionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLists {
		return nil, errOffline
	}
	out := make([]dto.SessionResponse, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.sessions[id].SessionResponse)
	}
	return out, nil
}

func (f *fakeBackend) GetSession(ctx context.Context, sessionId string) (*dto.SessionWithMessagesResponse, error) {
	f.mu.Lock()
	hook := f.onGetSession
	f.mu.Unlock()
	if hook != nil {
		hook(sessionId)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLists {
		return nil, errOffline
	}
	s, ok := f.sessions[sessionId]
	if !ok {
		return nil, notFound()
	}
	out := *s
	return &out, nil
}

func (f *fakeBackend) DeleteSession(ctx context.Context, sessionId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[sessionId]; !ok {
		return notFound()
	}
	delete(f.sessions, sessionId)
	for i, id := range f.order {
		if id == sessionId {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) AttachDocument(ctx context.Context, sessionId, documentId string) (*dto.SessionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionId]
	if !ok {
		return nil, notFound()
	}
	s.AttachedDocuments = append(s.AttachedDocuments, dto.DocumentBriefResponse{Id: documentId, OriginalFilename: documentId + ".pdf"})
	out := s.SessionResponse
	return &out, nil
}

func (f *fakeBackend) SendMessage(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	f.mu.Lock()
	f.sendCalls++
	f.lastSend = req
	hook := f.onSend
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, req)
	}
	return reply(req, "Answer [[aaa]] and [[bbb]]", "aaa", "bbb"), nil
}

func (f *fakeBackend) GetChunk(ctx context.Context, chunkId string) (*dto.ChunkDetailResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunkCalls++
	c, ok := f.chunks[chunkId]
	if !ok {
		return nil, notFound()
	}
	return &c, nil
}

// reply builds a backend answer citing chunkIds, in that order.
func reply(req dto.SendMessageRequest, content string, chunkIds ...string) *dto.SendMessageResponse {
	sessionId := "server-session"
	if req.SessionId != nil {
		sessionId = *req.SessionId
	}
	sources := make([]dto.SourceChunkResponse, 0, len(chunkIds))
	for i, id := range chunkIds {
		page := i + 1
		sources = append(sources, dto.SourceChunkResponse{
			ChunkId:      id,
			Content:      "evidence " + id,
			Similarity:   0.9,
			DocumentId:   "d1",
			DocumentName: "paper1.pdf",
			PageNumber:   &page,
			MediaType:    "text",
		})
	}
	return &dto.SendMessageResponse{
		SessionId: sessionId,
		Message: dto.MessageResponse{
			Id:        "assistant-" + uuid.NewString(),
			SessionId: sessionId,
			Role:      "assistant",
			Content:   content,
			CreatedAt: time.Now(),
			Citations: chunkIds,
		},
		Citations: chunkIds,
		Sources:   sources,
	}
}
