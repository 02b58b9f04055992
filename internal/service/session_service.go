package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"docchat-client/internal/dto"
	"docchat-client/internal/entity"
	"docchat-client/internal/mapper"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/state"
	"docchat-client/pkg/backend"
)

type ISessionService interface {
	// List refreshes the registry from the backend. On failure the cached
	// list is returned.
	List(ctx context.Context) []entity.ChatSession
	Sessions() []entity.ChatSession
	// Select switches the conversation. An empty id starts a new chat.
	Select(ctx context.Context, sessionId string) error
	Create(ctx context.Context, title string, documentIds []string) (*entity.ChatSession, error)
	AttachDocument(ctx context.Context, sessionId, documentId string) (*entity.ChatSession, error)
	Delete(ctx context.Context, sessionId string) error
}

type sessionService struct {
	api    backend.API
	store  *state.Store
	mapper *mapper.BackendMapper
	logger logger.ILogger
}

func NewSessionService(api backend.API, store *state.Store, log logger.ILogger) ISessionService {
	return &sessionService{
		api:    api,
		store:  store,
		mapper: mapper.NewBackendMapper(),
		logger: log,
	}
}

func (ss *sessionService) List(ctx context.Context) []entity.ChatSession {
	resp, err := ss.api.ListSessions(ctx)
	if err != nil {
		ss.logger.Warn("SessionService", "Failed to list sessions, using cached list", map[string]interface{}{"error": err})
		return ss.Sessions()
	}

	sessions := ss.mapper.SessionsToEntities(resp)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	snap, _ := ss.store.Apply("sessions.list", func(s *state.Snapshot) error {
		s.Sessions = sessions
		if s.CurrentSessionId != "" && s.SessionIndex(s.CurrentSessionId) < 0 && !s.IsPending() {
			// Deleted elsewhere.
			s.CurrentSessionId = ""
			s.ResetConversation()
		}
		return nil
	})
	return snap.Sessions
}

func (ss *sessionService) Sessions() []entity.ChatSession {
	return ss.store.Snapshot().Sessions
}

func (ss *sessionService) Select(ctx context.Context, sessionId string) error {
	if sessionId == "" {
		_, err := ss.store.Apply("sessions.new_chat", func(s *state.Snapshot) error {
			s.CurrentSessionId = ""
			s.ResetConversation()
			s.ClearError()
			return nil
		})
		return err
	}

	// Claim the switch before the request so a later click always wins.
	claimed, err := ss.store.Apply("sessions.select.start", func(s *state.Snapshot) error {
		s.Selection++
		return nil
	})
	if err != nil {
		return err
	}
	token, epoch := claimed.Selection, claimed.Epoch
	current := func(s state.Snapshot) bool {
		return s.Selection == token && s.Epoch == epoch
	}

	resp, err := ss.api.GetSession(ctx, sessionId)
	if err != nil {
		if !current(ss.store.Snapshot()) {
			return entity.ErrSelectionStale
		}
		if backend.IsNotFound(err) {
			return entity.ErrSessionNotFound
		}
		reportFailure(ss.store, ss.logger, "sessions.select", entity.ErrorNetwork, err)
		return fmt.Errorf("load session %s: %w", sessionId, err)
	}

	session := ss.mapper.SessionToEntity(&resp.SessionResponse)
	history := ss.mapper.MessagesToEntities(resp.Messages)

	_, err = ss.store.Apply("sessions.select", func(s *state.Snapshot) error {
		if !current(*s) {
			return entity.ErrSelectionStale
		}
		s.PutSession(*session)
		s.CurrentSessionId = session.Id
		s.ResetConversation()
		s.Timeline = history
		s.ClearError()
		return nil
	})
	if errors.Is(err, entity.ErrSelectionStale) {
		ss.logger.Info("SessionService", "Dropped superseded selection", map[string]interface{}{"session_id": sessionId})
	}
	return err
}

func (ss *sessionService) Create(ctx context.Context, title string, documentIds []string) (*entity.ChatSession, error) {
	snap := ss.store.Snapshot()
	for _, id := range documentIds {
		if _, ok := snap.Document(id); !ok {
			return nil, fmt.Errorf("%w: %s", entity.ErrDocumentNotFound, id)
		}
	}

	req := dto.CreateSessionRequest{DocumentIds: documentIds}
	if t := strings.TrimSpace(title); t != "" {
		req.Title = &t
	}

	resp, err := ss.api.CreateSession(ctx, req)
	if err != nil {
		reportFailure(ss.store, ss.logger, "sessions.create", entity.ErrorNetwork, err)
		return nil, fmt.Errorf("create session: %w", err)
	}
	session := ss.mapper.SessionToEntity(resp)

	_, err = ss.store.Apply("sessions.create", func(s *state.Snapshot) error {
		s.PutSession(*session)
		s.CurrentSessionId = session.Id
		s.ResetConversation()
		s.ClearError()
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.logger.Info("SessionService", "Session created", map[string]interface{}{"session_id": session.Id, "documents": len(documentIds)})
	return session, nil
}

func (ss *sessionService) AttachDocument(ctx context.Context, sessionId, documentId string) (*entity.ChatSession, error) {
	snap := ss.store.Snapshot()
	if _, ok := snap.Document(documentId); !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrDocumentNotFound, documentId)
	}
	i := snap.SessionIndex(sessionId)
	if i < 0 {
		return nil, entity.ErrSessionNotFound
	}
	if snap.Sessions[i].HasDocument(documentId) {
		existing := snap.Sessions[i]
		return &existing, nil
	}

	resp, err := ss.api.AttachDocument(ctx, sessionId, documentId)
	if err != nil {
		reportFailure(ss.store, ss.logger, "sessions.attach", entity.ErrorNetwork, err)
		return nil, fmt.Errorf("attach document %s: %w", documentId, err)
	}
	session := ss.mapper.SessionToEntity(resp)

	_, err = ss.store.Apply("sessions.attach", func(s *state.Snapshot) error {
		if i := s.SessionIndex(session.Id); i >= 0 {
			s.Sessions[i] = *session
		}
		return nil
	})
	return session, err
}

func (ss *sessionService) Delete(ctx context.Context, sessionId string) error {
	if err := ss.api.DeleteSession(ctx, sessionId); err != nil && !backend.IsNotFound(err) {
		reportFailure(ss.store, ss.logger, "sessions.delete", entity.ErrorNetwork, err)
		return fmt.Errorf("delete session %s: %w", sessionId, err)
	}

	_, err := ss.store.Apply("sessions.delete", func(s *state.Snapshot) error {
		if !s.RemoveSession(sessionId) {
			return entity.ErrSessionNotFound
		}
		if s.CurrentSessionId == sessionId {
			s.CurrentSessionId = ""
			s.ResetConversation()
		}
		return nil
	})
	return err
}
