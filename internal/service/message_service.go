package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"docchat-client/internal/dto"
	"docchat-client/internal/entity"
	"docchat-client/internal/mapper"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/state"
	"docchat-client/pkg/backend"
	"docchat-client/pkg/citation"

	"github.com/google/uuid"
)

const (
	provisionalPrefix = "pending-"
	titleMaxRunes     = 50
)

type SendOptions struct {
	// AttachDocumentIds are attached to the session with this message. For a
	// new chat an empty list means every known document.
	AttachDocumentIds []string
}

type SendResult struct {
	SessionId string
	Reply     entity.ChatMessage
	Sources   int
	// Stale is set when the conversation changed while the request was in
	// flight; the reply was then not added to the timeline.
	Stale bool
}

type IMessageService interface {
	Send(ctx context.Context, text string, opts SendOptions) (*SendResult, error)
	LoadSession(ctx context.Context, sessionId string) error
	// Rehydrate reloads the history of a restored current session.
	Rehydrate(ctx context.Context) error
	Timeline() []entity.ChatMessage
	Pending() bool
	Segments(messageId string) ([]citation.Segment, error)
}

type messageService struct {
	api    backend.API
	store  *state.Store
	mapper *mapper.BackendMapper
	logger logger.ILogger
	now    func() time.Time
}

func NewMessageService(api backend.API, store *state.Store, log logger.ILogger) IMessageService {
	return &messageService{
		api:    api,
		store:  store,
		mapper: mapper.NewBackendMapper(),
		logger: log,
		now:    time.Now,
	}
}

func (ms *messageService) Send(ctx context.Context, text string, opts SendOptions) (*SendResult, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil, entity.ErrEmptyMessage
	}

	provisional := entity.ChatMessage{
		Id:          provisionalPrefix + uuid.NewString(),
		Role:        entity.RoleUser,
		Content:     content,
		CreatedAt:   ms.now().UTC(),
		Citations:   []string{},
		Provisional: true,
	}

	var (
		req  dto.SendMessageRequest
		turn state.PendingTurn
	)
	_, err := ms.store.Apply("message.pending", func(s *state.Snapshot) error {
		if s.IsPending() {
			return entity.ErrSendInProgress
		}

		docIds := append([]string(nil), opts.AttachDocumentIds...)
		if s.CurrentSessionId == "" && len(docIds) == 0 {
			docIds = documentIds(s.Documents)
		}

		var locked *entity.Document
		s.Filter, locked = s.Filter.Consume()

		req = dto.SendMessageRequest{Message: content, AttachDocumentIds: docIds}
		if s.CurrentSessionId != "" {
			id := s.CurrentSessionId
			req.SessionId = &id
		}
		if locked != nil {
			id := locked.Id
			req.FilterDocumentId = &id
		}

		turn = state.PendingTurn{
			ProvisionalId: provisional.Id,
			Epoch:         s.Epoch,
			DocumentIds:   docIds,
			NewSession:    s.CurrentSessionId == "",
		}
		provisional.SessionId = s.CurrentSessionId

		s.Timeline = append(s.Timeline, provisional)
		s.ClearError()
		pending := turn
		s.Pending = &pending
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := ms.api.SendMessage(ctx, req)
	if err != nil {
		ms.rollback(turn, err)
		return nil, fmt.Errorf("send message: %w", err)
	}
	return ms.commit(turn, provisional, opts, resp)
}

func (ms *messageService) rollback(turn state.PendingTurn, cause error) {
	ms.logger.Warn("MessageService", "Send failed, rolling back", map[string]interface{}{"error": cause})
	_, _ = ms.store.Apply("message.rollback", func(s *state.Snapshot) error {
		s.Pending = nil
		if s.Epoch != turn.Epoch {
			return nil
		}
		s.RemoveMessage(turn.ProvisionalId)
		s.SetError(entity.ErrorNetwork, describe(cause))
		return nil
	})
}

func (ms *messageService) commit(turn state.PendingTurn, provisional entity.ChatMessage, opts SendOptions, resp *dto.SendMessageResponse) (*SendResult, error) {
	reply := ms.mapper.MessageToEntity(&resp.Message)
	if reply.SessionId == "" {
		reply.SessionId = resp.SessionId
	}
	sources := ms.mapper.SourcesToEntities(resp.Sources)
	now := ms.now().UTC()

	result := &SendResult{SessionId: resp.SessionId, Reply: reply, Sources: len(sources)}
	duplicate := false

	_, err := ms.store.Apply("message.commit", func(s *state.Snapshot) error {
		s.Pending = nil
		stale := s.Epoch != turn.Epoch
		result.Stale = stale

		if turn.NewSession {
			if s.SessionIndex(resp.SessionId) < 0 {
				s.PutSession(synthesizeSession(resp.SessionId, provisional.Content, turn.DocumentIds, s, now))
			}
			if !stale {
				s.CurrentSessionId = resp.SessionId
			}
		} else if i := s.SessionIndex(resp.SessionId); i >= 0 {
			mergeAttachments(&s.Sessions[i], opts.AttachDocumentIds, s)
			s.Sessions[i].UpdatedAt = now
		}

		if stale {
			return nil
		}

		s.RemoveMessage(turn.ProvisionalId)
		if _, exists := s.Message(reply.Id); exists {
			// The turn is dropped whole; the timeline is back to its pre-send length.
			duplicate = true
			s.SetError(entity.ErrorNetwork, entity.ErrDuplicateReply.Error())
			return nil
		}
		canonical := provisional
		canonical.Id = uuid.NewString()
		canonical.SessionId = resp.SessionId
		canonical.Provisional = false
		s.Timeline = append(s.Timeline, canonical, reply)
		s.ReplaceSources(sources)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if duplicate {
		ms.logger.Warn("MessageService", "Reply reuses an existing message id, turn rolled back", map[string]interface{}{
			"session_id": resp.SessionId,
			"message_id": reply.Id,
		})
		return nil, fmt.Errorf("commit reply %s: %w", reply.Id, entity.ErrDuplicateReply)
	}

	ms.logger.Info("MessageService", "Turn committed", map[string]interface{}{
		"session_id": resp.SessionId,
		"sources":    len(sources),
		"citations":  len(resp.Citations),
		"stale":      result.Stale,
	})
	return result, nil
}

// synthesizeSession registers the session the backend created implicitly
// for the first message of a new chat.
func synthesizeSession(id, firstMessage string, documentIds []string, s *state.Snapshot, now time.Time) entity.ChatSession {
	session := entity.ChatSession{
		Id:                id,
		Title:             sessionTitle(firstMessage),
		CreatedAt:         now,
		UpdatedAt:         now,
		AttachedDocuments: []entity.DocumentBrief{},
	}
	mergeAttachments(&session, documentIds, s)
	return session
}

func mergeAttachments(session *entity.ChatSession, documentIds []string, s *state.Snapshot) {
	for _, id := range documentIds {
		if session.HasDocument(id) {
			continue
		}
		if doc, ok := s.Document(id); ok {
			session.AttachedDocuments = append(session.AttachedDocuments, doc.Brief())
		}
	}
}

func sessionTitle(message string) string {
	if utf8.RuneCountInString(message) <= titleMaxRunes {
		return message
	}
	return string([]rune(message)[:titleMaxRunes]) + "..."
}

func (ms *messageService) LoadSession(ctx context.Context, sessionId string) error {
	epoch := ms.store.Snapshot().Epoch

	resp, err := ms.api.GetSession(ctx, sessionId)
	if err != nil {
		if backend.IsNotFound(err) {
			return entity.ErrSessionNotFound
		}
		reportFailure(ms.store, ms.logger, "message.load", entity.ErrorNetwork, err)
		return fmt.Errorf("load session %s: %w", sessionId, err)
	}

	session := ms.mapper.SessionToEntity(&resp.SessionResponse)
	history := ms.mapper.MessagesToEntities(resp.Messages)

	_, err = ms.store.Apply("message.load", func(s *state.Snapshot) error {
		s.PutSession(*session)
		if s.CurrentSessionId != sessionId || s.Epoch != epoch {
			return nil
		}
		timeline := history
		if s.Pending != nil {
			if p, ok := s.Message(s.Pending.ProvisionalId); ok {
				timeline = append(timeline, p)
			}
		}
		s.Timeline = timeline
		return nil
	})
	return err
}

func (ms *messageService) Rehydrate(ctx context.Context) error {
	current := ms.store.Snapshot().CurrentSessionId
	if current == "" {
		return nil
	}

	err := ms.LoadSession(ctx, current)
	if errors.Is(err, entity.ErrSessionNotFound) {
		ms.logger.Info("MessageService", "Restored session no longer exists", map[string]interface{}{"session_id": current})
		_, err = ms.store.Apply("message.rehydrate", func(s *state.Snapshot) error {
			s.RemoveSession(current)
			if s.CurrentSessionId == current {
				s.CurrentSessionId = ""
				s.ResetConversation()
			}
			return nil
		})
	}
	return err
}

func (ms *messageService) Timeline() []entity.ChatMessage {
	return ms.store.Snapshot().Timeline
}

func (ms *messageService) Pending() bool {
	snap := ms.store.Snapshot()
	return snap.IsPending()
}

func (ms *messageService) Segments(messageId string) ([]citation.Segment, error) {
	snap := ms.store.Snapshot()
	msg, ok := snap.Message(messageId)
	if !ok {
		return nil, entity.ErrMessageNotFound
	}
	return citation.Resolve(msg.Content, snap.Sources), nil
}
