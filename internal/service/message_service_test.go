package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"docchat-client/internal/dto"
	"docchat-client/internal/entity"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/state"
	"docchat-client/pkg/citation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	api      *fakeBackend
	store    *state.Store
	messages IMessageService
	sessions ISessionService
	filter   IFilterService
	docs     IDocumentService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	api := newFakeBackend()
	api.addDocument("d1", "paper1.pdf")
	api.addDocument("d2", "notes.pdf")

	store := newTestStore()
	log := logger.NewNopLogger()
	f := &chatFixture{
		api:      api,
		store:    store,
		messages: NewMessageService(api, store, log),
		sessions: NewSessionService(api, store, log),
		filter:   NewFilterService(store),
		docs:     NewDocumentService(api, store, log),
	}
	_, err := f.docs.Refresh(context.Background())
	require.NoError(t, err)
	return f
}

// blockSends makes every send wait for a value on the returned channel.
func (f *chatFixture) blockSends() chan *dto.SendMessageResponse {
	release := make(chan *dto.SendMessageResponse)
	f.api.onSend = func(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
		select {
		case resp := <-release:
			return resp, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return release
}

func (f *chatFixture) waitPending(t *testing.T) {
	t.Helper()
	require.Eventually(t, f.messages.Pending, time.Second, 5*time.Millisecond)
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	f := newChatFixture(t)
	before := f.store.Snapshot().Version

	_, err := f.messages.Send(context.Background(), "   \n\t", SendOptions{})
	assert.ErrorIs(t, err, entity.ErrEmptyMessage)
	assert.Equal(t, before, f.store.Snapshot().Version, "no transition")
	assert.Equal(t, 0, f.api.sendCalls)
}

func TestCommitGrowsTimelineByTwo(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	for turn := 1; turn <= 3; turn++ {
		res, err := f.messages.Send(ctx, "question", SendOptions{})
		require.NoError(t, err)
		assert.False(t, res.Stale)
		assert.Len(t, f.messages.Timeline(), 2*turn)
	}

	timeline := f.messages.Timeline()
	seen := map[string]bool{}
	for _, m := range timeline {
		assert.False(t, seen[m.Id], "duplicate id %s", m.Id)
		seen[m.Id] = true
		assert.False(t, m.Provisional)
		assert.False(t, strings.HasPrefix(m.Id, provisionalPrefix))
	}
	assert.Equal(t, entity.RoleUser, timeline[0].Role)
	assert.Equal(t, entity.RoleAssistant, timeline[1].Role)
	assert.False(t, f.messages.Pending())
}

func TestDuplicateReplyIdRollsBackTurn(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first, err := f.messages.Send(ctx, "question", SendOptions{})
	require.NoError(t, err)
	before := f.store.Snapshot()

	f.api.onSend = func(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
		resp := reply(req, "Other [[ccc]]", "ccc")
		resp.Message.Id = first.Reply.Id
		return resp, nil
	}
	res, err := f.messages.Send(ctx, "again", SendOptions{})
	require.ErrorIs(t, err, entity.ErrDuplicateReply)
	assert.Nil(t, res)

	snap := f.store.Snapshot()
	assert.Equal(t, before.Timeline, snap.Timeline)
	assert.Equal(t, before.Sources.Keys(), snap.Sources.Keys())
	assert.False(t, snap.IsPending())
	require.NotNil(t, snap.Error)
	assert.Equal(t, entity.ErrorNetwork, snap.Error.Kind)
}

func TestRollbackIsNetZero(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.messages.Send(ctx, "first", SendOptions{})
	require.NoError(t, err)
	before := f.store.Snapshot()

	f.api.onSend = func(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
		return nil, errOffline
	}
	_, err = f.messages.Send(ctx, "second", SendOptions{})
	require.Error(t, err)

	after := f.store.Snapshot()
	assert.Equal(t, before.Timeline, after.Timeline)
	assert.Equal(t, before.Sources.Keys(), after.Sources.Keys())
	assert.False(t, after.IsPending())
	require.NotNil(t, after.Error)
	assert.Equal(t, entity.ErrorNetwork, after.Error.Kind)
	assert.Contains(t, after.Error.Message, "connection refused")
}

func TestSendClearsPreviousError(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.api.onSend = func(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
		return nil, errOffline
	}
	_, _ = f.messages.Send(ctx, "fails", SendOptions{})
	require.NotNil(t, f.store.Snapshot().Error)

	f.api.onSend = nil
	_, err := f.messages.Send(ctx, "works", SendOptions{})
	require.NoError(t, err)
	assert.Nil(t, f.store.Snapshot().Error)
}

func TestOverlappingSendIsRejected(t *testing.T) {
	f := newChatFixture(t)
	release := f.blockSends()

	done := make(chan error, 1)
	go func() {
		_, err := f.messages.Send(context.Background(), "first", SendOptions{})
		done <- err
	}()
	f.waitPending(t)

	snap := f.store.Snapshot()
	require.Len(t, snap.Timeline, 1)
	assert.True(t, snap.Timeline[0].Provisional)

	_, err := f.messages.Send(context.Background(), "second", SendOptions{})
	assert.ErrorIs(t, err, entity.ErrSendInProgress)
	assert.Len(t, f.store.Snapshot().Timeline, 1, "rejected send leaves no trace")

	release <- reply(dto.SendMessageRequest{}, "ok")
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.api.sendCalls)
	assert.Len(t, f.messages.Timeline(), 2)
}

func TestSourcesMatchLatestResponseExactly(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.messages.Send(ctx, "q1", SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa", "bbb"}, f.store.Snapshot().Sources.Keys())

	f.api.onSend = func(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
		return reply(req, "Only [[ccc]]", "ccc"), nil
	}
	_, err = f.messages.Send(ctx, "q2", SendOptions{})
	require.NoError(t, err)

	snap := f.store.Snapshot()
	assert.Equal(t, []string{"ccc"}, snap.Sources.Keys())
	_, ok := snap.Sources.Lookup("aaa")
	assert.False(t, ok, "previous evidence is gone")
}

func TestSegmentsNumberCitationsByEvidenceOrder(t *testing.T) {
	f := newChatFixture(t)
	f.api.onSend = func(ctx context.Context, req dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
		return reply(req, "Result [[bbb]] then [[aaa]] and [[fff]]", "aaa", "bbb"), nil
	}

	res, err := f.messages.Send(context.Background(), "q", SendOptions{})
	require.NoError(t, err)

	segments, err := f.messages.Segments(res.Reply.Id)
	require.NoError(t, err)

	var numbers []int
	var unresolved int
	for _, s := range segments {
		switch s.Kind {
		case citation.SegmentCitation:
			numbers = append(numbers, s.Number)
		case citation.SegmentUnresolved:
			unresolved++
		}
	}
	assert.Equal(t, []int{2, 1}, numbers)
	assert.Equal(t, 1, unresolved)

	// Asking twice yields the same numbers.
	again, err := f.messages.Segments(res.Reply.Id)
	require.NoError(t, err)
	assert.Equal(t, segments, again)

	_, err = f.messages.Segments("missing")
	assert.ErrorIs(t, err, entity.ErrMessageNotFound)
}

func TestFirstMessageRegistersSession(t *testing.T) {
	f := newChatFixture(t)
	long := strings.Repeat("é", 60)

	res, err := f.messages.Send(context.Background(), long, SendOptions{})
	require.NoError(t, err)

	assert.Nil(t, f.api.lastSend.SessionId)
	assert.ElementsMatch(t, []string{"d1", "d2"}, f.api.lastSend.AttachDocumentIds, "new chat attaches every known document")

	snap := f.store.Snapshot()
	assert.Equal(t, res.SessionId, snap.CurrentSessionId)
	session, ok := snap.CurrentSession()
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("é", 50)+"...", session.Title)
	assert.True(t, session.HasDocument("d1"))
	assert.True(t, session.HasDocument("d2"))

	for _, m := range snap.Timeline {
		assert.Equal(t, res.SessionId, m.SessionId)
	}
}

func TestFollowUpUsesCurrentSessionAndMergesAttachments(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.sessions.Create(ctx, "Review", nil)
	require.NoError(t, err)
	current := f.store.Snapshot().CurrentSessionId

	_, err = f.messages.Send(ctx, "look at notes", SendOptions{AttachDocumentIds: []string{"d2"}})
	require.NoError(t, err)

	require.NotNil(t, f.api.lastSend.SessionId)
	assert.Equal(t, current, *f.api.lastSend.SessionId)
	assert.Equal(t, []string{"d2"}, f.api.lastSend.AttachDocumentIds)

	session, ok := f.store.Snapshot().CurrentSession()
	require.True(t, ok)
	assert.True(t, session.HasDocument("d2"))
	assert.False(t, session.HasDocument("d1"))
}

func TestLockedFilterIsOneShot(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.filter.Input("summarize @paper")
	view := f.filter.Confirm()
	require.NotNil(t, view.Locked)
	assert.Equal(t, "summarize", view.Buffer)

	_, err := f.messages.Send(ctx, view.Buffer, SendOptions{})
	require.NoError(t, err)
	require.NotNil(t, f.api.lastSend.FilterDocumentId)
	assert.Equal(t, "d1", *f.api.lastSend.FilterDocumentId)
	assert.Nil(t, f.filter.View().Locked)

	_, err = f.messages.Send(ctx, "again", SendOptions{})
	require.NoError(t, err)
	assert.Nil(t, f.api.lastSend.FilterDocumentId)
}

func TestStaleResponseIsIgnored(t *testing.T) {
	f := newChatFixture(t)
	release := f.blockSends()

	done := make(chan *SendResult, 1)
	go func() {
		res, err := f.messages.Send(context.Background(), "slow", SendOptions{})
		assert.NoError(t, err)
		done <- res
	}()
	f.waitPending(t)

	// User starts another chat while the answer is in flight.
	require.NoError(t, f.sessions.Select(context.Background(), ""))
	assert.Empty(t, f.messages.Timeline())

	release <- reply(dto.SendMessageRequest{}, "late [[aaa]]", "aaa")
	res := <-done
	require.NotNil(t, res)
	assert.True(t, res.Stale)

	snap := f.store.Snapshot()
	assert.Empty(t, snap.Timeline)
	assert.Equal(t, 0, snap.Sources.Len())
	assert.Nil(t, snap.Active)
	assert.Empty(t, snap.CurrentSessionId)
	assert.False(t, snap.IsPending())
	assert.GreaterOrEqual(t, snap.SessionIndex("server-session"), 0, "the session the backend created is still registered")
}

func TestContextCancellationRollsBack(t *testing.T) {
	f := newChatFixture(t)
	f.blockSends()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.messages.Send(ctx, "never answered", SendOptions{})
		done <- err
	}()
	f.waitPending(t)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, f.messages.Timeline())
	assert.False(t, f.messages.Pending())
}

func TestLoadSessionKeepsEvidence(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	res, err := f.messages.Send(ctx, "q", SendOptions{})
	require.NoError(t, err)
	f.api.addSession(res.SessionId, time.Now(),
		dto.MessageResponse{Id: "h1", SessionId: res.SessionId, Role: "user", Content: "old"},
		dto.MessageResponse{Id: "h2", SessionId: res.SessionId, Role: "assistant", Content: "older [[aaa]]"},
	)

	require.NoError(t, f.messages.LoadSession(ctx, res.SessionId))

	snap := f.store.Snapshot()
	require.Len(t, snap.Timeline, 2)
	assert.Equal(t, "h1", snap.Timeline[0].Id)
	assert.Equal(t, []string{"aaa", "bbb"}, snap.Sources.Keys())
}

func TestRehydrateDropsVanishedSession(t *testing.T) {
	api := newFakeBackend()
	store := newTestStore()
	_, err := store.Apply("seed", func(s *state.Snapshot) error {
		s.PutSession(entity.ChatSession{Id: "gone"})
		s.CurrentSessionId = "gone"
		return nil
	})
	require.NoError(t, err)

	ms := NewMessageService(api, store, logger.NewNopLogger())
	require.NoError(t, ms.Rehydrate(context.Background()))

	snap := store.Snapshot()
	assert.Empty(t, snap.CurrentSessionId)
	assert.Equal(t, -1, snap.SessionIndex("gone"))
}

func TestSessionTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"short", "short"},
		{strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
	}
	for _, tt := range tests {
		if got := sessionTitle(tt.in); got != tt.want {
			t.Errorf("sessionTitle(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
