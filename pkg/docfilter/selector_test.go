package docfilter

import (
	"testing"

	"docchat-client/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docs() []entity.Document {
	return []entity.Document{
		{Id: "d1", OriginalFilename: "paper1.pdf"},
		{Id: "d2", OriginalFilename: "Paper2-final.pdf"},
		{Id: "d3", OriginalFilename: "notes.pdf"},
	}
}

func TestConfirmLocksFilterAndTrimsBuffer(t *testing.T) {
	list := []entity.Document{{Id: "d1", OriginalFilename: "paper1.pdf"}}

	s := New().Input("What is the result? @pap", list)
	require.True(t, s.Open)
	assert.Equal(t, "pap", s.Query)
	assert.Equal(t, list, s.Candidates(list))

	s = s.Confirm(list)
	assert.False(t, s.Open)
	require.NotNil(t, s.Locked)
	assert.Equal(t, "d1", s.Locked.Id)
	assert.Equal(t, "What is the result?", s.Buffer)
}

func TestCancelLeavesBufferAndNoLock(t *testing.T) {
	list := []entity.Document{{Id: "d1", OriginalFilename: "paper1.pdf"}}

	s := New().Input("What is the result? @pap", list).Cancel()
	assert.False(t, s.Open)
	assert.Nil(t, s.Locked)
	assert.Equal(t, "What is the result? @pap", s.Buffer)
}

func TestCandidatesAreCaseInsensitiveAndOrdered(t *testing.T) {
	s := New().Input("@PAPER", docs())
	got := s.Candidates(docs())
	require.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].Id)
	assert.Equal(t, "d2", got[1].Id)
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	s := New().Input("compare @", docs())
	assert.True(t, s.Open)
	assert.Len(t, s.Candidates(docs()), 3)
}

func TestCompletedTokenClosesPicker(t *testing.T) {
	s := New().Input("ask @paper1.pdf about", docs())
	assert.False(t, s.Open)
	assert.Empty(t, s.Candidates(docs()))
}

func TestNavigationClamps(t *testing.T) {
	s := New().Input("@pa", docs())
	require.Len(t, s.Candidates(docs()), 2)

	s = s.MoveUp()
	assert.Equal(t, 0, s.Selected)

	s = s.MoveDown(docs()).MoveDown(docs()).MoveDown(docs())
	assert.Equal(t, 1, s.Selected)

	s = s.Confirm(docs())
	require.NotNil(t, s.Locked)
	assert.Equal(t, "d2", s.Locked.Id)
}

func TestSelectedClampsWhenCandidatesShrink(t *testing.T) {
	s := New().Input("@pa", docs()).MoveDown(docs())
	assert.Equal(t, 1, s.Selected)

	s = s.Input("@paper1", docs())
	assert.Equal(t, 0, s.Selected)
}

func TestConfirmWithoutCandidatesIsNoop(t *testing.T) {
	s := New().Input("@zzz", docs())
	assert.True(t, s.Empty(docs()))

	after := s.Confirm(docs())
	assert.True(t, after.Open)
	assert.Nil(t, after.Locked)
	assert.Equal(t, "@zzz", after.Buffer)
}

func TestTriggerIgnoredWhileLocked(t *testing.T) {
	s := New().Input("@notes", docs()).Confirm(docs())
	require.NotNil(t, s.Locked)

	s = s.Input("and @pa", docs())
	assert.False(t, s.Open)
	assert.Equal(t, "d3", s.Locked.Id)
}

func TestConsumeIsOneShot(t *testing.T) {
	s := New().Input("q @notes", docs()).Confirm(docs())

	s, locked := s.Consume()
	require.NotNil(t, locked)
	assert.Equal(t, "d3", locked.Id)

	_, again := s.Consume()
	assert.Nil(t, again)
}

func TestUsesLastTrigger(t *testing.T) {
	s := New().Input("mail a@b.com then @no", docs())
	require.True(t, s.Open)
	assert.Equal(t, "no", s.Query)

	s = s.Confirm(docs())
	assert.Equal(t, "mail a@b.com then", s.Buffer)
}

func TestNavigationWhileClosedIsNoop(t *testing.T) {
	s := New().Input("hello", docs())
	assert.Equal(t, s, s.MoveDown(docs()))
	assert.Equal(t, s, s.MoveUp())
	assert.Equal(t, s, s.Confirm(docs()))
}
