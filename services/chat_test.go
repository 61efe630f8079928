package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter is a scripted Completer for chat loop tests.
type fakeCompleter struct {
	reply       string
	err         error
	calls       int
	lastPrompt  string
	lastHistory []Message
}

func (f *fakeCompleter) StreamCompletion(ctx context.Context, systemPrompt string, history []Message, onDelta func(string)) (string, error) {
	f.calls++
	f.lastPrompt = systemPrompt
	f.lastHistory = append([]Message(nil), history...)
	if f.err != nil {
		return "", f.err
	}
	if onDelta != nil {
		for _, part := range strings.SplitAfter(f.reply, " ") {
			onDelta(part)
		}
	}
	return f.reply, nil
}

func newChatFixture(t *testing.T, completer Completer) *ChatService {
	t.Helper()
	db := newTestDB(t)
	createStudent(t, db, "alice")
	return NewChatService(completer, NewProgressionService(db), NewActivityService(db), 10)
}

func TestSendMessageSuccess(t *testing.T) {
	fc := &fakeCompleter{reply: "Salom! Qalaysan?"}
	chat := newChatFixture(t, fc)

	var streamed strings.Builder
	result, err := chat.SendMessage(context.Background(), "Alice", "universal", "Salom", func(s string) {
		streamed.WriteString(s)
	})
	require.NoError(t, err)
	assert.Equal(t, "Salom! Qalaysan?", result.Reply)
	assert.Equal(t, "Salom! Qalaysan?", streamed.String())
	assert.Equal(t, 10, result.XPAwarded)
	assert.Equal(t, []string{"🌟 Birinchi Qadam"}, result.NewBadges)

	// The completer saw the user message at the tail of the history.
	require.NotEmpty(t, fc.lastHistory)
	assert.Equal(t, Message{Role: RoleUser, Content: "Salom"}, fc.lastHistory[len(fc.lastHistory)-1])

	history := chat.History("alice")
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, RoleAssistant, history[1].Role)
}

func TestSendMessageCompletionFailure(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("upstream timeout")}
	chat := newChatFixture(t, fc)

	_, err := chat.SendMessage(context.Background(), "alice", "universal", "Salom", nil)
	assert.ErrorIs(t, err, ErrCompletionFailed)

	// The user message stays; no assistant message was appended.
	history := chat.History("alice")
	require.Len(t, history, 1)
	assert.Equal(t, RoleUser, history[0].Role)

	// The session stays usable for the next turn.
	fc.err = nil
	fc.reply = "Yaxshi!"
	result, err := chat.SendMessage(context.Background(), "alice", "universal", "Qalaysan", nil)
	require.NoError(t, err)
	assert.Equal(t, "Yaxshi!", result.Reply)
	assert.Len(t, chat.History("alice"), 3)
}

func TestSendMessagePersonaSwitchClearsHistory(t *testing.T) {
	fc := &fakeCompleter{reply: "Javob"}
	chat := newChatFixture(t, fc)

	_, err := chat.SendMessage(context.Background(), "alice", "universal", "Birinchi", nil)
	require.NoError(t, err)
	require.Len(t, chat.History("alice"), 2)

	_, err = chat.SendMessage(context.Background(), "alice", "grade-1", "Ikkinchi", nil)
	require.NoError(t, err)

	// Only the new turn survives the persona switch.
	history := chat.History("alice")
	require.Len(t, history, 2)
	assert.Equal(t, "Ikkinchi", history[0].Content)

	// The second call carried the new persona's prompt.
	persona, ok := PersonaByID("grade-1")
	require.True(t, ok)
	assert.Equal(t, persona.SystemPrompt, fc.lastPrompt)
}

func TestSendMessageUnknownPersona(t *testing.T) {
	chat := newChatFixture(t, &fakeCompleter{reply: "x"})

	_, err := chat.SendMessage(context.Background(), "alice", "grade-9", "Salom", nil)
	assert.ErrorIs(t, err, ErrUnknownPersona)
}

func TestSendMessageNotConfigured(t *testing.T) {
	chat := newChatFixture(t, nil)

	assert.False(t, chat.Configured())
	_, err := chat.SendMessage(context.Background(), "alice", "universal", "Salom", nil)
	assert.ErrorIs(t, err, ErrChatNotConfigured)
}

func TestSendMessageEmptyText(t *testing.T) {
	chat := newChatFixture(t, &fakeCompleter{reply: "x"})

	_, err := chat.SendMessage(context.Background(), "alice", "universal", "   ", nil)
	assert.Error(t, err)
	assert.Empty(t, chat.History("alice"))
}

func TestResetAndEndSession(t *testing.T) {
	chat := newChatFixture(t, &fakeCompleter{reply: "Javob"})

	_, err := chat.SendMessage(context.Background(), "alice", "universal", "Salom", nil)
	require.NoError(t, err)

	chat.Reset("alice")
	assert.Empty(t, chat.History("alice"))

	_, err = chat.SendMessage(context.Background(), "alice", "universal", "Yana", nil)
	require.NoError(t, err)
	chat.EndSession("alice")
	assert.Empty(t, chat.History("alice"))
}

func TestPersonaTable(t *testing.T) {
	personas := Personas()
	require.Len(t, personas, 5)
	assert.Equal(t, "universal", personas[0].ID)

	for _, p := range personas {
		assert.NotEmpty(t, p.SystemPrompt)
	}

	_, ok := PersonaByID("universal")
	assert.True(t, ok)
	_, ok = PersonaByID("nope")
	assert.False(t, ok)
}
