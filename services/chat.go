package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zukkoai/zukko-school/utils"
)

// Chat message speaker roles, matching the completion API wire format.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the in-memory chat history, in chronological order.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer streams a chat completion for the given system prompt and history.
// Fragments are delivered through onDelta in arrival order; the assembled
// reply is returned once the stream completes. An empty reply is valid.
type Completer interface {
	StreamCompletion(ctx context.Context, systemPrompt string, history []Message, onDelta func(string)) (string, error)
}

// TurnResult summarizes one successful chat turn.
type TurnResult struct {
	Reply     string   `json:"reply"`
	XPAwarded int      `json:"xp_awarded"`
	NewBadges []string `json:"new_badges"`
}

// chatSession holds the per-user session-scoped state: the selected persona
// and the running message history. turn serializes chat turns for one user so
// a second submission waits for the first to finish.
type chatSession struct {
	turn     sync.Mutex
	persona  string
	messages []Message
}

// ChatService is the session controller for the chat loop. Sessions live in
// memory keyed by username; they are dropped entirely on logout and their
// history is cleared when the persona changes.
type ChatService struct {
	mu       sync.Mutex
	sessions map[string]*chatSession

	completer   Completer
	progression *ProgressionService
	activity    *ActivityService
	rewardXP    int
}

// NewChatService wires the chat loop. completer may be nil when no API key is
// configured; chat turns then fail with ErrChatNotConfigured while the rest of
// the application keeps working.
func NewChatService(completer Completer, progression *ProgressionService, activity *ActivityService, rewardXP int) *ChatService {
	return &ChatService{
		sessions:    make(map[string]*chatSession),
		completer:   completer,
		progression: progression,
		activity:    activity,
		rewardXP:    rewardXP,
	}
}

// Configured reports whether a completion backend is wired.
func (c *ChatService) Configured() bool {
	return c.completer != nil
}

func (c *ChatService) session(username string) *chatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[username]
	if !ok {
		s = &chatSession{}
		c.sessions[username] = s
	}
	return s
}

// History returns a copy of the user's current chat history.
func (c *ChatService) History(username string) []Message {
	s := c.session(NormalizeUsername(username))
	s.turn.Lock()
	defer s.turn.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Reset clears the user's chat history but keeps the session.
func (c *ChatService) Reset(username string) {
	s := c.session(NormalizeUsername(username))
	s.turn.Lock()
	s.messages = nil
	s.turn.Unlock()
}

// EndSession drops all session-scoped state for a user; called on logout.
func (c *ChatService) EndSession(username string) {
	c.mu.Lock()
	delete(c.sessions, NormalizeUsername(username))
	c.mu.Unlock()
}

// SendMessage runs one chat turn: the user message is appended to history
// first, the completion is streamed through onDelta, and only after the full
// reply has arrived is the assistant message appended and the progression
// ledger charged. On completion failure the user message stays in history, no
// assistant message is appended and no XP is awarded; the session remains
// usable for the next turn.
func (c *ChatService) SendMessage(ctx context.Context, username, personaID, text string, onDelta func(string)) (*TurnResult, error) {
	if c.completer == nil {
		return nil, ErrChatNotConfigured
	}
	persona, ok := PersonaByID(personaID)
	if !ok {
		return nil, ErrUnknownPersona
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}

	username = NormalizeUsername(username)
	s := c.session(username)
	s.turn.Lock()
	defer s.turn.Unlock()

	// Fresh context per persona.
	if s.persona != persona.ID {
		s.persona = persona.ID
		s.messages = nil
	}

	s.messages = append(s.messages, Message{Role: RoleUser, Content: text})

	history := make([]Message, len(s.messages))
	copy(history, s.messages)

	reply, err := c.completer.StreamCompletion(ctx, persona.SystemPrompt, history, onDelta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	s.messages = append(s.messages, Message{Role: RoleAssistant, Content: reply})

	result := &TurnResult{Reply: reply}
	if err := c.progression.AddExperience(username, c.rewardXP); err != nil {
		// The reply was already delivered; a ledger failure must not undo the
		// turn. Log and move on.
		if utils.Sugar != nil {
			utils.Sugar.Errorf("xp award failed user=%s: %v", username, err)
		}
	} else {
		result.XPAwarded = c.rewardXP
	}

	c.activity.Record(username, fmt.Sprintf("Chat (%s): %s", persona.Role, truncate(text, 15)))

	badges, err := c.progression.EvaluateBadges(username)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("badge evaluation failed user=%s: %v", username, err)
		}
	} else {
		result.NewBadges = badges
	}

	return result, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
