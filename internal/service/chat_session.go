package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"weather-chat/internal/models"
	"weather-chat/internal/stream"
)

// CompletionClient produces the assistant reply for a transcript as a lazy
// sequence of text fragments.
type CompletionClient interface {
	Stream(ctx context.Context, transcript []models.ChatMessage) (*stream.Stream[string], error)
}

type TurnState int

const (
	StateIdle TurnState = iota
	StateResponding
)

func (s TurnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResponding:
		return "responding"
	default:
		return fmt.Sprintf("TurnState(%d)", int(s))
	}
}

// ChatSession is the append-only transcript of one session.
type ChatSession struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	state    TurnState
}

func NewChatSession() *ChatSession {
	return &ChatSession{}
}

// Transcript returns a copy of the messages in insertion order.
func (s *ChatSession) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *ChatSession) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit runs one turn: input is appended as a user message, the whole
// transcript goes to client, and every fragment is handed to onFragment as it
// arrives. The assistant message is appended only once the stream ends
// cleanly; on a stream failure nothing is committed for the reply.
func (s *ChatSession) Submit(ctx context.Context, client CompletionClient, input string, onFragment func(string)) (models.ChatMessage, error) {
	if strings.TrimSpace(input) == "" {
		return models.ChatMessage{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state == StateResponding {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrTurnInProgress
	}
	s.messages = append(s.messages, models.ChatMessage{Role: models.RoleUser, Content: input})
	s.state = StateResponding
	transcript := make([]models.ChatMessage, len(s.messages))
	copy(transcript, s.messages)
	s.mu.Unlock()

	reply, err := s.collect(ctx, client, transcript, onFragment)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	if err != nil {
		return models.ChatMessage{}, err
	}
	s.messages = append(s.messages, reply)
	return reply, nil
}

func (s *ChatSession) collect(ctx context.Context, client CompletionClient, transcript []models.ChatMessage, onFragment func(string)) (models.ChatMessage, error) {
	fragments, err := client.Stream(ctx, transcript)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("service: completion failed: %w", err)
	}
	defer fragments.Close()

	var b strings.Builder
	for fragments.Next() {
		fragment := fragments.Current()
		b.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}
	if err := fragments.Err(); err != nil {
		return models.ChatMessage{}, fmt.Errorf("service: completion stream failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return models.ChatMessage{}, fmt.Errorf("service: completion interrupted: %w", err)
	}

	return models.ChatMessage{Role: models.RoleAssistant, Content: b.String()}, nil
}
