package assistant

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the chat transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type CompletionRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Completer is one remote text-completion provider.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

var (
	ErrNotConfigured     = errors.New("assistant not configured")
	ErrInvalidTranscript = errors.New("invalid transcript")
	ErrEmptyCompletion   = errors.New("empty completion")
)
