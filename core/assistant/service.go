package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

const systemPrompt = `You are an AI assistant for an IT Service Management (ITSM) dashboard. You help users with:
- Service requests and incident management
- Service catalog information
- SLA monitoring and compliance
- Asset management
- Problem resolution
- Risk management
- Audit and compliance
- IT best practices and ITIL guidance

Provide helpful, accurate, and professional responses. Keep responses concise but informative.`

const (
	FallbackChat       = "I apologize, but I'm unable to respond right now. Please try again later."
	FallbackEmptyChat  = "I apologize, but I could not generate a response. Please try again."
	FallbackSummary    = "Unable to generate summary."
	FallbackMitigation = "Unable to generate risk mitigation suggestions."
	FallbackInsights   = "Unable to generate AI insights at this time. Please try again later."
)

// callProfile holds the per-call settings. One-shot prompts carry no
// system turn.
type callProfile struct {
	name        string
	system      string
	maxTokens   int
	temperature float64
}

var (
	chatProfile       = callProfile{name: "chat", system: systemPrompt, maxTokens: 500, temperature: 0.7}
	summaryProfile    = callProfile{name: "summary", maxTokens: 300, temperature: 0.5}
	mitigationProfile = callProfile{name: "mitigation", maxTokens: 400, temperature: 0.6}
)

// Reply is the outcome of one assistant call. Fallback marks a static
// message served in place of a completion.
type Reply struct {
	Text       string    `json:"text"`
	Fallback   bool      `json:"fallback"`
	Transcript []Message `json:"transcript,omitempty"`
}

type Service struct {
	completer Completer
	timeout   time.Duration
	retries   int
	logger    *utils.Logger
	now       func() time.Time
}

// NewService wraps completer with a per-attempt timeout and up to retries
// extra attempts. A nil completer answers every call with its fallback.
func NewService(completer Completer, timeout time.Duration, retries int, logger *utils.Logger) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &Service{completer: completer, timeout: timeout, retries: retries, logger: logger, now: utils.NowUTC}
}

func (s *Service) Configured() bool {
	return s != nil && s.completer != nil
}

// Chat sends the whole transcript and appends the reply as the next
// assistant turn.
func (s *Service) Chat(ctx context.Context, transcript []Message) (Reply, error) {
	if err := validateTranscript(transcript); err != nil {
		return Reply{}, err
	}
	text, fallback := s.call(ctx, chatProfile, transcript, FallbackChat, FallbackEmptyChat)
	out := make([]Message, 0, len(transcript)+1)
	for _, m := range transcript {
		if m.ID == "" {
			m.ID = utils.NewUUID()
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = s.now()
		}
		out = append(out, m)
	}
	out = append(out, Message{ID: utils.NewUUID(), Role: RoleAssistant, Content: text, Timestamp: s.now()})
	return Reply{Text: text, Fallback: fallback, Transcript: out}, nil
}

func (s *Service) SummarizeIncident(ctx context.Context, inc store.Incident) Reply {
	prompt := fmt.Sprintf(`Analyze this IT incident and provide a brief summary with recommended next steps:

Title: %s
Description: %s
Priority: %s
Status: %s

Provide a professional summary and 2-3 actionable next steps.`, inc.Title, inc.Description, inc.Priority, inc.Status)
	text, fallback := s.call(ctx, summaryProfile, []Message{{Role: RoleUser, Content: prompt}}, FallbackInsights, FallbackSummary)
	return Reply{Text: text, Fallback: fallback}
}

func (s *Service) SuggestMitigation(ctx context.Context, risk store.Risk) Reply {
	prompt := fmt.Sprintf(`Analyze this IT risk and suggest mitigation strategies:

Description: %s
Impact: %s
Probability: %s
Current Mitigation: %s

Provide 3-4 specific, actionable mitigation strategies.`, risk.Description, risk.Impact, risk.Probability, risk.Mitigation)
	text, fallback := s.call(ctx, mitigationProfile, []Message{{Role: RoleUser, Content: prompt}}, FallbackInsights, FallbackMitigation)
	return Reply{Text: text, Fallback: fallback}
}

// call returns the completion text, or a fallback when every attempt failed
// or the provider returned nothing.
func (s *Service) call(ctx context.Context, p callProfile, messages []Message, onFailure, onEmpty string) (string, bool) {
	if !s.Configured() {
		s.logger.Printf("assistant %s skipped: %v", p.name, ErrNotConfigured)
		return onFailure, true
	}
	req := CompletionRequest{System: p.system, Messages: messages, MaxTokens: p.maxTokens, Temperature: p.temperature}
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, err := s.completer.Complete(callCtx, req)
		cancel()
		if err == nil {
			if strings.TrimSpace(text) == "" {
				s.logger.Warnf("assistant %s: %v", p.name, ErrEmptyCompletion)
				return onEmpty, true
			}
			return text, false
		}
		lastErr = err
		if errors.Is(err, ErrNotConfigured) || ctx.Err() != nil {
			break
		}
		s.logger.Warnf("assistant %s attempt %d failed: %v", p.name, attempt+1, err)
	}
	s.logger.Errorf("assistant %s failed: %v", p.name, lastErr)
	return onFailure, true
}

func validateTranscript(transcript []Message) error {
	if len(transcript) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidTranscript)
	}
	for i, m := range transcript {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidTranscript, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d is empty", ErrInvalidTranscript, i)
		}
	}
	if transcript[len(transcript)-1].Role != RoleUser {
		return fmt.Errorf("%w: last message must come from the user", ErrInvalidTranscript)
	}
	return nil
}
