package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"itsm-desk/config"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	calls    atomic.Int32
	failures int32
	reply    string
	lastReq  openAIRequest
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := f.calls.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.lastReq = req
		if n <= f.failures {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + mustJSON(f.reply) + `}}]}`))
	}
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestService(t *testing.T, api *fakeAPI, retries int) *Service {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	client := NewOpenAIClient("sk-test", srv.URL, "gpt-3.5-turbo", time.Second)
	return NewService(client, time.Second, retries, utils.NewNopLogger())
}

func TestChatAppendsAssistantTurn(t *testing.T) {
	api := &fakeAPI{reply: "Restart the mail relay."}
	svc := newTestService(t, api, 1)
	transcript := []Message{
		{Role: RoleUser, Content: "Email is down"},
		{Role: RoleAssistant, Content: "Which users are affected?"},
		{Role: RoleUser, Content: "Everyone"},
	}
	reply, err := svc.Chat(context.Background(), transcript)
	require.NoError(t, err)
	assert.False(t, reply.Fallback)
	assert.Equal(t, "Restart the mail relay.", reply.Text)
	require.Len(t, reply.Transcript, 4)
	assert.Equal(t, RoleAssistant, reply.Transcript[3].Role)
	assert.NotEmpty(t, reply.Transcript[3].ID)

	require.Len(t, api.lastReq.Messages, 4)
	assert.Equal(t, "system", api.lastReq.Messages[0].Role)
	assert.Contains(t, api.lastReq.Messages[0].Content, "concise but informative")
	assert.Equal(t, "gpt-3.5-turbo", api.lastReq.Model)
	assert.Equal(t, 500, api.lastReq.MaxTokens)
	assert.InDelta(t, 0.7, api.lastReq.Temperature, 1e-9)
}

func TestTransientFailureIsRetriedOnce(t *testing.T) {
	api := &fakeAPI{failures: 1, reply: "ok"}
	svc := newTestService(t, api, 1)
	reply := svc.SummarizeIncident(context.Background(), store.Incident{Title: "Disk full", Priority: "high", Status: "open"})
	assert.False(t, reply.Fallback)
	assert.Equal(t, "ok", reply.Text)
	assert.Equal(t, int32(2), api.calls.Load())
	assert.Equal(t, 300, api.lastReq.MaxTokens)
	require.Len(t, api.lastReq.Messages, 1)
	assert.Equal(t, "user", api.lastReq.Messages[0].Role)
	assert.Contains(t, api.lastReq.Messages[0].Content, "Title: Disk full")
}

func TestPersistentFailureReturnsFallback(t *testing.T) {
	api := &fakeAPI{failures: 10, reply: "never"}
	svc := newTestService(t, api, 1)
	reply, err := svc.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, FallbackChat, reply.Text)
	assert.Equal(t, int32(2), api.calls.Load())

	mit := svc.SuggestMitigation(context.Background(), store.Risk{Description: "Breach", Impact: "high", Probability: "medium"})
	assert.True(t, mit.Fallback)
	assert.Equal(t, FallbackInsights, mit.Text)
}

func TestEmptyCompletionUsesCouldNotGenerateText(t *testing.T) {
	api := &fakeAPI{reply: "   "}
	svc := newTestService(t, api, 1)
	reply := svc.SuggestMitigation(context.Background(), store.Risk{Description: "Flood"})
	assert.True(t, reply.Fallback)
	assert.Equal(t, FallbackMitigation, reply.Text)
	assert.Equal(t, int32(1), api.calls.Load())
	assert.Equal(t, 400, api.lastReq.MaxTokens)
	require.Len(t, api.lastReq.Messages, 1)
	assert.NotEqual(t, "system", api.lastReq.Messages[0].Role)

	chat, err := svc.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, FallbackEmptyChat, chat.Text)
}

func TestUnconfiguredServiceServesFallback(t *testing.T) {
	svc := NewFromConfig(context.Background(), config.AssistantConfig{}, utils.NewNopLogger())
	assert.False(t, svc.Configured())
	reply := svc.SummarizeIncident(context.Background(), store.Incident{Title: "x"})
	assert.True(t, reply.Fallback)
	assert.Equal(t, FallbackInsights, reply.Text)
}

func TestTimeoutTriggersFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	svc := NewService(NewOpenAIClient("sk-test", srv.URL, "gpt-3.5-turbo", 5*time.Second), 50*time.Millisecond, 1, utils.NewNopLogger())
	start := time.Now()
	reply := svc.SummarizeIncident(context.Background(), store.Incident{Title: "slow"})
	assert.True(t, reply.Fallback)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestTranscriptValidation(t *testing.T) {
	svc := NewService(nil, time.Second, 0, utils.NewNopLogger())
	cases := [][]Message{
		nil,
		{{Role: "system", Content: "x"}},
		{{Role: RoleUser, Content: "  "}},
		{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "a"}},
	}
	for _, tc := range cases {
		_, err := svc.Chat(context.Background(), tc)
		assert.True(t, errors.Is(err, ErrInvalidTranscript), "transcript %v", tc)
	}
}
