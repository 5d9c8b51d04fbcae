package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates an sdkClient pointing at a local test server.
func newTestClient(baseURL string, opts ...Option) *sdkClient {
	return NewClient("test-key", append([]Option{WithBaseURL(baseURL)}, opts...)...).(*sdkClient)
}

func writeMessage(w http.ResponseWriter, id, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"id":   id,
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"model":       "claude-sonnet-4-5-20250929",
		"stop_reason": "end_turn",
		"usage": map[string]any{
			"input_tokens":                120,
			"output_tokens":               40,
			"cache_creation_input_tokens": 0,
			"cache_read_input_tokens":     100,
		},
	})
}

func TestSDKClient_CreateMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")
		writeMessage(w, "msg_001", `{"empresa": "Acme"}`)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	resp, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 2000,
		Messages:  []Message{{Role: "user", Content: "Transcrição: ..."}},
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_001", resp.ID)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, `{"empresa": "Acme"}`, resp.Text())
	assert.Equal(t, int64(120), resp.Usage.InputTokens)
	assert.Equal(t, int64(100), resp.Usage.CacheReadInputTokens)
}

func TestSDKClient_CreateMessage_SendsSystemAndTemperature(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeMessage(w, "msg_sys", "{}")
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   2000,
		System:      BuildCachedSystemBlocks("You are an expert sales call analyzer.", "1h"),
		Messages:    []Message{{Role: "user", Content: "prompt"}},
		Temperature: Float(0.2),
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.2, body["temperature"], 0.0001)
	assert.EqualValues(t, 2000, body["max_tokens"])
	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	block := system[0].(map[string]any)
	assert.Equal(t, "You are an expert sales call analyzer.", block["text"])
	cc := block["cache_control"].(map[string]any)
	assert.Equal(t, "ephemeral", cc["type"])
	assert.Equal(t, "1h", cc["ttl"])
}

func TestSDKClient_CreateMessage_APIError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		temporary bool
	}{
		{"overloaded", 529, true},
		{"server error", http.StatusInternalServerError, true},
		{"rate limited", http.StatusTooManyRequests, true},
		{"bad request", http.StatusBadRequest, false},
		{"unauthorized", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
					"type":  "error",
					"error": map[string]any{"type": "api_error", "message": "boom"},
				})
			}))
			defer ts.Close()

			client := newTestClient(ts.URL)
			_, err := client.CreateMessage(context.Background(), MessageRequest{
				Model:     "claude-sonnet-4-5-20250929",
				MaxTokens: 10,
				Messages:  []Message{{Role: "user", Content: "hi"}},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "anthropic: create message")

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.temporary, apiErr.Temporary())
			assert.Equal(t, int32(1), calls.Load(), "sdk retries must be disabled")
		})
	}
}

func TestSDKClient_RateLimitHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "msg", "ok")
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, WithRateLimit(0.001))
	req := MessageRequest{Model: "m", MaxTokens: 1, Messages: []Message{{Role: "user", Content: "x"}}}

	_, err := client.CreateMessage(context.Background(), req)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.CreateMessage(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}

func TestMessageResponse_Text(t *testing.T) {
	var nilResp *MessageResponse
	assert.Equal(t, "", nilResp.Text())

	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "a"},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: "b"},
	}}
	assert.Equal(t, "ab", resp.Text())
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 18.0, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.0001)
	assert.Zero(t, u.EstimateCost("unknown-model"))

	cached := TokenUsage{CacheCreationInputTokens: 1_000_000, CacheReadInputTokens: 1_000_000}
	assert.InDelta(t, 3.0*1.25+3.0*0.1, cached.EstimateCost("claude-sonnet-4-5-20250929"), 0.0001)
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	blocks := BuildCachedSystemBlocks("prompt", "")
	require.Len(t, blocks, 1)
	assert.Equal(t, "prompt", blocks[0].Text)
	require.NotNil(t, blocks[0].CacheControl)
	assert.Equal(t, "5m", blocks[0].CacheControl.TTL)

	assert.Equal(t, "1h", BuildCachedSystemBlocks("p", "1h")[0].CacheControl.TTL)
}
