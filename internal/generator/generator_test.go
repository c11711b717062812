package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

func completionServer(t *testing.T, status int, body string, captured *capturedRequest, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(b)
}

func TestGenerateMissingCredentialMakesNoCall(t *testing.T) {
	var calls int32
	srv := completionServer(t, http.StatusOK, completion("x"), nil, &calls)

	g := New(Config{APIKey: "  ", BaseURL: srv.URL + "/v1"})
	msg, err := g.Generate(context.Background(), "prompt")

	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestGenerateSendsFixedParameters(t *testing.T) {
	var calls int32
	var got capturedRequest
	srv := completionServer(t, http.StatusOK, completion("  feat(api): add health endpoint \n"), &got, &calls)

	g := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/"})
	msg, err := g.Generate(context.Background(), "the prompt")
	require.NoError(t, err)

	assert.Equal(t, "feat(api): add health endpoint", msg.Message)
	assert.InDelta(t, 0.8, msg.Confidence, 1e-9)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 150, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, SystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "the prompt", got.Messages[1].Content)
}

func TestGenerateEmptyContentFallsBack(t *testing.T) {
	var calls int32
	srv := completionServer(t, http.StatusOK, completion("   "), nil, &calls)

	msg, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"}).
		Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Update code", msg.Message)
}

func TestGenerateNoChoicesFallsBack(t *testing.T) {
	var calls int32
	srv := completionServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil, &calls)

	msg, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, FallbackMessage, msg.Message)
}

func TestGenerateErrorCategories(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		other  error
	}{
		{
			name:   "rejected key",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			want:   ErrAuthentication,
			other:  ErrGeneration,
		},
		{
			name:   "rejected key with non-json body",
			status: http.StatusUnauthorized,
			body:   `unauthorized`,
			want:   ErrAuthentication,
			other:  ErrGeneration,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":{"message":"boom","type":"server_error"}}`,
			want:   ErrGeneration,
			other:  ErrAuthentication,
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"slow down","type":"rate_limit"}}`,
			want:   ErrGeneration,
			other:  ErrAuthentication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := completionServer(t, tt.status, tt.body, nil, &calls)

			msg, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}).Generate(context.Background(), "p")
			assert.Nil(t, msg)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, tt.other)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retry")
		})
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(Config{APIKey: "sk-test", BaseURL: url + "/v1"}).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrGeneration)
}
