// File: internal/modelclient/gemini_test.go
package modelclient

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/taskwizard/taskwizard/internal/config"
)

func newGeminiAgainst(t *testing.T, url string) *GeminiClient {
	t.Helper()
	c, err := NewGeminiClient(config.ModelConfig{
		APIKey:      "test-key",
		Endpoint:    url,
		Model:       "gemini-2.0-flash",
		Temperature: 0.2,
		MaxTokens:   1024,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(config.ModelConfig{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestGeminiClient_QueryRoundTrip(t *testing.T) {
	var captured geminiRequest
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "do(action=\"Tap\", element=[500,500])"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 42, "candidatesTokenCount": 12}
		}`))
	}))
	defer srv.Close()

	c := newGeminiAgainst(t, srv.URL)
	png := []byte{0x89, 'P', 'N', 'G'}
	out, err := c.Query(context.Background(), Request{
		System:   "you are a phone operator",
		Prompt:   "open settings",
		ImagePNG: png,
	})
	require.NoError(t, err)
	assert.Equal(t, `do(action="Tap", element=[500,500])`, out)

	assert.Equal(t, "test-key", gotKey)
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "you are a phone operator", captured.SystemInstruction.Parts[0].Text)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Equal(t, "open settings", captured.Contents[0].Parts[0].Text)
	require.NotNil(t, captured.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", captured.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(png), captured.Contents[0].Parts[1].InlineData.Data)
}

func TestGeminiClient_TextOnlyOmitsImageAndSystem(t *testing.T) {
	var captured geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "finish(message=\"done\")"}]}}]}`))
	}))
	defer srv.Close()

	c := newGeminiAgainst(t, srv.URL)
	_, err := c.Query(context.Background(), Request{Prompt: "are we done?"})
	require.NoError(t, err)

	assert.Nil(t, captured.SystemInstruction)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Nil(t, captured.Contents[0].Parts[0].InlineData)
}

func TestGeminiClient_NonOKBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer srv.Close()

	c := newGeminiAgainst(t, srv.URL)
	_, err := c.Query(context.Background(), Request{Prompt: "hello"})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.True(t, statusErr.Transient())
	assert.Contains(t, statusErr.Body, "quota exceeded")
}

func TestGeminiClient_NoCandidatesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := newGeminiAgainst(t, srv.URL)
	_, err := c.Query(context.Background(), Request{Prompt: "hello"})
	assert.ErrorContains(t, err, "no candidates")
}
