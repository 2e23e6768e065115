package extraction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_GenerateStructured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery)

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.Equal(t, "instr", req.Contents[0].Parts[0].Text)
		assert.Equal(t, "audio/webm", req.Contents[0].Parts[1].InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("voice")), req.Contents[0].Parts[1].InlineData.Data)
		assert.Equal(t, "application/json", req.GenerationConfig["responseMimeType"])
		assert.NotNil(t, req.GenerationConfig["responseSchema"])

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"a\":"},{"text":"1}"}]}}]}`))
	}))
	defer server.Close()

	c := NewGeminiClient(server.URL+"/", "gemini-2.5-flash", "secret-key", time.Second)
	text, err := c.GenerateStructured(context.Background(), GenerateRequest{
		Instruction:    "instr",
		Audio:          []byte("voice"),
		MimeType:       "audio/webm",
		ResponseSchema: ResponseSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestGeminiClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantTransient bool
	}{
		{"503", http.StatusServiceUnavailable, `{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`, true},
		{"503 without body", http.StatusServiceUnavailable, ``, true},
		{"unavailable status", http.StatusInternalServerError, `{"error":{"code":500,"status":"UNAVAILABLE"}}`, true},
		{"bad request", http.StatusBadRequest, `{"error":{"code":400,"message":"Invalid audio","status":"INVALID_ARGUMENT"}}`, false},
		{"permission", http.StatusForbidden, `{"error":{"code":403,"status":"PERMISSION_DENIED"}}`, false},
		{"internal", http.StatusInternalServerError, `{"error":{"code":500,"status":"INTERNAL"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewGeminiClient(server.URL, "m", "secret-key", time.Second)
			_, err := c.GenerateStructured(context.Background(), GenerateRequest{Audio: []byte("x")})
			require.Error(t, err)
			assert.Equal(t, tt.wantTransient, errors.Is(err, ErrServiceOverloaded))
			assert.NotContains(t, err.Error(), "secret-key")

			if !tt.wantTransient {
				var apiErr *APIError
				assert.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.status, apiErr.StatusCode)
			}
		})
	}
}

func TestGeminiClient_NoCandidatesYieldsEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	text, err := NewGeminiClient(server.URL, "m", "k", time.Second).GenerateStructured(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Empty(t, text)
}
