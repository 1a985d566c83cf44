package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forgefit/coach-engine/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGenerator_Success(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(generateResponse{
			Model:  "coach-7b-v2",
			Output: `{"programName": "X"}`,
		})
	}))
	defer server.Close()

	gen := NewHTTPGenerator(config.GeneratorConfig{
		Endpoint: server.URL,
		Model:    "coach-7b",
	})

	resp, err := gen.Generate(context.Background(), "build me a program")
	require.NoError(t, err)
	assert.Equal(t, `{"programName": "X"}`, resp.Text)
	assert.Equal(t, "coach-7b-v2", resp.ModelVersion)

	assert.Equal(t, "coach-7b", gotReq.Model)
	assert.Equal(t, "build me a program", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
}

func TestHTTPGenerator_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gen := NewHTTPGenerator(config.GeneratorConfig{Endpoint: server.URL})

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPGenerator_MalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	gen := NewHTTPGenerator(config.GeneratorConfig{Endpoint: server.URL})

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestHTTPGenerator_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	gen := NewHTTPGenerator(config.GeneratorConfig{Endpoint: server.URL})

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPGenerator_RequestTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	gen := NewHTTPGenerator(config.GeneratorConfig{
		Endpoint:       server.URL,
		RequestTimeout: 50 * time.Millisecond,
	})

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
