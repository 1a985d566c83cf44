package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"forgefit/coach-engine/internal/config"
)

// RawResponse is the untreated output of one generation call: free text
// that should contain a JSON program somewhere inside it.
type RawResponse struct {
	Text         string
	ModelVersion string
}

// Generator is the narrow interface to the external program-generation
// service. The service is treated as possibly slow, possibly failing, and
// possibly returning malformed output; all recovery lives on our side.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*RawResponse, error)
}

// httpGenerator implements Generator against the generation service's HTTP API.
type httpGenerator struct {
	cfg  config.GeneratorConfig
	http *http.Client
}

// NewHTTPGenerator creates a Generator that talks to the configured endpoint.
func NewHTTPGenerator(cfg config.GeneratorConfig) Generator {
	return &httpGenerator{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// generateRequest is the JSON body sent to POST /v1/generate.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the JSON body the service answers with.
type generateResponse struct {
	Model  string `json:"model"`
	Output string `json:"output"`
}

func (g *httpGenerator) Generate(ctx context.Context, prompt string) (*RawResponse, error) {
	if g.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.RequestTimeout)
		defer cancel()
	}

	data, err := json.Marshal(generateRequest{
		Model:  g.cfg.Model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := g.cfg.Endpoint + "/v1/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrBadStatus, httpResp.StatusCode, string(respBody))
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding envelope: %v", ErrMalformedOutput, err)
	}

	return &RawResponse{Text: resp.Output, ModelVersion: resp.Model}, nil
}
