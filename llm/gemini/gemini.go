// Package gemini implements llm.Provider using the Google Generative
// Language HTTP API (generateContent).
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skillsenselab/versestream/llm"
)

const (
	// ProviderName is the registered name for the Gemini provider.
	ProviderName = "gemini"

	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-pro"
	defaultTimeout = 120 * time.Second
)

// Config holds configuration for the Gemini provider.
type Config struct {
	BaseURL     string        `json:"base_url"`
	APIKey      string        `json:"api_key"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Timeout     time.Duration `json:"timeout"`
}

// Provider implements llm.Provider using Gemini's HTTP API.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new Gemini LLM provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Factory returns an llm.Factory that creates Gemini Provider instances
// from a generic config map.
func Factory() llm.Factory {
	return func(cfg map[string]any) (llm.Provider, error) {
		gc := Config{}
		if v, ok := cfg["base_url"].(string); ok {
			gc.BaseURL = v
		}
		if v, ok := cfg["api_key"].(string); ok {
			gc.APIKey = v
		}
		if v, ok := cfg["model"].(string); ok {
			gc.Model = v
		}
		if v, ok := cfg["temperature"].(float64); ok {
			gc.Temperature = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			gc.Timeout = v
		}
		if gc.APIKey == "" {
			return nil, fmt.Errorf("gemini: api_key is required")
		}
		return NewProvider(gc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the model metadata endpoint is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	url := fmt.Sprintf("%s/v1beta/models/%s?key=%s", p.cfg.BaseURL, p.cfg.Model, p.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Complete sends a generateContent request and returns the full response.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}

	genReq := p.buildGenerateRequest(req)

	resp, err := p.doRequest(ctx, model, genReq)
	if err != nil {
		return nil, fmt.Errorf("gemini complete: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini complete: response carried no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return &llm.CompletionResponse{
		Content: sb.String(),
		Model:   model,
		Usage: llm.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// --- internal Gemini API types ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// buildGenerateRequest creates a Gemini API request from an llm.CompletionRequest.
func (p *Provider) buildGenerateRequest(req llm.CompletionRequest) geminiGenerateRequest {
	temp := p.cfg.Temperature
	if req.Temperature != 0 {
		temp = req.Temperature
	}

	contents := make([]geminiContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := m.Role
		// Gemini labels assistant turns "model".
		if role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	out := geminiGenerateRequest{Contents: contents}
	if req.SystemPrompt != "" {
		out.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	if temp != 0 || req.MaxTokens != 0 {
		out.GenerationConfig = &geminiGenerationConfig{
			Temperature:     temp,
			MaxOutputTokens: req.MaxTokens,
		}
	}
	return out
}

// doRequest marshals the request, sends it to the Gemini API, and decodes the response.
func (p *Provider) doRequest(ctx context.Context, model string, req geminiGenerateRequest) (*geminiGenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.cfg.BaseURL, model, p.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close() //nolint:errcheck // Error on close is safe to ignore for read operations

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp geminiGenerateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &resp, nil
}
