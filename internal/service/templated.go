package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"core/internal/config"
	"core/internal/model"
)

// ErrMissingImageURL signals that the layer map carries no usable image,
// which the rendering service rejects
var ErrMissingImageURL = errors.New("missing or invalid image URL")

// Renderer is the interface to the external poster rendering service
type Renderer interface {
	// Render submits the layer map for a template version and returns the
	// rendered poster details
	Render(ctx context.Context, templateVersion int, layers model.LayerMap) (*model.GenerationResult, error)
}

// TemplatedClient calls the templated.io render API
type TemplatedClient struct {
	config     *config.TemplatedConfig
	httpClient *http.Client
}

// Ensure TemplatedClient implements Renderer
var _ Renderer = (*TemplatedClient)(nil)

// NewTemplatedClient creates a render client for the templated.io API
func NewTemplatedClient(cfg *config.TemplatedConfig) *TemplatedClient {
	return &TemplatedClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// renderRequest is the templated.io render payload
type renderRequest struct {
	Template string         `json:"template"`
	Layers   model.LayerMap `json:"layers"`
}

// renderErrorResponse carries the detail string of a failed render call
type renderErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Render submits the layer map to templated.io. Placeholder credentials
// short-circuit to a mock result so development environments work without
// a real account.
func (c *TemplatedClient) Render(ctx context.Context, templateVersion int, layers model.LayerMap) (*model.GenerationResult, error) {
	if err := c.config.Validate(templateVersion); err != nil {
		return nil, err
	}

	if c.config.IsPlaceholder(templateVersion) {
		log.Printf("Warning: using development mode with placeholder API keys")
		return c.mockResult(templateVersion, layers), nil
	}

	payload := renderRequest{
		Template: c.config.TemplateID(templateVersion),
		Layers:   layers,
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal render request: %w", err)
	}

	url := fmt.Sprintf("%s/render", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send render request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read render response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := renderDetail(body)
		if resp.StatusCode == http.StatusUnprocessableEntity && detail != "" {
			return nil, fmt.Errorf("render request rejected: %s: %w", detail, ErrMissingImageURL)
		}
		return nil, fmt.Errorf("render request failed with status %d: %s", resp.StatusCode, detail)
	}

	var result model.GenerationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal render response: %w", err)
	}
	result.TemplateVersion = templateVersion
	if result.TemplateID == "" {
		result.TemplateID = c.config.TemplateID(templateVersion)
	}

	return &result, nil
}

// mockResult builds the deterministic development-mode response
func (c *TemplatedClient) mockResult(templateVersion int, layers model.LayerMap) *model.GenerationResult {
	image := layers[model.MainImageLayer(templateVersion)].ImageURL
	return &model.GenerationResult{
		URL:             "https://example.com/poster-preview.jpg",
		Status:          "success",
		TemplateID:      c.config.TemplateID(templateVersion),
		TemplateVersion: templateVersion,
		OriginalImage:   image,
		Mock:            true,
	}
}

// renderDetail extracts a human-readable detail string from an error body
func renderDetail(body []byte) string {
	var er renderErrorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		if er.Detail != "" {
			return er.Detail
		}
		if er.Message != "" {
			return er.Message
		}
	}
	return string(body)
}
