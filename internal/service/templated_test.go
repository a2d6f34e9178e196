package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"core/internal/config"
	"core/internal/model"
)

func testLayers() model.LayerMap {
	return BuildLayers(1, map[string]string{
		"image_url":      "https://example.com/house.jpg",
		"property_price": "$450,000",
	})
}

func TestTemplatedClient_RenderSuccess(t *testing.T) {
	var gotAuth string
	var gotBody renderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode render request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/render.jpg","status":"success","template_id":"tpl-1"}`))
	}))
	defer server.Close()

	client := NewTemplatedClient(&config.TemplatedConfig{
		APIKey:      "test-key",
		APIBase:     server.URL,
		TemplateID1: "tpl-1",
		Timeout:     5,
	})

	result, err := client.Render(context.Background(), 1, testLayers())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if result.URL != "https://cdn.example.com/render.jpg" {
		t.Errorf("URL = %q", result.URL)
	}
	if result.TemplateVersion != 1 {
		t.Errorf("TemplateVersion = %d, want 1", result.TemplateVersion)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Template != "tpl-1" {
		t.Errorf("Template = %q, want tpl-1", gotBody.Template)
	}
	if gotBody.Layers["price"].Text != "$450,000" {
		t.Errorf("price layer = %+v", gotBody.Layers["price"])
	}
}

func TestTemplatedClient_RenderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"something broke"}`))
	}))
	defer server.Close()

	client := NewTemplatedClient(&config.TemplatedConfig{
		APIKey:      "test-key",
		APIBase:     server.URL,
		TemplateID1: "tpl-1",
		Timeout:     5,
	})

	_, err := client.Render(context.Background(), 1, testLayers())
	if err == nil {
		t.Fatal("Expected an error for a non-200 response")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "something broke") {
		t.Errorf("Error should carry status and detail, got %v", err)
	}
}

func TestTemplatedClient_PlaceholderCredentialsMockRender(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := NewTemplatedClient(&config.TemplatedConfig{
		APIKey:      config.PlaceholderAPIKey,
		APIBase:     server.URL,
		TemplateID1: "tpl-1",
		Timeout:     5,
	})

	result, err := client.Render(context.Background(), 1, testLayers())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("Placeholder credentials must not hit the API, got %d calls", calls)
	}
	if !result.Mock {
		t.Error("Expected a mock result")
	}
	if result.URL == "" {
		t.Error("Mock result should carry a preview URL")
	}
	if result.OriginalImage != "https://example.com/house.jpg" {
		t.Errorf("OriginalImage = %q", result.OriginalImage)
	}
}

func TestTemplatedClient_MissingCredentials(t *testing.T) {
	client := NewTemplatedClient(&config.TemplatedConfig{Timeout: 5})

	_, err := client.Render(context.Background(), 1, testLayers())
	if err == nil {
		t.Fatal("Expected a configuration error for missing credentials")
	}
	if !strings.Contains(err.Error(), "missing Templated API key or template ID") {
		t.Errorf("Unexpected error: %v", err)
	}
}
