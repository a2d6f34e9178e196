package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"core/internal/model"
	"core/internal/repository"
	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// stubRenderer counts render calls and returns a fixed result
type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(_ context.Context, templateVersion int, layers model.LayerMap) (*model.GenerationResult, error) {
	s.calls++
	return &model.GenerationResult{
		URL:             "https://cdn.example.com/render.jpg",
		Status:          "success",
		TemplateID:      "tpl-test",
		TemplateVersion: templateVersion,
	}, nil
}

func newTestRouter(renderer service.Renderer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	sessions := repository.NewSessionStore()
	chatService := service.NewChatService(
		sessions,
		service.NewGenerator(renderer),
		service.NewReplyComposer(nil),
		nil,
	)
	chatHandler := NewChatHandler(chatService)

	router := gin.New()
	apiV1 := router.Group("/api/v1")
	apiV1.POST("/chat", chatHandler.Chat)
	apiV1.GET("/templates", chatHandler.ListTemplates)
	return router
}

func postChat(t *testing.T, router *gin.Engine, req model.ChatRequest) (int, model.ChatResponse) {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)

	var resp model.ChatResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
	}
	return w.Code, resp
}

func TestChatEndToEnd(t *testing.T) {
	renderer := &stubRenderer{}
	router := newTestRouter(renderer)

	// Turn 1: template choice plus image URL collects everything template 2 needs
	code, resp := postChat(t, router, model.ChatRequest{
		UserPrompt: "use template 2, image www.x.com/a.png",
	})
	if code != http.StatusOK {
		t.Fatalf("Status code = %d, want 200", code)
	}
	if resp.SessionID == "" {
		t.Fatal("Expected a generated session id")
	}
	if resp.TemplateVersion != 2 {
		t.Errorf("TemplateVersion = %d, want 2", resp.TemplateVersion)
	}
	if resp.Status != model.StatusReadyToGenerate {
		t.Errorf("Status = %s, want %s", resp.Status, model.StatusReadyToGenerate)
	}
	if renderer.calls != 0 {
		t.Errorf("Renderer called %d times before an explicit request, want 0", renderer.calls)
	}
	if resp.Response == "" {
		t.Error("The user must always receive a reply")
	}

	// Turn 2: explicit generation request triggers the render
	code, resp = postChat(t, router, model.ChatRequest{
		SessionID:  resp.SessionID,
		UserPrompt: "generate it",
	})
	if code != http.StatusOK {
		t.Fatalf("Status code = %d, want 200", code)
	}
	if resp.Status != model.StatusGenerated {
		t.Errorf("Status = %s, want %s", resp.Status, model.StatusGenerated)
	}
	if renderer.calls != 1 {
		t.Errorf("Renderer called %d times, want 1", renderer.calls)
	}

	// Turn 3: unrelated chat does not re-invoke the rendering service
	code, resp = postChat(t, router, model.ChatRequest{
		SessionID:  resp.SessionID,
		UserPrompt: "that is wonderful, thank you",
	})
	if code != http.StatusOK {
		t.Fatalf("Status code = %d, want 200", code)
	}
	if resp.Status != model.StatusGenerated {
		t.Errorf("Status = %s, want %s", resp.Status, model.StatusGenerated)
	}
	if renderer.calls != 1 {
		t.Errorf("Renderer called %d times after unrelated chat, want 1", renderer.calls)
	}
}

func TestChatTemplateSwitchPreservesImage(t *testing.T) {
	renderer := &stubRenderer{}
	router := newTestRouter(renderer)

	_, resp := postChat(t, router, model.ChatRequest{
		UserPrompt: "use template 2 with image https://example.com/house.jpg",
	})
	if resp.TemplateVersion != 2 {
		t.Fatalf("TemplateVersion = %d, want 2", resp.TemplateVersion)
	}

	// Switching via the explicit request field keeps the image URL, so
	// template 3 is immediately ready as well
	_, resp = postChat(t, router, model.ChatRequest{
		SessionID:       resp.SessionID,
		UserPrompt:      "let me try the other one",
		TemplateVersion: 3,
	})
	if resp.TemplateVersion != 3 {
		t.Errorf("TemplateVersion = %d, want 3", resp.TemplateVersion)
	}
	if resp.Status != model.StatusReadyToGenerate {
		t.Errorf("Status = %s, want %s", resp.Status, model.StatusReadyToGenerate)
	}
}

func TestChatValidation(t *testing.T) {
	router := newTestRouter(&stubRenderer{})

	code, _ := postChat(t, router, model.ChatRequest{UserPrompt: ""})
	if code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want 400", code)
	}

	code, _ = postChat(t, router, model.ChatRequest{UserPrompt: "hello", TemplateVersion: 7})
	if code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want 400", code)
	}
}

func TestListTemplates(t *testing.T) {
	router := newTestRouter(&stubRenderer{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status code = %d, want 200", w.Code)
	}

	var resp model.TemplateListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(resp.Templates) != 3 {
		t.Fatalf("Expected 3 templates, got %d", len(resp.Templates))
	}
	if resp.Templates[1].Name != "House Agent" {
		t.Errorf("Template 2 name = %q", resp.Templates[1].Name)
	}
	if len(resp.Templates[0].RequiredElements) != 2 {
		t.Errorf("Template 1 required elements = %v", resp.Templates[0].RequiredElements)
	}
}
