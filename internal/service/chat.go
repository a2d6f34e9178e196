package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"core/internal/model"
	"core/internal/repository"

	"github.com/google/uuid"
)

// ChatService runs the full turn pipeline for incoming chat messages:
// session lookup, template switching, turn processing, requirement
// checking, conditional generation, and reply composition.
type ChatService struct {
	sessions  *repository.SessionStore
	generator *Generator
	composer  *ReplyComposer
	audit     *repository.PostgresRepository
}

// NewChatService creates the chat orchestration service; audit may be nil
func NewChatService(
	sessions *repository.SessionStore,
	generator *Generator,
	composer *ReplyComposer,
	audit *repository.PostgresRepository,
) *ChatService {
	return &ChatService{
		sessions:  sessions,
		generator: generator,
		composer:  composer,
		audit:     audit,
	}
}

// Chat processes one user message to completion and returns the reply.
// Turns for the same session are serialized; failures surface as chat
// messages, never as a dropped reply.
func (s *ChatService) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	startTime := time.Now()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sess, created, release := s.sessions.Acquire(sessionID)
	defer release()

	if created {
		sess.Append(model.RoleSystem,
			"Start the conversation by introducing yourself and providing the following template information: "+welcomeIntroduction())
	}

	// Template switching at this layer preserves the image URL so the
	// user does not have to repeat it after trying another design.
	requested := req.TemplateVersion
	if requested == 0 {
		if n, ok := DetectTemplateSignal(req.UserPrompt); ok {
			requested = n
		}
	}
	if requested >= 1 && requested <= 3 && requested != sess.ActiveTemplate {
		s.switchTemplate(sess, requested)
	}

	sess.Append(model.RoleUser, req.UserPrompt)

	turn := ProcessTurn(sess, req.UserPrompt)
	CheckRequirements(sess)

	shouldGenerate := sess.ForceRegeneration ||
		(sess.Status == model.StatusReadyToGenerate &&
			(turn.RegenerationIntent || turn.ResultIntent) &&
			sess.GenerationResult == nil)

	if shouldGenerate {
		s.generator.Generate(ctx, sess)
		s.logRender(sess)
	} else if turn.ResultIntent && sess.GenerationResult != nil {
		// The poster already exists; surface the stored URL instead of
		// re-invoking the rendering service.
		sess.Append(model.RoleSystem, fmt.Sprintf(
			"The user is asking for the poster URL for Template %d. Here it is: %s%s",
			sess.ActiveTemplate, sess.GenerationResult.URL, mockNote(sess.GenerationResult)))
	}

	// The force flag is one-shot: consumed by generation or reset here,
	// never carried into the next turn.
	sess.ForceRegeneration = false

	reply := s.composer.Compose(ctx, sess)
	sess.Append(model.RoleAssistant, reply)

	resp := &model.ChatResponse{
		SessionID:       sessionID,
		Response:        reply,
		Status:          sess.Status,
		TemplateVersion: sess.ActiveTemplate,
	}

	if s.audit != nil {
		took := int(time.Since(startTime).Milliseconds())
		version := sess.ActiveTemplate
		status := string(sess.Status)
		go func() {
			if err := s.audit.LogTurn(context.Background(), sessionID, req.UserPrompt, reply, version, status, took); err != nil {
				log.Printf("Failed to log chat turn: %v", err)
			}
		}()
	}

	return resp, nil
}

// switchTemplate changes the active template, clearing parameters but
// preserving the image URL. A previously generated poster forces a
// regeneration under the new template.
func (s *ChatService) switchTemplate(sess *model.Session, requested int) {
	log.Printf("Switching session %s from Template %d to Template %d", sess.ID, sess.ActiveTemplate, requested)

	imageURL := sess.Parameters[model.ParamImageURL]

	sess.ActiveTemplate = requested
	sess.Parameters = map[string]string{}
	if imageURL != "" {
		sess.Parameters[model.ParamImageURL] = imageURL
		log.Printf("Preserved image URL during template switch: %s", imageURL)
	}
	sess.Status = model.StatusCollectingInfo
	if sess.GenerationResult != nil {
		sess.GenerationResult = nil
		sess.ForceRegeneration = true
	}

	sess.Append(model.RoleSystem, fmt.Sprintf("User has switched to Template %d.", requested))
}

// logRender records a completed generation attempt in the audit log
func (s *ChatService) logRender(sess *model.Session) {
	if s.audit == nil || sess.GenerationResult == nil {
		return
	}
	result := *sess.GenerationResult
	sessionID := sess.ID
	go func() {
		if err := s.audit.LogRender(context.Background(), sessionID, result.TemplateVersion, result.URL, result.Status, result.Mock); err != nil {
			log.Printf("Failed to log render: %v", err)
		}
	}()
}

// mockNote annotates development-mode results
func mockNote(result *model.GenerationResult) string {
	if result != nil && result.Mock {
		return " (This is a preview since you're using development API keys)"
	}
	return ""
}

// welcomeIntroduction builds the template catalog introduction appended to
// new sessions
func welcomeIntroduction() string {
	var b strings.Builder
	b.WriteString("Welcome! I can help you create real estate poster templates. Here are the templates I can work with:\n\n")
	for _, t := range model.Templates() {
		fmt.Fprintf(&b, "Template %d: %s\n", t.ID, t.Name)
		fmt.Fprintf(&b, "   %s\n", t.Description)
		fmt.Fprintf(&b, "   Preview: %s\n\n", t.PreviewURL)
	}
	b.WriteString("Please select a template number (1, 2, or 3) to get started, or tell me more about what you're looking for!")
	return b.String()
}
