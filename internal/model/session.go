package model

import "time"

// Message roles in the chat history
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Status represents the conversation status of a session
type Status string

// Session statuses
const (
	StatusAwaitingInput   Status = "AWAITING_INPUT"
	StatusCollectingInfo  Status = "COLLECTING_INFO"
	StatusReadyToGenerate Status = "READY_TO_GENERATE"
	StatusGenerated       Status = "GENERATED"
)

// Message is a single role-tagged entry in the chat history
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationResult holds the outcome of a successful poster render
type GenerationResult struct {
	URL             string `json:"url"`
	Status          string `json:"status"`
	TemplateID      string `json:"template_id"`
	TemplateVersion int    `json:"template_version"`
	OriginalImage   string `json:"original_image,omitempty"`
	Mock            bool   `json:"mock_generation,omitempty"`
}

// Session holds all turn-to-turn state for one conversation.
// It is created on the first message and mutated every turn; access
// must be serialized per session (see repository.SessionStore).
type Session struct {
	ID                string
	History           []Message
	ActiveTemplate    int
	Parameters        map[string]string
	GenerationResult  *GenerationResult
	Status            Status
	ForceRegeneration bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const systemPrompt = "You are a helpful real estate poster design assistant. " +
	"You help users create customized real estate poster templates. " +
	"You can create posters using three different templates. " +
	"You will ask for details about their real estate listing and " +
	"help them customize the poster design."

// NewSession creates a session with the initial system prompt
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		History:        []Message{{Role: RoleSystem, Content: systemPrompt}},
		ActiveTemplate: 1,
		Parameters:     map[string]string{},
		Status:         StatusAwaitingInput,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Append adds a message to the chat history
func (s *Session) Append(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
	s.UpdatedAt = time.Now()
}
