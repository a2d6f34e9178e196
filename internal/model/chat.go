package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ChatRequest represents an incoming chat message
type ChatRequest struct {
	SessionID       string `json:"session_id,omitempty"`
	UserPrompt      string `json:"user_prompt"`
	TemplateVersion int    `json:"template_version,omitempty"`
}

// Validate checks the chat request fields
func (r ChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserPrompt,
			validation.Required,
			validation.Length(1, 4000),
		),
		validation.Field(&r.TemplateVersion,
			validation.Min(0),
			validation.Max(3),
		),
	)
}

// ChatResponse represents the reply to a chat message
type ChatResponse struct {
	SessionID       string `json:"session_id"`
	Response        string `json:"response"`
	Status          Status `json:"status"`
	TemplateVersion int    `json:"template_version"`
}

// TemplateListResponse wraps the template catalog
type TemplateListResponse struct {
	Templates []TemplateInfo `json:"templates"`
}
