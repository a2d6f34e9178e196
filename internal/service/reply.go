package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"core/internal/model"
)

// ReplyComposer turns the session state into a natural-language reply.
// It consumes the status and accumulated parameters and produces the
// assistant message appended by the API layer.
type ReplyComposer struct {
	ai *OpenAIClient
}

// NewReplyComposer creates a reply composer backed by an OpenAI-compatible
// chat model; ai may be nil, in which case deterministic fallback replies
// are used so the user always receives one.
func NewReplyComposer(ai *OpenAIClient) *ReplyComposer {
	return &ReplyComposer{ai: ai}
}

const composerSystemTemplate = `You are a helpful real estate poster design assistant.
You help users create customized real estate poster templates using three different templates:

Template 1: Modern Home - Includes labels like MODERN, HOME, FOR SALE, START FROM, price, and a BUY NOW button
Template 2: House Agent - Has sections for HOUSE AGENT, tagline, information header, and contact info
Template 3: Best Home - Features multiple images, title sections, and an "I WANT" button

Current template: Template %d
Current status: %s

%s

Respond to the user in a friendly and helpful manner. Avoid technical jargon.`

// Status-specific instructions for the chat model
var collectingInstructions = map[int]string{
	1: `You need to collect the following information for Template 1:
1. A URL to an image of the property (required)
2. The property price (required)
3. Any customizations for text and colors (optional)

Template 1 has these customizable elements: MODERN, HOME, FOR SALE, START FROM,
price, BUY NOW button and website, each with text and color.

Ask the user about any missing information politely.`,
	2: `You need to collect the following information for Template 2:
1. A URL to an image of the property (required)
2. Any customizations for text and colors (optional)

Template 2 has these customizable elements: HOUSE AGENT text, tagline
(default: "modern | beautiful | technology"), information header
(default: "FOR MORE INFORMATION") and contact info
(default: "+123 456 7890 | www.lovehouse.com"), each with text and color.

Ask the user about any missing information politely.`,
	3: `You need to collect the following information for Template 3:
1. A URL to the main image of the property (required)
2. URLs for up to three additional property images (optional)
3. Any customizations for text and colors (optional)

Template 3 has these customizable elements: main title (default: "THE BEST HOME"),
second title (default: "FOR SALE"), button (default: "I WANT"), info
(default: "For more info, contact us") and website
(default: "www.housesforyou.com"), each with text and color.

Ask the user about any missing information politely.`,
}

// Compose produces the assistant reply for the current session state.
// It never fails: if the chat model is unavailable or errors, a
// deterministic reply is composed instead.
func (r *ReplyComposer) Compose(ctx context.Context, sess *model.Session) string {
	if !r.ai.IsEnabled() {
		return r.fallbackReply(sess)
	}

	messages := make([]ChatMessage, 0, len(sess.History)+1)
	messages = append(messages, ChatMessage{Role: model.RoleSystem, Content: r.systemInstruction(sess)})
	for _, m := range sess.History {
		messages = append(messages, ChatMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := r.ai.ChatCompletion(ctx, ChatCompletionRequest{Messages: messages})
	if err != nil {
		log.Printf("Reply composition failed for session %s: %v", sess.ID, err)
		return r.fallbackReply(sess)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("Reply composition returned no content for session %s", sess.ID)
		return r.fallbackReply(sess)
	}
	return resp.Choices[0].Message.Content
}

// systemInstruction builds the status-aware system prompt
func (r *ReplyComposer) systemInstruction(sess *model.Session) string {
	var statusMessage string
	switch sess.Status {
	case model.StatusReadyToGenerate:
		statusMessage = fmt.Sprintf(`You have all the necessary information to generate a poster template using Template %d.
You can offer to generate the poster or ask if they want to make any other customizations.

Remember to mention that the user can switch to a different template by saying "Use Template 1/2/3" if they prefer.`, sess.ActiveTemplate)
	case model.StatusGenerated:
		url := ""
		if sess.GenerationResult != nil {
			url = sess.GenerationResult.URL
		}
		statusMessage = fmt.Sprintf(`A poster template has been generated using Template %d. The URL to view it is:
%s

Ask if the user would like to make any changes or if they are satisfied with the result.
They can also try a different template by saying "Use Template 1/2/3".`, sess.ActiveTemplate, url)
	default:
		instr, ok := collectingInstructions[sess.ActiveTemplate]
		if !ok {
			instr = collectingInstructions[1]
		}
		statusMessage = instr
	}

	return fmt.Sprintf(composerSystemTemplate, sess.ActiveTemplate, sess.Status, statusMessage)
}

// fallbackReply composes a deterministic reply from the session state when
// no chat model is configured
func (r *ReplyComposer) fallbackReply(sess *model.Session) string {
	switch sess.Status {
	case model.StatusGenerated:
		if sess.GenerationResult != nil {
			note := ""
			if sess.GenerationResult.Mock {
				note = " (This is a preview since you're using development API keys)"
			}
			return fmt.Sprintf("Your Template %d poster is ready! View it here: %s%s. "+
				"Let me know if you'd like to change anything, or say \"Use Template 1/2/3\" to try another design.",
				sess.ActiveTemplate, sess.GenerationResult.URL, note)
		}
		return "Your poster has been generated. Let me know if you'd like to change anything."
	case model.StatusReadyToGenerate:
		return fmt.Sprintf("I have everything I need for Template %d. "+
			"Say \"generate\" to create your poster, or tell me any text or color customizations first.",
			sess.ActiveTemplate)
	default:
		missing := MissingParams(sess.ActiveTemplate, sess.Parameters)
		if len(missing) > 0 {
			needs := make([]string, 0, len(missing))
			for _, m := range missing {
				switch m {
				case model.ParamImageURL:
					needs = append(needs, "a URL to an image of the property")
				case model.ParamPropertyPrice:
					needs = append(needs, "the property price")
				default:
					needs = append(needs, m)
				}
			}
			return fmt.Sprintf("To build your Template %d poster I still need %s.",
				sess.ActiveTemplate, strings.Join(needs, " and "))
		}
		return fmt.Sprintf("Tell me about your listing and I'll build a Template %d poster for you.",
			sess.ActiveTemplate)
	}
}
