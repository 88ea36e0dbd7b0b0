// Package prompt holds the pure prompt pipeline: synthesizing the system
// instruction from generation preferences and assembling the message list
// for one completion call. Everything here is deterministic and free of
// side effects.
package prompt

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/quip-agent/internal/domain"
)

const (
	persona = "You are a witty, clean programming comedian."

	contentConstraint = "Tell programming-related jokes only."

	safetyConstraint = "Avoid profanity, stereotypes, or sensitive content."

	deliveryHint = "Be clever, concise, and punchy. If the user asks for multiple jokes, number them."
)

// Length directives keyed by the closed length set. Anything outside the set
// falls back to the generic guidance.
const (
	guidanceShort   = "Keep it to 1-2 lines."
	guidanceMedium  = "Keep it to ~3-5 lines."
	guidanceLong    = "You can go up to ~8 lines, but stay punchy."
	guidanceDefault = "Keep it concise."
)

// BuildSystemPrompt synthesizes the single system instruction for the
// completion service: persona, content constraint, style and topic focus,
// a length directive, and the fixed safety and formatting rules.
func BuildSystemPrompt(style domain.JokeStyle, topic string, length domain.JokeLength) string {
	parts := []string{
		persona,
		contentConstraint,
		fmt.Sprintf("Style preference: %s.", style),
		fmt.Sprintf("If a topic is provided, focus on: %s.", topic),
		lengthGuidance(length),
		safetyConstraint,
		deliveryHint,
	}
	return strings.Join(parts, " ")
}

func lengthGuidance(length domain.JokeLength) string {
	switch length {
	case domain.LengthShort:
		return guidanceShort
	case domain.LengthMedium:
		return guidanceMedium
	case domain.LengthLong:
		return guidanceLong
	default:
		return guidanceDefault
	}
}

// BuildRequestMessages assembles the payload for one completion call: the
// system instruction first, then every conversation message in original
// order. The whole history is resent on every call; nothing is filtered,
// truncated, or deduplicated.
func BuildRequestMessages(systemPrompt string, history []*domain.Message) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, domain.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return messages
}

// JokeRequestText renders the structured trigger as a user message, with the
// style lowercased the way the sidebar button words it.
func JokeRequestText(style domain.JokeStyle, topic string) string {
	return fmt.Sprintf("Tell me a %s joke about %s.", strings.ToLower(string(style)), topic)
}
