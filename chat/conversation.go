// Package chat implements the question pipeline behind the card comparison
// site's chat widget: conversation validation, rate limiting, search query
// derivation, the Perplexity call with bounded retries, and markdown cleanup
// of the model's answer.
package chat

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// ValidateConversation checks the shape the upstream API requires: ignoring
// system turns, roles must strictly alternate and the conversation must end
// on a user turn. An empty or system-only conversation is fine because the
// generator injects the system prompt and the user turn arrives with the
// request.
func ValidateConversation(turns []Turn) error {
	conversational := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role != RoleSystem {
			conversational = append(conversational, t)
		}
	}
	if len(conversational) == 0 {
		return nil
	}

	for i := 1; i < len(conversational); i++ {
		if conversational[i].Role == conversational[i-1].Role {
			return NewChatError(ErrorTypeInvalidStructure,
				"messages must alternate between user and assistant", nil)
		}
	}

	if conversational[len(conversational)-1].Role != RoleUser {
		return NewChatError(ErrorTypeInvalidStructure,
			"last message must be from user", nil)
	}

	return nil
}

// lastUserContent returns the content of the final user turn, or "".
func lastUserContent(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content
		}
	}
	return ""
}
