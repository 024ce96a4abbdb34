package chat

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/cardsage/cardsage/internal/logging"
)

// History bounds the token footprint of the conversation sent upstream.
type History struct {
	maxTokens int
	encoding  *tiktoken.Tiktoken
	logger    logging.Logger
}

// NewHistory creates a History with the given token budget. Token counts use
// the encoding for the given model, falling back to gpt-4o's encoding for
// models tiktoken does not know (Perplexity's among them). When no encoding
// can be loaded at all, counting degrades to a four-characters-per-token
// estimate rather than failing.
func NewHistory(maxTokens int, model string, logger logging.Logger) *History {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Warn("No encoding for model, defaulting to gpt-4o", "model", model, "error", err)
		encoding, err = tiktoken.EncodingForModel("gpt-4o")
		if err != nil {
			logger.Warn("Failed to load default encoding, using approximate token counts", "error", err)
			encoding = nil
		}
	}

	return &History{
		maxTokens: maxTokens,
		encoding:  encoding,
		logger:    logger,
	}
}

func (h *History) count(content string) int {
	if h.encoding == nil {
		return len(content)/4 + 1
	}
	return len(h.encoding.Encode(content, nil, nil))
}

// Trim returns the conversation reduced to the token budget. Conversational
// turns are dropped oldest-first in user/assistant pairs so the alternation
// the validator enforced still holds afterwards. System turns and the latest
// user turn always survive, even if that leaves the result over budget.
func (h *History) Trim(turns []Turn) []Turn {
	total := 0
	for _, t := range turns {
		total += h.count(t.Content)
	}
	if total <= h.maxTokens {
		return turns
	}

	kept := append([]Turn(nil), turns...)
	dropped := 0
	for total > h.maxTokens {
		removed := 0
		lastUser := lastUserIndex(kept)
		for i := 0; i < len(kept) && removed < 2; {
			if kept[i].Role == RoleSystem || i == lastUser {
				i++
				continue
			}
			total -= h.count(kept[i].Content)
			kept = append(kept[:i], kept[i+1:]...)
			lastUser = lastUserIndex(kept)
			removed++
			dropped++
		}
		if removed == 0 {
			break
		}
	}

	h.logger.Debug("Trimmed conversation history",
		"dropped_turns", dropped, "remaining_tokens", total, "budget", h.maxTokens)
	return kept
}

func lastUserIndex(turns []Turn) int {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return i
		}
	}
	return -1
}
