package text

import "github.com/zenify/companion/internal/model"

// messageOverheadTokens approximates the per-message cost of role markers.
const messageOverheadTokens = 4

// Window selects the part of a conversation that fits a model's context budget.
type Window struct {
	MaxTokens int // Maximum tokens for the context window; 0 disables trimming
}

// NewWindow creates a Window with the given token budget.
func NewWindow(maxTokens int) *Window {
	return &Window{MaxTokens: maxTokens}
}

// EstimateTokens is a rough token count that holds up across common tokenizers.
func EstimateTokens(s string) int {
	return len(s)/3 + 1
}

// Select returns the system messages that open the conversation followed by the
// most recent other messages that fit the budget, in chronological order. The
// system messages are always kept, and so is the last message even when it
// alone exceeds the budget.
func (w *Window) Select(messages []model.ChatMessage) []model.ChatMessage {
	if w.MaxTokens <= 0 || len(messages) == 0 {
		return messages
	}

	head := 0
	used := 0
	for head < len(messages) && messages[head].Role == model.RoleSystem {
		used += EstimateTokens(messages[head].Content) + messageOverheadTokens
		head++
	}

	first := len(messages)
	for i := len(messages) - 1; i >= head; i-- {
		cost := EstimateTokens(messages[i].Content) + messageOverheadTokens
		if used+cost > w.MaxTokens && first < len(messages) {
			break
		}
		used += cost
		first = i
	}

	selected := make([]model.ChatMessage, 0, head+len(messages)-first)
	selected = append(selected, messages[:head]...)
	selected = append(selected, messages[first:]...)
	return selected
}
