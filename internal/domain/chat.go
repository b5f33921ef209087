package domain

// Turn roles, matching the chat-completion wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Intent is the classified purpose of an inbound message.
type Intent int

const (
	IntentGeneral Intent = iota
	IntentNutrition
	IntentGift
)

// String returns the intent name used in logs and metrics labels.
func (i Intent) String() string {
	switch i {
	case IntentNutrition:
		return "nutrition"
	case IntentGift:
		return "gift"
	default:
		return "general"
	}
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply payload for POST /chat.
type ChatResponse struct {
	Response   string   `json:"response"`
	References []string `json:"references"`
	SessionID  string   `json:"session_id"`
}
