package dto

// AssistantChatRequest is one turn of the career-helper conversation.
// State carries the client's current conversation state; empty means a
// fresh conversation starting at the welcome state.
type AssistantChatRequest struct {
	Message string   `json:"message" validate:"required,max=2000"`
	Skills  []string `json:"skills" validate:"omitempty,dive,min=1,max=80"`
	State   string   `json:"state" validate:"omitempty,oneof=welcome help-category complaint-category guidance-category"`
}

// AssistantChatResponse carries the scripted (or model-generated) reply and
// the state the conversation moved to.
type AssistantChatResponse struct {
	Reply string `json:"reply"`
	State string `json:"state"`
}
