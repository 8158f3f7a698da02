package models

// ChatMessage is a single turn of the conversation as the client keeps it.
// The conversation itself is ephemeral: the service never stores it, the
// client resends the full history with every request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// MediaFile describes an attached file. Only the descriptor travels to the
// service, never the bytes: previews stay in the client.
type MediaFile struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// EditRequest is what the chat endpoint receives from the client.
type EditRequest struct {
	Messages     []ChatMessage
	MediaContext []MediaFile
	EditRequest  string
	Carousel     bool
}

// EditResult carries the assistant reply together with the balance left
// after the usage debit, so the client can refresh its cached value without
// an extra round trip.
type EditResult struct {
	Message string
	Credits int
}
