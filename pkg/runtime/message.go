package runtime

// MessageType represents the type of a server→client message.
type MessageType string

const (
	// MessageUpdate carries self-contained runtime code for one module.
	MessageUpdate MessageType = "update"

	// MessageReload instructs a full page reload, no payload.
	MessageReload MessageType = "reload"

	// MessageError shows a build error overlay on browser clients.
	MessageError MessageType = "error"

	// MessageClear clears the error overlay.
	MessageClear MessageType = "clear"
)

// Message is one logical update on the wire, JSON encoded.
type Message struct {
	Type  MessageType `json:"type"`
	ID    string      `json:"id,omitempty"`
	Body  string      `json:"body,omitempty"`
	Error string      `json:"error,omitempty"`
}
