// Package branch implements the conversation branch tree: named
// append-only message logs that can be forked into isolated copies,
// merged back into an ancestor by blind delta append, and switched
// between through a single current pointer.
package branch

// Role identifies who produced a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable entry in a conversation log.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Equal reports structural equality (role and content both match).
func (m Message) Equal(o Message) bool {
	return m.Role == o.Role && m.Content == o.Content
}
