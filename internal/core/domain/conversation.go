package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is a known conversation role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is a single message within a conversation.
type Turn struct {
	// Role is who authored the turn.
	Role Role

	// Content is the message text.
	Content string

	// CreatedAt is when the turn was appended.
	CreatedAt time.Time
}

// Conversation is an ordered sequence of turns identified by ID.
// Only the most recent turns up to the configured window size are retained;
// older turns are evicted strictly first-in first-out.
type Conversation struct {
	// ID is the caller-assigned conversation identifier.
	ID string

	// Turns are the retained turns in append order.
	Turns []Turn
}
