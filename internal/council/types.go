// ABOUTME: Domain types for council conversations, messages, and personas.
// ABOUTME: JSON tags match the backend wire shapes so fetches decode directly.

package council

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Persona is a persona identity record: the name/role/icon/model/prompt
// tuple the backend binds a council seat to. Replies carry a Persona
// snapshot rather than a reference so the target identity is fixed at the
// moment the user chose to reply.
type Persona struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// PersonaResponse is one model's contribution to a stage. Immutable once
// constructed. The persona fields are optional; DisplayName falls back to
// the raw model identifier when no persona name was assigned.
type PersonaResponse struct {
	Model        string `json:"model"`
	PersonaName  string `json:"persona_name,omitempty"`
	PersonaRole  string `json:"persona_role,omitempty"`
	PersonaIcon  string `json:"persona_icon,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	Response     string `json:"response"`
}

// DisplayName returns the persona name, or the model identifier when the
// response carries no persona.
func (r PersonaResponse) DisplayName() string {
	if r.PersonaName != "" {
		return r.PersonaName
	}
	return r.Model
}

// Identity captures the persona snapshot used to address a reply at this
// response's author.
func (r PersonaResponse) Identity() Persona {
	return Persona{
		Name:         r.PersonaName,
		Role:         r.PersonaRole,
		Icon:         r.PersonaIcon,
		Model:        r.Model,
		SystemPrompt: r.SystemPrompt,
	}
}

// Loading records which stages of an assistant message are still pending.
// A flag is true iff the corresponding slot is absent and the stream has
// not terminated or failed.
type Loading struct {
	Stage1 bool `json:"stage1"`
	Stage2 bool `json:"stage2"`
	Stage3 bool `json:"stage3"`
}

// Any reports whether any stage is still pending.
func (l Loading) Any() bool {
	return l.Stage1 || l.Stage2 || l.Stage3
}

// Message is one entry in a conversation. User messages use Content;
// assistant messages use the stage slots. The streaming-state fields
// (Loading, Complete, Failed, FailureReason) are client-side only and are
// not part of the wire representation.
type Message struct {
	Role    string            `json:"role"`
	Content string            `json:"content,omitempty"`
	Stage1  []PersonaResponse `json:"stage1,omitempty"`
	Stage2  []PersonaResponse `json:"stage2,omitempty"`
	Stage3  *PersonaResponse  `json:"stage3,omitempty"`

	Loading       Loading `json:"-"`
	Complete      bool    `json:"-"`
	Failed        bool    `json:"-"`
	FailureReason string  `json:"-"`
}

// Conversation is an ordered message sequence owned by the caller. The
// backend serializes created_at as an ISO timestamp string; the client
// treats it as opaque.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt string    `json:"created_at"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
}

// ConversationMetadata is the list-view projection of a conversation.
type ConversationMetadata struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
}

// AppendUser appends a user message and returns its index.
func (c *Conversation) AppendUser(content string) int {
	c.Messages = append(c.Messages, Message{
		Role:    RoleUser,
		Content: content,
	})
	return len(c.Messages) - 1
}

// AppendPendingAssistant appends an assistant message with every stage
// pending and returns its index. Callers do this synchronously before
// opening a stream so renderers can show the loading state immediately.
func (c *Conversation) AppendPendingAssistant() int {
	c.Messages = append(c.Messages, Message{
		Role:    RoleAssistant,
		Loading: Loading{Stage1: true, Stage2: true, Stage3: true},
	})
	return len(c.Messages) - 1
}

// LastAssistant returns the index of the most recent assistant message, or
// -1 if there is none.
func (c *Conversation) LastAssistant() int {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return i
		}
	}
	return -1
}
