package domain

// ChatMessage is one entry of a persona's conversation.
//
// For assistant messages produced under the council, PersonaID names the
// sub-persona that authored the text, never PersonaCouncil itself.
type ChatMessage struct {
	ID        MessageID `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	PersonaID PersonaID `json:"personaId"`
	CreatedAt int64     `json:"timestamp"` // unix millis
}

// ChatHistory is the ordered message log of exactly one persona.
type ChatHistory []ChatMessage

// NewGreetingHistory returns the single-message history every persona starts with.
func NewGreetingHistory(p Persona, now Timestamp) ChatHistory {
	return ChatHistory{{
		ID:        GreetingMessageID,
		Role:      RoleAssistant,
		Text:      p.Greeting,
		PersonaID: p.ID,
		CreatedAt: now.UnixMilli(),
	}}
}

// Window returns the last n messages (all of them if there are fewer).
func (h ChatHistory) Window(n int) ChatHistory {
	if n <= 0 || len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// Clone returns an independent copy of h.
func (h ChatHistory) Clone() ChatHistory {
	if h == nil {
		return nil
	}
	out := make(ChatHistory, len(h))
	copy(out, h)
	return out
}

// Turns maps the history to the remote generation turn format.
func (h ChatHistory) Turns() []Turn {
	out := make([]Turn, 0, len(h))
	for _, m := range h {
		out = append(out, Turn{Role: m.Role, Text: m.Text})
	}
	return out
}
