package domain

import "time"

type MessageID string
type JournalEntryID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Timestamp = time.Time

// GreetingMessageID is the reserved id of the first message of every fresh history.
const GreetingMessageID MessageID = "greeting"

// ContextWindowSize is how many recent messages are sent as conversational grounding.
const ContextWindowSize = 20
