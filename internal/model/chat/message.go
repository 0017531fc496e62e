package chat

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// BotReply is the canned answer appended after every accepted user message.
const BotReply = "Thank you! We'll get back to you."

// Message is a single transcript entry. Values are never mutated after creation.
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Seed returns the transcript shown before any interaction.
func Seed() []Message {
	return []Message{
		{Text: "Hello!", Sender: SenderBot},
		{Text: "Hi, I need help.", Sender: SenderUser},
		{Text: "Sure, what can I do for you?", Sender: SenderBot},
	}
}
