package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message represents a single Slack message as returned by the
// conversations.history and conversations.replies endpoints. The timestamp
// fields that drive pagination and thread expansion are extracted up front;
// everything else (text, user, attachments, reactions, ...) is kept verbatim
// in an open field map so the export preserves whatever the API sent.
type Message struct {
	// TS is the message timestamp, a stringified float that is unique
	// within a channel and serves as the message identifier.
	TS string

	// ThreadTS, when non-empty, is the TS of the thread's root message.
	// A root message carries its own TS here.
	ThreadTS string

	fields map[string]any
}

// UnmarshalJSON decodes a message while retaining every field. Numbers are
// decoded as json.Number so re-encoding reproduces the original literals.
func (m *Message) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}

	ts, ok := fields["ts"].(string)
	if !ok {
		return fmt.Errorf("message has no ts field")
	}

	m.TS = ts
	m.ThreadTS, _ = fields["thread_ts"].(string)
	m.fields = fields
	return nil
}

// Fields returns the complete decoded field map, including ts and
// thread_ts. The map is shared, not copied; callers must not mutate it.
func (m Message) Fields() map[string]any {
	return m.fields
}

// IsThreadRoot reports whether the message is the root of a thread.
func (m Message) IsThreadRoot() bool {
	return m.ThreadTS != "" && m.ThreadTS == m.TS
}

// NewMessage builds a message from an explicit field map. Intended for
// tests; production messages come from UnmarshalJSON.
func NewMessage(fields map[string]any) (Message, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return Message{}, err
	}
	var m Message
	if err := m.UnmarshalJSON(data); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Channel represents a Slack conversation from conversations.list. Channels
// are only consumed, never re-serialized, so a closed struct is enough.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// User is the counterpart user ID for direct-message channels, which
	// have no name of their own.
	User string `json:"user"`
	IsIM bool   `json:"is_im"`
}

// User represents a workspace member from users.list.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
