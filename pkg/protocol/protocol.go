package protocol

import (
	"encoding/json"
	"errors"
)

// MessageType defines the type of message exchanged over a connection
type MessageType string

const (
	// Administrative messages, consumed by the relay itself
	TypeGetClientName       MessageType = "get-client-name"
	TypeSetClientName       MessageType = "set-client-name"
	TypeSetClientURL        MessageType = "set-client-url"
	TypeSetClientParameters MessageType = "set-client-parameters"
	TypeHello               MessageType = "hello"
	TypeRemoteLog           MessageType = "ontime-log"

	// Server to client messages
	TypeOntime     MessageType = "ontime"
	TypeClientName MessageType = "client-name"
)

// MaxPayload is the maximum accepted frame size in bytes. Frames above
// this limit cause the connection to be closed without a reply.
const MaxPayload = 1024 * 256

// HelloReply is the literal acknowledgment sent in response to a hello frame.
const HelloReply = "hi"

// OriginWS tags forwarded commands as originating from the websocket transport.
const OriginWS = "ws"

// ErrMalformed is returned when inbound data cannot be decoded as a frame.
var ErrMalformed = errors.New("malformed frame")

// Message is the envelope for all frames: a type naming the action and an
// opaque payload carrying whatever the action needs.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a message with the payload marshaled in place
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return &Message{Type: msgType, Payload: raw}, nil
}

// Decode parses raw frame data into a message. Frames that are not valid
// JSON or carry no type are malformed.
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, ErrMalformed
	}
	if msg.Type == "" {
		return nil, ErrMalformed
	}
	return &msg, nil
}

// Encode serializes the message for the wire
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// ParsePayload unmarshals the payload into the given value
func (m *Message) ParsePayload(v interface{}) error {
	if len(m.Payload) == 0 {
		return ErrMalformed
	}
	return json.Unmarshal(m.Payload, v)
}

// PayloadString extracts the payload as a non-empty string. Returns false
// for absent, null, empty or non-string payloads.
func (m *Message) PayloadString() (string, bool) {
	if len(m.Payload) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(m.Payload, &s); err != nil {
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// HasPayload reports whether the message carries a payload other than null
func (m *Message) HasPayload() bool {
	if len(m.Payload) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(m.Payload, &v); err != nil {
		return false
	}
	return v != nil
}

// IsAdministrative reports whether the type is reserved for the relay core
// and must never be forwarded to an external processor
func IsAdministrative(t MessageType) bool {
	switch t {
	case TypeGetClientName, TypeSetClientName, TypeSetClientURL,
		TypeSetClientParameters, TypeHello, TypeRemoteLog:
		return true
	}
	return false
}

// RemoteLogPayload carries a log line emitted by a client
type RemoteLogPayload struct {
	Level  string `json:"level"`
	Origin string `json:"origin"`
	Text   string `json:"text"`
}

// ClientNameMessage builds the client-name reply for an identity
func ClientNameMessage(identity string) *Message {
	msg, _ := NewMessage(TypeClientName, identity)
	return msg
}
