package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces that some process rewrote a collection. It
// carries no payload beyond the origin instance and a timestamp;
// receivers re-read the store rather than trusting a snapshot.
type ChangeMessage struct {
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change announcement from the given instance
func NewChangeMessage(origin string) *ChangeMessage {
	return &ChangeMessage{
		Origin:    origin,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
