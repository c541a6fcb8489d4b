package amqp

import (
	"encoding/json"
	"time"
)

// CategorizeMessage asks the worker to label one stored transaction. It
// carries only the id; the worker fetches the row from the database.
type CategorizeMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCategorizeMessage(id int64) *CategorizeMessage {
	return &CategorizeMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *CategorizeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CategorizeMessageFromJSON(data []byte) (*CategorizeMessage, error) {
	var msg CategorizeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
