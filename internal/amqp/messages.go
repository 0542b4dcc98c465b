package amqp

import (
	"encoding/json"
	"time"
)

// Operations carried by TransactionChangedMessage.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// TransactionChangedMessage tells the insight worker that a user's
// transaction history changed. It carries only the user id; the worker
// reads the current history from the store.
type TransactionChangedMessage struct {
	UserID    string    `json:"user_id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionChangedMessage(userID, op string) *TransactionChangedMessage {
	return &TransactionChangedMessage{
		UserID:    userID,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionChangedMessageFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
