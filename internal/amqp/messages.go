package amqp

import (
	"encoding/json"
	"time"
)

// Sync actions carried on the queue.
const (
	ActionSync   = "sync"
	ActionDelete = "delete"
)

// TransactionSyncMessage is a lightweight message for syncing a transaction
// to Google Sheets. It carries only the ID, action and version; the worker
// fetches the full transaction from the database.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage creates a sync message for a created transaction
func NewTransactionSyncMessage(id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Action:    ActionSync,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// NewTransactionDeleteMessage creates a message propagating a removal
func NewTransactionDeleteMessage(id int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Action:    ActionDelete,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Action == "" {
		msg.Action = ActionSync
	}
	return &msg, nil
}
