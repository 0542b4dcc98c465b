package amqp

import (
	"testing"
	"time"
)

func TestNewTransactionChangedMessage(t *testing.T) {
	before := time.Now()
	msg := NewTransactionChangedMessage("user-1", OpCreate)
	after := time.Now()

	if msg.UserID != "user-1" {
		t.Errorf("UserID = %q", msg.UserID)
	}
	if msg.Op != OpCreate {
		t.Errorf("Op = %q", msg.Op)
	}
	if msg.Timestamp.Before(before) || msg.Timestamp.After(after) {
		t.Errorf("Timestamp %v outside [%v, %v]", msg.Timestamp, before, after)
	}
}

func TestTransactionChangedMessageRoundTrip(t *testing.T) {
	msg := NewTransactionChangedMessage("user-2", OpDelete)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	decoded, err := TransactionChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if decoded.UserID != msg.UserID || decoded.Op != msg.Op {
		t.Errorf("decoded = %+v, want %+v", decoded, msg)
	}
}

func TestTransactionChangedMessageInvalidJSON(t *testing.T) {
	if _, err := TransactionChangedMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
