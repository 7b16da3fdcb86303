package model

import (
	"errors"
	"strings"
)

// MessageDirection tells who sent a message.
type MessageDirection string

const (
	DirectionOutbound MessageDirection = "outbound"
	DirectionInbound  MessageDirection = "inbound"
)

// MessageRecord is a stored WhatsApp message shown in a patient's history.
// SentAt keeps the serialized form handed over by the storage layer.
type MessageRecord struct {
	ID        int64            `json:"id"`
	PatientID int64            `json:"patient_id"`
	Direction MessageDirection `json:"direction"`
	Template  string           `json:"template,omitempty"`
	Body      string           `json:"body"`
	SentAt    string           `json:"sent_at"`
}

// MessageRecordCreateRequest is the input for recording an outbound message.
type MessageRecordCreateRequest struct {
	PatientID int64
	Template  string
	Body      string
}

func (p MessageRecordCreateRequest) Validate() error {
	if p.PatientID == 0 {
		return errors.New("patient_id is required")
	}
	if strings.TrimSpace(p.Body) == "" {
		return errors.New("body is required")
	}
	return nil
}

// MessageFilter controls history queries.
type MessageFilter struct {
	PatientID int64
	Direction *MessageDirection
	Limit     int // default 50
	Offset    int
}
