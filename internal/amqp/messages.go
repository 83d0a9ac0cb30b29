package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds carried on the record events queue.
const (
	KindOrder         = "order"
	KindPost          = "post"
	KindScan          = "scan"
	KindExportRequest = "export_request"
)

// Message is the single envelope on the queue. Ingest announcements carry
// Kind and ID only, the worker fetches the full row from the database.
// Export requests carry the settlement period instead.
type Message struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id,omitempty"`
	Year      int       `json:"year,omitempty"`
	Month     int       `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordIngested creates an ingest announcement for a persisted record
func NewRecordIngested(kind string, id int64) *Message {
	return &Message{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// NewExportRequested creates an ad-hoc payout export request for a period
func NewExportRequested(year, month int) *Message {
	return &Message{
		Kind:      KindExportRequest,
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON creates a message from JSON bytes
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
