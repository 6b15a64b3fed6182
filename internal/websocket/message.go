package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewErrorMessage encodes an error notification for one session.
func NewErrorMessage(text string) []byte {
	return encode(Message{Action: "error", Payload: text})
}

// NewEventMessage encodes a new-security-event notification.
func NewEventMessage(payload interface{}) []byte {
	return encode(Message{Action: "event.created", Payload: payload})
}

// NewReportGeneratedMessage encodes a report-ready notification.
func NewReportGeneratedMessage(payload interface{}) []byte {
	return encode(Message{Action: "report.generated", Payload: payload})
}

func encode(m Message) []byte {
	data, err := json.Marshal(m)
	if err != nil {
		return []byte(`{"action":"error","payload":"encoding failure"}`)
	}
	return data
}
