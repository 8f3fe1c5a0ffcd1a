package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)

func Marshal(env events.Envelope) ([]byte, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return b, nil
}

func UnmarshalEnvelope(b []byte) (events.Envelope, error) {
	var env events.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return events.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// Header returns the value of the first header named key.
func Header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
