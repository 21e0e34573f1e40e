package services

import (
	"encoding/json"
	"log"

	"bookswap/pkg/rabbitmq"
)

// Swap lifecycle event types published after successful mutations. Consumers
// subscribe to these instead of polling a shared refresh flag.
const (
	EventBookCreated     = "book.created"
	EventBookDeleted     = "book.deleted"
	EventRequestCreated  = "request.created"
	EventRequestAccepted = "request.accepted"
	EventRequestDeclined = "request.declined"
)

// publishEvent marshals payload and publishes it as eventType. A nil client
// skips publication and publish failures only log, the mutation has already
// committed.
func publishEvent(mq *rabbitmq.Client, eventType string, payload map[string]interface{}) {
	if mq == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := mq.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
