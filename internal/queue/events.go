package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const TopicCustomerEvents = "customer_events"

type CustomerCreatedEvent struct {
	CustomerID int64     `json:"customer_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// DecodeCustomerCreated accepts the event as published in memory or as a JSON body from AMQP.
func DecodeCustomerCreated(payload any) (CustomerCreatedEvent, error) {
	switch p := payload.(type) {
	case CustomerCreatedEvent:
		return p, nil
	case *CustomerCreatedEvent:
		if p == nil {
			return CustomerCreatedEvent{}, fmt.Errorf("nil customer event")
		}
		return *p, nil
	case []byte:
		var ev CustomerCreatedEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			return CustomerCreatedEvent{}, fmt.Errorf("invalid customer event: %w", err)
		}
		return ev, nil
	}
	return CustomerCreatedEvent{}, fmt.Errorf("unexpected payload type %T", payload)
}

// StartCustomerEventLogger subscribes a handler that logs every customer event.
// Malformed payloads are logged and acknowledged, never retried.
func StartCustomerEventLogger(q Queue) error {
	err := q.Subscribe(TopicCustomerEvents, func(payload any) error {
		ev, err := DecodeCustomerCreated(payload)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ Invalid customer event")
			return nil
		}

		log.Info().
			Int64("customer_id", ev.CustomerID).
			Str("email", ev.Email).
			Time("created_at", ev.CreatedAt).
			Msg("📩 customer created")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to start subscriber for %s: %w", TopicCustomerEvents, err)
	}
	return nil
}
