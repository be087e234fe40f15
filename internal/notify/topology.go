package notify

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// ExchangeRuns — обменник событий жизненного цикла runs.
const ExchangeRuns Exchange = "rollout.runs"

// Routing keys.
const (
	RoutingKeyStarted   RoutingKey = "started"
	RoutingKeyCompleted RoutingKey = "completed"
	RoutingKeyAborted   RoutingKey = "aborted"
)

// setupTopology объявляет durable direct exchange для событий runs.
// Очереди и привязки — на стороне потребителей (CI-дашборды, чат-боты).
func setupTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		string(ExchangeRuns), // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeRuns, err)
	}
	return nil
}
