package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Rollout/internal/domain"
)

// EventType — тип события в очереди.
type EventType string

// Типы событий.
const (
	EventTypeRunStarted   EventType = "run.started"
	EventTypeRunCompleted EventType = "run.completed"
	EventTypeRunAborted   EventType = "run.aborted"
)

// Event — сообщение для публикации.
type Event struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип события.
	Type EventType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// RunStartedPayload — payload для события о начале run.
type RunStartedPayload struct {
	RunID    uuid.UUID `json:"run_id"`
	Pipeline string    `json:"pipeline"`
}

// RunFinishedPayload — payload для события о завершении run.
type RunFinishedPayload struct {
	RunID    uuid.UUID  `json:"run_id"`
	Pipeline string     `json:"pipeline"`
	Status   string     `json:"status"` // COMPLETED или ABORTED
	Error    string     `json:"error,omitempty"`
	Steps    []StepInfo `json:"steps"`
}

// StepInfo — краткий исход шага в событии завершения.
type StepInfo struct {
	StepID    string `json:"step_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	ExitCode  int    `json:"exit_code"`
	Tolerated bool   `json:"tolerated,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Publisher публикует события runs в RabbitMQ.
//
// rollout — короткоживущий процесс: соединение открывается один раз
// на запуск и закрывается в конце; reconnect не нужен.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

// NewPublisher подключается к RabbitMQ и объявляет топологию.
func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// Publish публикует событие с указанным routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey RoutingKey, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		string(ExchangeRuns), // exchange
		string(routingKey),   // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // событие переживёт рестарт RabbitMQ
			MessageId:    event.ID,
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", ExchangeRuns, routingKey, err)
	}

	p.logger.Debug("published event",
		"routing_key", routingKey,
		"message_id", event.ID,
		"type", event.Type,
	)

	return nil
}

// RunStarted публикует событие о начале run.
func (p *Publisher) RunStarted(ctx context.Context, run *domain.Run) error {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      EventTypeRunStarted,
		Payload:   RunStartedPayload{RunID: run.ID, Pipeline: run.Pipeline},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, RoutingKeyStarted, event)
}

// RunFinished публикует событие о завершении run (COMPLETED или ABORTED).
func (p *Publisher) RunFinished(ctx context.Context, run *domain.Run, results []*domain.StepResult) error {
	steps := make([]StepInfo, len(results))
	for i, sr := range results {
		steps[i] = StepInfo{
			StepID:    sr.StepID,
			Name:      sr.Name,
			Status:    string(sr.Status),
			ExitCode:  sr.ExitCode,
			Tolerated: sr.Tolerated,
			Message:   sr.Message,
		}
	}

	eventType := EventTypeRunCompleted
	routingKey := RoutingKeyCompleted
	if run.Status == domain.RunStatusAborted {
		eventType = EventTypeRunAborted
		routingKey = RoutingKeyAborted
	}

	event := &Event{
		ID:   uuid.New().String(),
		Type: eventType,
		Payload: RunFinishedPayload{
			RunID:    run.ID,
			Pipeline: run.Pipeline,
			Status:   string(run.Status),
			Error:    run.Error,
			Steps:    steps,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, routingKey, event)
}
