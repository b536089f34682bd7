package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SyncRequestPayload asks the worker to run one reconciliation pass.
// CampaignID is empty for whole-account syncs.
type SyncRequestPayload struct {
	RunID      string `json:"run_id"`
	UserID     string `json:"user_id"`
	CampaignID string `json:"campaign_id,omitempty"`
	Reason     string `json:"reason"` // add_prospects, remove_prospects, scheduled
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishSyncRequest(ctx context.Context, payload SyncRequestPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sync request: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // survives a broker restart
		},
	)
	if err != nil {
		return fmt.Errorf("publish sync request: %w", err)
	}

	return nil
}
