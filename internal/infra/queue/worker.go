package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SyncReport is what a finished run looks like to the worker and to the
// optional report mailer.
type SyncReport struct {
	RunID       string
	UserID      string
	CampaignID  string
	Synced      int
	Inserted    int
	Updated     int
	SoftDeleted int
	Failed      int
}

// SyncService runs one reconciliation pass for a queued request.
type SyncService interface {
	RunSync(ctx context.Context, payload SyncRequestPayload) (SyncReport, error)
}

// ReportSenderInterface delivers a run summary to the operator. Optional.
type ReportSenderInterface interface {
	SendSyncReport(report SyncReport) error
}

// Worker consumes sync requests. It only knows the SyncService contract,
// nothing about stores or the platform client.
type Worker struct {
	Channel  *amqp.Channel
	Sync     SyncService
	Reporter ReportSenderInterface // nil when mail is not configured
}

func NewWorker(ch *amqp.Channel, sync SyncService, reporter ReportSenderInterface) *Worker {
	return &Worker{Channel: ch, Sync: sync, Reporter: reporter}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack (manual is safer)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] consumer registration failed: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload SyncRequestPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] malformed sync request: %s", err)
				// Poison message. Reject without requeue so it lands in the DLQ.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] sync request run=%s user=%s campaign=%s reason=%s",
				payload.RunID, payload.UserID, payload.CampaignID, payload.Reason)

			report, err := w.Sync.RunSync(context.Background(), payload)
			if err != nil {
				log.Printf("❌ [WORKER] sync run failed run=%s: %s", payload.RunID, err)
				// Validation problems will fail forever; don't requeue those.
				d.Nack(false, !isPermanent(err))
				continue
			}

			log.Printf("✅ [WORKER] sync done run=%s synced=%d inserted=%d updated=%d deleted=%d failed=%d",
				report.RunID, report.Synced, report.Inserted, report.Updated, report.SoftDeleted, report.Failed)
			d.Ack(false)

			if w.Reporter != nil {
				if err := w.Reporter.SendSyncReport(report); err != nil {
					log.Printf("⚠️ [WORKER] report mail failed run=%s: %s", report.RunID, err)
				}
			}
		}
	}()

	log.Printf(" [*] Worker waiting on queue '%s'", queueName)
	<-forever
}

// permanentError marks failures a redelivery cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so the worker sends the message to the DLQ instead
// of requeueing it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func isPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
