package telemetry

import (
	"context"
	"log"
	"time"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// AuditEmitter publishes message lifecycle events for the audit pipeline.
// This is operator-facing plumbing; it never delivers anything to visitors.
type AuditEmitter struct {
	publisher     Publisher
	routingPrefix string
	service       string
	environment   string
}

type AuditEnvelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Environment   string `json:"environment"`
	RequestID     string `json:"request_id"`
	OwnerUID      string `json:"owner_uid"`
	MessageID     string `json:"message_id"`
	ClientIP      string `json:"client_ip,omitempty"`
}

func NewAuditEmitter(publisher Publisher, routingPrefix, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:     publisher,
		routingPrefix: routingPrefix,
		service:       service,
		environment:   environment,
	}
}

// Emit publishes one lifecycle event. Publish failures are logged, not
// surfaced: the audit trail never fails a request that already succeeded.
func (e *AuditEmitter) Emit(ctx context.Context, eventType, ownerUID, messageID, requestID, clientIP string) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := AuditEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		OwnerUID:      ownerUID,
		MessageID:     messageID,
		ClientIP:      clientIP,
	}

	if err := e.publisher.Publish(ctx, e.routingPrefix+"."+eventType, envelope); err != nil {
		log.Printf("audit publish failed: %v", err)
	}
}
