package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Event types published to the bus.
const (
	TenantCreated       = "tenant.created"
	TenantDeleted       = "tenant.deleted"
	PlanChanged         = "plan.changed"
	InvitationIssued    = "invitation.issued"
	InvitationAccepted  = "invitation.accepted"
	InvitationCancelled = "invitation.cancelled"
)

const stream = "taxdesk:events"

// Event is one fire-and-forget bus message. Published only after the
// owning transaction commits; delivery is at-least-once, best-effort.
type Event struct {
	Type      string         `json:"type"`
	CompanyID uuid.UUID      `json:"company_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	At        time.Time      `json:"at"`
}

// Publisher delivers events to the external bus. Publish must never
// fail the caller; transport errors are logged and swallowed.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type redisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(addr, password string, db int) Publisher {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("event payload marshal failed")
		return
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"type":       event.Type,
			"company_id": event.CompanyID.String(),
			"payload":    string(payload),
			"at":         event.At.Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Str("company_id", event.CompanyID.String()).Msg("event publish failed")
	}
}

// NopPublisher drops every event. Used in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) {}
