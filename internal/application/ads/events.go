package ads

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/domain"
)

const (
	EventVersion  = 1
	EventProducer = "ad-service"

	RoutingImpressionRecorded = "ad.impression.recorded"
	RoutingClickRecorded      = "ad.click.recorded"
)

// DomainEventEnvelope is the contract for every event the service emits.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// ActionRecordedPayload is the body for ad.impression.recorded and
// ad.click.recorded.
type ActionRecordedPayload struct {
	CampaignID   string  `json:"campaign_id"`
	AdvertiserID string  `json:"advertiser_id"`
	ClientID     string  `json:"client_id"`
	Day          int     `json:"day"`
	Price        float64 `json:"price"`
}

func routingKeyFor(kind domain.ActionKind) string {
	if kind == domain.ActionClick {
		return RoutingClickRecorded
	}
	return RoutingImpressionRecorded
}

// enqueueAction writes the event for a newly recorded action to the outbox
// inside the caller's transaction.
func (s *Service) enqueueAction(ctx context.Context, tx Tx, c domain.Campaign, a domain.Action) error {
	now := s.now().UTC()
	env := DomainEventEnvelope[ActionRecordedPayload]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  uuid.NewString(),
		OccurredAt: now,
		Payload: ActionRecordedPayload{
			CampaignID:   a.CampaignID,
			AdvertiserID: c.AdvertiserID,
			ClientID:     a.ClientID,
			Day:          a.Day,
			Price:        a.Price,
		},
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", a.Kind, err)
	}
	return tx.Outbox().Insert(ctx, OutboxMessage{
		MessageID:  env.MessageID,
		RoutingKey: routingKeyFor(a.Kind),
		Body:       body,
		CreatedAt:  now,
	})
}
