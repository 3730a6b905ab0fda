package ads

import (
	"context"

	zlog "github.com/rs/zerolog/log"
)

// NoopPublisher stands in when no broker is configured. Outbox rows it
// receives are reported as published and get marked sent, so impression
// and campaign events are dropped rather than queued forever.
type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	zlog.Debug().Str("rk", routingKey).Str("message_id", messageID).Msg("ad event dropped: no broker")
	return nil
}
