package ads_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/baechuer/real-time-ressys/services/ad-service/internal/application/ads"
)

func TestNoopPublisher_AcceptsAndLogsDrop(t *testing.T) {
	var buf bytes.Buffer
	prev := zlog.Logger
	zlog.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	defer func() { zlog.Logger = prev }()

	var pub ads.EventPublisher = ads.NoopPublisher{}
	err := pub.PublishEvent(context.Background(), ads.RoutingImpressionRecorded, "m-1", []byte(`{}`))

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "ad event dropped")
	assert.Contains(t, buf.String(), `"message_id":"m-1"`)
}
