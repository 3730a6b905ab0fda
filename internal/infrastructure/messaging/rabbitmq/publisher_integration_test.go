//go:build integration

package rabbitmq

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPublisher_Integration(t *testing.T) {
	ctx := context.Background()

	rabbitC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-management",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rabbitC.Terminate(ctx) })

	host, err := rabbitC.Host(ctx)
	require.NoError(t, err)
	port, err := rabbitC.MappedPort(ctx, "5672")
	require.NoError(t, err)
	url := "amqp://guest:guest@" + host + ":" + port.Port() + "/"

	p, err := NewPublisher(url, "ad.events.test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	// bind a queue so the message can be read back
	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "ad.#", "ad.events.test", false, nil))

	require.NoError(t, p.PublishEvent(ctx, "ad.click.recorded", "m-1", []byte(`{"x":1}`)))

	// unbound routing keys still confirm
	require.NoError(t, p.PublishEvent(ctx, "other.key", "m-2", []byte(`{}`)))

	var got amqp.Delivery
	require.Eventually(t, func() bool {
		d, ok, err := ch.Get(q.Name, true)
		if err != nil || !ok {
			return false
		}
		got = d
		return true
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, "m-1", got.MessageId)
	assert.Equal(t, "ad.click.recorded", got.RoutingKey)
	assert.JSONEq(t, `{"x":1}`, string(got.Body))
}
