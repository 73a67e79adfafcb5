package inttest

import (
	"context"
	"fmt"
	"testing"

	"github.com/docker/go-connections/nat"
	amqpgo "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const amqpPort = "5672"
const natAMQPPort = amqpPort + "/tcp"

// SetupRabbitMQ creates a RabbitMQ container with an AMQP client ready to send messages to it. We
// are using the management image for RabbitMQ so you can debug and interact with tests using its
// admin panel. Use a debugger or add a time.Sleep and find the exposed management port to login to
// the UI.
func SetupRabbitMQ(t *testing.T) *AMQP {
	t.Helper()
	require := require.New(t)
	ctx := context.TODO()

	rabbitMQContainer, err := newRabbitMQ(ctx)
	require.NoError(err, "failed setting up RabbitMQ")
	t.Cleanup(func() {
		require.NoError(rabbitMQContainer.Terminate(ctx), "failed to terminate RabbitMQ")
	})

	URI, err := rabbitMQContainer.AMQPURI(ctx)
	require.NoError(err, "failed to get RabbitMQ AMQP URI")
	conn, err := amqpgo.Dial(URI)
	require.NoError(err, "failed setting up AMQP connection")
	channel, err := conn.Channel()
	require.NoError(err, "failed setting up AMQP channel")
	t.Cleanup(func() {
		require.NoError(conn.Close(), "failed to close AMQP connection")
	})

	return &AMQP{
		rabbitMQContainer: rabbitMQContainer,
		conn:              conn,
		Channel:           channel,
	}
}

// AMQP allows making requests to RabbitMQ. It does so by opening a connection and channel to
// RabbitMQ via the low-level github.com/rabbitmq/amqp091-go library.
type AMQP struct {
	rabbitMQContainer *rabbitmqContainer
	conn              *amqpgo.Connection // Connection established with RabbitMQ
	Channel           *amqpgo.Channel    // Channel established with RabbitMQ
}

// URI is the AMQP URI going to RabbitMQ.
func (a *AMQP) URI(t *testing.T) string {
	t.Helper()

	URI, err := a.rabbitMQContainer.AMQPURI(context.TODO())
	require.NoError(t, err, "failed to get RabbitMQ URI")
	return URI
}

type rabbitmqContainer struct {
	testcontainers.Container
	user string
	pw   string
}

func (rc *rabbitmqContainer) AMQPURI(ctx context.Context) (string, error) {
	ip, err := rc.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := rc.ExposedAMQPPort(ctx)
	if err != nil {
		return "", err
	}
	return amqpURI(rc.user, rc.pw, ip, port), nil
}

func (rc *rabbitmqContainer) ExposedAMQPPort(ctx context.Context) (string, error) {
	port, err := rc.MappedPort(ctx, nat.Port(natAMQPPort))
	if err != nil {
		return "", err
	}
	return port.Port(), nil
}

// newRabbitMQ creates a RabbitMQ container. The container will be listening and ready to accept
// connections using user and password guest.
func newRabbitMQ(ctx context.Context) (*rabbitmqContainer, error) {
	user := "guest"
	pw := "guest"
	natPortMgmt := "15672/tcp"
	req := testcontainers.ContainerRequest{
		Image: "bitnami/rabbitmq:3.13",
		Env: map[string]string{
			"RABBITMQ_USERNAME":                    user,
			"RABBITMQ_PASSWORD":                    pw,
			"RABBITMQ_MANAGEMENT_ALLOW_WEB_ACCESS": "true",
			"RABBITMQ_DISK_FREE_ABSOLUTE_LIMIT":    "100MB",
			"RABBITMQ_PLUGINS":                     "rabbitmq_management,rabbitmq_management_agent",
		},
		ExposedPorts: []string{natAMQPPort, natPortMgmt},
		WaitingFor:   wait.ForLog("Time to start RabbitMQ").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, err
	}

	return &rabbitmqContainer{
		Container: container,
		user:      user,
		pw:        pw,
	}, nil
}

func amqpURI(user, pw, ip, port string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", user, pw, ip, port)
}
