package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
)

// EventBus is the publisher/subscriber pair shared by every module.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Config configures the NATS JetStream transport.
type Config struct {
	URL            string
	QueueGroup     string
	AckWaitTimeout time.Duration
}

type natsBus struct {
	publisher  *nats.Publisher
	subscriber *nats.Subscriber
	logger     *slog.Logger
}

// NewNATS connects a JetStream-backed publisher and subscriber.
func NewNATS(ctx context.Context, cfg Config, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}
	jsConfig := nats.JetStreamConfig{
		Disabled:      false,
		AutoProvision: true,
		SubscribeOptions: []nc.SubOpt{
			nc.DeliverAll(),
			nc.AckExplicit(),
		},
	}

	publisher, err := nats.NewPublisher(nats.PublisherConfig{
		URL:               cfg.URL,
		NatsOptions:       options,
		Marshaler:         marshaler,
		JetStream:         jsConfig,
		SubjectCalculator: nats.DefaultSubjectCalculator,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	ackWait := cfg.AckWaitTimeout
	if ackWait == 0 {
		ackWait = 30 * time.Second
	}
	subscriber, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:               cfg.URL,
		QueueGroupPrefix:  cfg.QueueGroup,
		SubscribersCount:  1,
		AckWaitTimeout:    ackWait,
		CloseTimeout:      30 * time.Second,
		NatsOptions:       options,
		Unmarshaler:       marshaler,
		JetStream:         jsConfig,
		SubjectCalculator: nats.DefaultSubjectCalculator,
	}, wmLogger)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected to NATS", slog.String("url", cfg.URL))
	return &natsBus{publisher: publisher, subscriber: subscriber, logger: logger}, nil
}

// streamTopic maps a topic onto a JetStream stream name, which cannot contain dots.
func streamTopic(topic string) string {
	return strings.ReplaceAll(topic, ".", "_")
}

func (b *natsBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(streamTopic(topic), messages...)
}

func (b *natsBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, streamTopic(topic))
}

// Close closes both sides, reporting the first failure.
func (b *natsBus) Close() error {
	var firstErr error
	if err := b.publisher.Close(); err != nil {
		b.logger.Error("Error closing NATS publisher", slog.Any("error", err))
		firstErr = err
	}
	if err := b.subscriber.Close(); err != nil {
		b.logger.Error("Error closing NATS subscriber", slog.Any("error", err))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type memoryBus struct {
	*gochannel.GoChannel
}

// NewInMemory returns an in-process bus for local runs and tests.
func NewInMemory(logger *slog.Logger) EventBus {
	return &memoryBus{gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))}
}
