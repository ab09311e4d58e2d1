package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingPublisher struct {
	topics   []string
	messages []*message.Message
	err      error
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	for _, m := range msgs {
		p.topics = append(p.topics, topic)
		p.messages = append(p.messages, m)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type ping struct {
	Value int `json:"value"`
}

func TestWrapTyped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name       string
		payload    []byte
		handler    func(context.Context, *ping) ([]Result, error)
		pubErr     error
		wantErr    bool
		wantTopics []string
	}{
		{
			name:    "publishes results with the parent correlation id",
			payload: []byte(`{"value":3}`),
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				return []Result{{Topic: "pong", Payload: ping{Value: p.Value + 1}}}, nil
			},
			wantTopics: []string{"pong"},
		},
		{
			name:    "undecodable payload is dropped",
			payload: []byte(`not json`),
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				t.Fatal("handler must not run")
				return nil, nil
			},
		},
		{
			name:    "handler error is returned",
			payload: []byte(`{"value":1}`),
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				return nil, errors.New("boom")
			},
			wantErr: true,
		},
		{
			name:    "publish error is returned",
			payload: []byte(`{"value":1}`),
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				return []Result{{Topic: "pong", Payload: p}}, nil
			},
			pubErr:  errors.New("nats down"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{err: tt.pubErr}
			in := message.NewMessage(watermill.NewUUID(), tt.payload)
			middleware.SetCorrelationID("corr-1", in)

			err := WrapTyped("test.ping", logger, tracer, pub, tt.handler)(in)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTopics, pub.topics)
			for _, m := range pub.messages {
				assert.Equal(t, "corr-1", middleware.MessageCorrelationID(m))
				var out ping
				require.NoError(t, json.Unmarshal(m.Payload, &out))
				assert.Equal(t, 4, out.Value)
			}
		})
	}
}
