// Package handlerwrapper adapts typed event handlers to watermill.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Result is one outgoing event produced by a handler.
type Result struct {
	Topic   string
	Payload any
}

// NewMessage encodes payload as JSON and carries over the correlation ID of parent, if any.
func NewMessage(parent *message.Message, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	correlationID := watermill.NewUUID()
	if parent != nil {
		if id := middleware.MessageCorrelationID(parent); id != "" {
			correlationID = id
		}
		msg.SetContext(parent.Context())
	}
	middleware.SetCorrelationID(correlationID, msg)
	return msg, nil
}

// Publish sends every result to its own topic.
func Publish(publisher message.Publisher, parent *message.Message, results []Result) error {
	for _, r := range results {
		msg, err := NewMessage(parent, r.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", r.Topic, err)
		}
		if err := publisher.Publish(r.Topic, msg); err != nil {
			return fmt.Errorf("publish %s: %w", r.Topic, err)
		}
	}
	return nil
}

// WrapTyped decodes the message into T, runs handler inside a span and publishes
// what it returns. Undecodable messages are logged and acknowledged so they are not
// redelivered forever; handler errors are returned so the router can retry.
func WrapTyped[T any](
	name string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher message.Publisher,
	handler func(context.Context, *T) ([]Result, error),
) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx, span := tracer.Start(msg.Context(), name, trace.WithAttributes(
			attribute.String("message_uuid", msg.UUID),
			attribute.String("correlation_id", middleware.MessageCorrelationID(msg)),
		))
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Failed to decode event payload",
				slog.String("handler", name),
				slog.String("message_uuid", msg.UUID),
				slog.Any("error", err),
			)
			span.RecordError(err)
			return nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("%s: %w", name, err)
		}

		if err := Publish(publisher, msg, results); err != nil {
			span.RecordError(err)
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}
