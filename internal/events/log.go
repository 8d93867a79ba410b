package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes every notification to a zap logger at Info level.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher returns a LogPublisher writing to logger.
//
// Precondition: logger must not be nil.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the notification. It never fails.
func (l *LogPublisher) Publish(_ context.Context, name string, payload any) error {
	l.logger.Info("event published",
		zap.String("event", name),
		zap.Any("payload", payload),
	)
	return nil
}
