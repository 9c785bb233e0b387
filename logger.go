package replicas

import (
	"context"
	"log"
	"log/slog"
)

type Logger interface {
	Report(event LogEvent)
}

type SlogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

func NewSlogLogger(logger *slog.Logger) SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return SlogLogger{
		logger: logger,
		ctx:    context.Background(),
	}
}

func (l SlogLogger) WithContext(ctx context.Context) SlogLogger {
	return SlogLogger{
		logger: l.logger,
		ctx:    ctx,
	}
}

func (l SlogLogger) Report(event LogEvent) {
	l.logger.LogAttrs(l.ctx, event.LogLevel(), event.Message(), event.LogAttrs()...)
}

// SimpleLogger prints warnings and errors with the standard log package.
type SimpleLogger struct{}

func (l SimpleLogger) Report(event LogEvent) {
	if event.LogLevel() < slog.LevelWarn {
		return
	}
	log.Printf("[%s] %s [event=%s]", event.LogLevel(), event.Message(), event.EventName())
}
