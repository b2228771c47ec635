package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-pagegen/pkg/interfaces"
)

const rootModule = "pagegen"

// ModuleLogger returns the logger for module, tagged with a module field.
// A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// WithFields attaches fields when the logger supports it.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
