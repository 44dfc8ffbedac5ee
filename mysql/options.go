package mysql

import (
	"strings"

	"go.uber.org/zap"
)

type options struct {
	logger         *zap.Logger
	typeProcessors map[string]func(any) any
}

type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:         zap.NewNop(),
		typeProcessors: make(map[string]func(any) any),
	}
}

// WithLogger attaches a structured logger for session and statement traces.
// Errors are still returned to the caller, never just logged.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTypeProcessor overrides how values of the given database type are
// converted when scanning rows. The first registration for a type wins.
func WithTypeProcessor(typ string, fn func(any) any) Option {
	return func(o *options) {
		t := strings.ToLower(typ)
		if _, ok := o.typeProcessors[t]; ok {
			// processor already registered for this type
			return
		}

		o.typeProcessors[t] = fn
	}
}
