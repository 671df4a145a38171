package log

import "context"

// Fields is the sink used by Loggable types to attach
// key/value pairs to a log entry
type Fields interface {
	Add(key string, value interface{})
}

// Loggable is implemented by any type that knows how to
// describe itself in a log entry
type Loggable interface {
	Log(fields Fields)
}

// MapFields is a convenience Loggable for ad-hoc fields
type MapFields map[string]interface{}

// Add is the implementation of Fields for MapFields so that a
// Loggable can be collected into a map
func (m MapFields) Add(key string, value interface{}) {
	m[key] = value
}

func (m MapFields) Log(fields Fields) {
	for key, value := range m {
		fields.Add(key, value)
	}
}

type Logger interface {
	ForClass(pkg string, class string) Logger
	Debug(ctx context.Context, msg string, loggable ...Loggable)
	Info(ctx context.Context, msg string, loggable ...Loggable)
	Warn(ctx context.Context, msg string, loggable ...Loggable)
	Error(ctx context.Context, msg string, loggable ...Loggable)
	Fatal(ctx context.Context, msg string, loggable ...Loggable)
}
