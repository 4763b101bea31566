package logger

import (
	"wallet_connector/internal/app/port"

	"go.uber.org/zap"
)

// slogAdapter реализует интерфейс port.Logger, используя глобальные функции пакета logger.
// Это позволяет передавать конкретную реализацию логгера в сервисы, ожидающие port.Logger.
type slogAdapter struct {
	attrs []any
}

// NewSlogAdapter создает новый экземпляр slogAdapter.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// With returns an adapter that appends the given key/value pairs to every record.
func (a *slogAdapter) With(args ...any) port.Logger {
	attrs := make([]any, 0, len(a.attrs)+len(args))
	attrs = append(attrs, a.attrs...)
	attrs = append(attrs, args...)
	return &slogAdapter{attrs: attrs}
}

func (a *slogAdapter) merge(args []any) []any {
	if len(a.attrs) == 0 {
		return args
	}
	return append(append(make([]any, 0, len(a.attrs)+len(args)), a.attrs...), args...)
}

// Info логирует информационное сообщение.
func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, a.merge(args)...)
}

// Debug логирует отладочное сообщение.
func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, a.merge(args)...)
}

// Warn логирует предупреждающее сообщение.
func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, a.merge(args)...)
}

// Error логирует сообщение об ошибке.
func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, a.merge(args)...)
}

// nopLogger discards everything. Used by tests and optional dependencies.
type nopLogger struct{}

// NewNop returns a port.Logger that drops all records.
func NewNop() port.Logger { return nopLogger{} }

func (nopLogger) Info(string, ...any)       {}
func (nopLogger) Debug(string, ...any)      {}
func (nopLogger) Warn(string, ...any)       {}
func (nopLogger) Error(string, ...any)      {}
func (n nopLogger) With(...any) port.Logger { return n }

// NewZapAdapter wraps a zap logger directly, for components that already hold one.
func NewZapAdapter(l *zap.Logger) port.Logger {
	return &zapAdapter{s: l.Sugar()}
}

type zapAdapter struct {
	s *zap.SugaredLogger
}

func (a *zapAdapter) Info(msg string, args ...any)  { a.s.Infow(msg, args...) }
func (a *zapAdapter) Debug(msg string, args ...any) { a.s.Debugw(msg, args...) }
func (a *zapAdapter) Warn(msg string, args ...any)  { a.s.Warnw(msg, args...) }
func (a *zapAdapter) Error(msg string, args ...any) { a.s.Errorw(msg, args...) }
func (a *zapAdapter) With(args ...any) port.Logger  { return &zapAdapter{s: a.s.With(args...)} }
