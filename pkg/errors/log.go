package errors

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// Logger returns the package logger shared by every drift-maps package.
// It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// SetLogger replaces the package logger. Pass nil to restore the no-op logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// LogHandler is an ErrorHandler that writes structured entries to a zap logger.
type LogHandler struct {
	// Verbose adds stack traces to every entry that carries one.
	Verbose bool
	// Log overrides the package logger when set.
	Log *zap.Logger
}

func (h *LogHandler) log() *zap.Logger {
	if h.Log != nil {
		return h.Log
	}
	return Logger()
}

// HandleError logs a MapsError at error level.
func (h *LogHandler) HandleError(err *MapsError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Overlay != "" {
		fields = append(fields, zap.String("overlay", err.Overlay))
	}
	if err.Channel != "" {
		fields = append(fields, zap.String("channel", err.Channel))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.log().Error("drift-maps error", fields...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.log().Error("drift-maps panic", fields...)
}

// HandleBuildError logs a BuildError at error level.
func (h *LogHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("widget", err.Widget),
		zap.String("element", err.Element),
		zap.String("error", err.Error()),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.log().Error("drift-maps build error", fields...)
}

// HandleAdvisory logs an Advisory at warn level.
func (h *LogHandler) HandleAdvisory(adv *Advisory) {
	if adv == nil {
		return
	}
	fields := []zap.Field{zap.String("op", adv.Op)}
	if adv.Overlay != "" {
		fields = append(fields, zap.String("overlay", adv.Overlay))
	}
	h.log().Warn(adv.Message, fields...)
}
