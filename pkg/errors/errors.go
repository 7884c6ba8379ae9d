// Package errors provides structured error handling for drift-maps.
//
// Engine failures, recovered panics, build failures and advisory diagnostics
// all flow through a single swappable [ErrorHandler]. The default handler
// writes structured entries to the package logger (see [Logger]).
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindEngine indicates the map engine rejected a construction, field
	// write or subscription.
	KindEngine
	// KindLibrary indicates an engine library could not be loaded.
	KindLibrary
	// KindPlatform indicates a platform channel or native bridge error.
	KindPlatform
	// KindConfig indicates invalid configuration.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindBuild indicates a build-time widget error.
	KindBuild
)

func (k ErrorKind) String() string {
	switch k {
	case KindEngine:
		return "engine"
	case KindLibrary:
		return "library"
	case KindPlatform:
		return "platform"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

// MapsError represents a structured error raised while driving map objects.
type MapsError struct {
	// Op is the operation that failed (e.g., "maps.AdvancedMarker.create").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Overlay names the overlay type involved, if any (e.g., "advanced_marker").
	Overlay string
	// Channel is the platform channel name, if applicable.
	Channel string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *MapsError) Error() string {
	switch {
	case e.Channel != "":
		return fmt.Sprintf("%s [%s] channel=%s: %v", e.Op, e.Kind, e.Channel, e.Err)
	case e.Overlay != "":
		return fmt.Sprintf("%s [%s] overlay=%s: %v", e.Op, e.Kind, e.Overlay, e.Err)
	default:
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *MapsError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// BuildError represents a failure during widget build.
type BuildError struct {
	// Widget is the type name of the widget that failed.
	Widget string
	// Element is the element type (StatelessElement, StatefulElement, etc.).
	Element string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.Build(): %v", e.Widget, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.Build(): %v", e.Widget, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.Build()", e.Widget)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Advisory is a non-fatal diagnostic. Reporting one never changes what the
// caller does next.
type Advisory struct {
	// Op identifies where the advisory was raised.
	Op string
	// Message is the human readable diagnostic.
	Message string
	// Overlay names the overlay type involved, if any.
	Overlay string
	// Timestamp is when the advisory was raised.
	Timestamp time.Time
}

func (a *Advisory) String() string {
	if a.Overlay != "" {
		return fmt.Sprintf("%s overlay=%s: %s", a.Op, a.Overlay, a.Message)
	}
	return fmt.Sprintf("%s: %s", a.Op, a.Message)
}

// ErrorHandler receives errors reported by drift-maps.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *MapsError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a widget build fails.
	HandleBuildError(err *BuildError)
	// HandleAdvisory is called for non-fatal diagnostics.
	HandleAdvisory(adv *Advisory)
}
