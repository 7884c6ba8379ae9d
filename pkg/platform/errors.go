package platform

import "errors"

// Sentinel errors for engine operations.
var (
	// ErrClosed is returned when operating on a disposed engine or a removed
	// container.
	ErrClosed = errors.New("platform: engine closed")

	// ErrForeignObject is returned when an engine is handed an object that
	// another engine created.
	ErrForeignObject = errors.New("platform: object does not belong to this engine")

	// ErrUnknownListener is returned when removing a listener the engine
	// does not know about.
	ErrUnknownListener = errors.New("platform: unknown listener")
)
