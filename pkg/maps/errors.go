package maps

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/go-drift/drift-maps/pkg/errors"
)

// ErrLibraryUnavailable is returned when an importer resolves a library to
// nothing.
var ErrLibraryUnavailable = stderrors.New("maps: library unavailable")

// ErrUnexpectedLibrary is reported when the "marker" library does not
// provide advanced markers.
var ErrUnexpectedLibrary = stderrors.New("maps: library has unexpected type")

func overlayName(overlay any) string {
	if overlay == nil {
		return ""
	}
	if s, ok := overlay.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T@%p", overlay, overlay)
}

// engineError wraps an engine failure. It returns nil for a nil err.
func engineError(op string, overlay any, err error) error {
	if err == nil {
		return nil
	}
	return &errors.MapsError{
		Op:      op,
		Kind:    errors.KindEngine,
		Overlay: overlayName(overlay),
		Err:     err,
	}
}

// reportAll hands every error combined in err to the error handler.
func reportAll(err error) {
	for _, e := range multierr.Errors(err) {
		var mapsErr *errors.MapsError
		if !stderrors.As(e, &mapsErr) {
			mapsErr = &errors.MapsError{Op: "maps.sync", Kind: errors.KindEngine, Err: e}
		}
		errors.Report(mapsErr)
	}
}
