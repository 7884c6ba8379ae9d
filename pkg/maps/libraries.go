package maps

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/errors"
	"github.com/go-drift/drift-maps/pkg/mapsapi"
	"github.com/go-drift/drift-maps/pkg/platform"
)

// LibraryLoader resolves engine libraries by name and caches them for its
// whole lifetime. Each name is imported at most once at a time; concurrent
// requests for the same name share one import. A failed import is not
// cached, so a later request tries again.
//
// Resolve and AddListener are meant for the UI goroutine. Load may be
// called from any goroutine. Listeners are notified on the UI goroutine
// through platform.Dispatch whenever a library becomes available.
type LibraryLoader struct {
	importer mapsapi.Importer
	check    func(name string) error
	group    singleflight.Group
	notifier *core.Notifier
	inflight sync.WaitGroup

	mu      sync.RWMutex
	loaded  map[string]mapsapi.Library
	pending map[string]bool
}

// LoaderOption configures a LibraryLoader.
type LoaderOption func(*LibraryLoader)

// WithLibraryCheck installs a check that runs before a library is
// imported. A non-nil error fails the load without calling the importer.
func WithLibraryCheck(check func(name string) error) LoaderOption {
	return func(l *LibraryLoader) {
		l.check = check
	}
}

// NewLibraryLoader creates a loader that imports libraries with importer.
func NewLibraryLoader(importer mapsapi.Importer, opts ...LoaderOption) *LibraryLoader {
	l := &LibraryLoader{
		importer: importer,
		notifier: core.NewNotifier(),
		loaded:   make(map[string]mapsapi.Library),
		pending:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve returns the library if it has been loaded. It never blocks and
// never starts a load.
func (l *LibraryLoader) Resolve(name string) (mapsapi.Library, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	lib, ok := l.loaded[name]
	return lib, ok
}

// Load returns the named library, importing it if needed. Concurrent
// callers for the same name wait for the same import, which runs with the
// first caller's context. By the time Load returns successfully, listeners
// have been scheduled for notification.
func (l *LibraryLoader) Load(ctx context.Context, name string) (mapsapi.Library, error) {
	if lib, ok := l.Resolve(name); ok {
		return lib, nil
	}
	lib, err, _ := l.group.Do(name, func() (any, error) {
		if lib, ok := l.Resolve(name); ok {
			return lib, nil
		}
		if l.check != nil {
			if err := l.check(name); err != nil {
				return nil, err
			}
		}
		lib, err := l.importer(ctx, name)
		if err != nil {
			return nil, err
		}
		if lib == nil {
			return nil, fmt.Errorf("%w: %q", ErrLibraryUnavailable, name)
		}
		l.mu.Lock()
		l.loaded[name] = lib
		l.mu.Unlock()
		errors.Logger().Debug("map library loaded", zap.String("library", name))
		if !platform.Dispatch(l.notifier.Notify) {
			errors.Logger().Debug("library listeners not notified, no dispatcher",
				zap.String("library", name))
		}
		return lib, nil
	})
	if err != nil {
		return nil, err
	}
	return lib.(mapsapi.Library), nil
}

// Request starts loading name in the background unless it is loaded or
// already being requested. Failures are reported to the error handler.
func (l *LibraryLoader) Request(name string) {
	l.mu.Lock()
	if _, ok := l.loaded[name]; ok || l.pending[name] {
		l.mu.Unlock()
		return
	}
	l.pending[name] = true
	l.inflight.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.inflight.Done()
		_, err := l.Load(context.Background(), name)
		l.mu.Lock()
		delete(l.pending, name)
		l.mu.Unlock()
		if err != nil {
			errors.Report(&errors.MapsError{
				Op:   "maps.LoadLibrary",
				Kind: errors.KindLibrary,
				Err:  fmt.Errorf("library %q: %w", name, err),
			})
		}
	}()
}

// Preload requests every named library.
func (l *LibraryLoader) Preload(names ...string) {
	for _, name := range names {
		l.Request(name)
	}
}

// Wait blocks until every background request started so far has finished.
func (l *LibraryLoader) Wait() {
	l.inflight.Wait()
}

// AddListener registers fn to run on the UI goroutine after a library
// loads. The returned function removes it.
func (l *LibraryLoader) AddListener(fn func()) func() {
	return l.notifier.AddListener(fn)
}
