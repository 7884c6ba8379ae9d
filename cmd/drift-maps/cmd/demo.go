package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/drift-maps/pkg/config"
	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/maps"
	"github.com/go-drift/drift-maps/pkg/mapsapi"
	"github.com/go-drift/drift-maps/pkg/platform"
	"github.com/go-drift/drift-maps/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Run a headless marker scenario",
		Long: `Run a headless advanced marker scenario against a logging engine bridge.

The scenario mounts one marker with projected content, waits for the marker
library, delivers a click from the native side, moves the marker and
unmounts it. Every call that would reach the native map engine is printed.`,
		Usage: "drift-maps demo [--dir DIR] [--timeout DURATION]",
		Run:   runDemo,
	})
}

func runDemo(env *Env, args []string) error {
	timeout := 5 * time.Second
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--timeout" && i+1 < len(args):
			d, err := time.ParseDuration(args[i+1])
			if err != nil {
				return fmt.Errorf("invalid --timeout: %w", err)
			}
			timeout = d
			i++
		case strings.HasPrefix(arg, "--timeout="):
			d, err := time.ParseDuration(strings.TrimPrefix(arg, "--timeout="))
			if err != nil {
				return fmt.Errorf("invalid --timeout: %w", err)
			}
			timeout = d
		default:
			return fmt.Errorf("unexpected argument %q", arg)
		}
	}

	cfg, err := loadProject(env)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	restore := installLogging(logger, cfg.Verbose)
	defer restore()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	report, err := runScenario(ctx, cfg, env.Stdout)
	if err != nil {
		return err
	}
	logger.Info("demo finished",
		zap.Int("nativeCalls", report.Calls),
		zap.Int("clicks", report.Clicks))
	return nil
}

// scenarioReport summarizes one demo run.
type scenarioReport struct {
	Calls  int
	Clicks int
}

// runScenario drives one marker through its lifecycle against a logging
// bridge. It owns the platform bridge and dispatcher while it runs.
func runScenario(ctx context.Context, cfg *config.Resolved, out io.Writer) (*scenarioReport, error) {
	bridge := newLogBridge(out)
	loop := newUILoop()
	platform.SetNativeBridge(bridge)
	platform.RegisterDispatch(loop.dispatch)
	defer func() {
		platform.RegisterDispatch(nil)
		platform.SetNativeBridge(nil)
	}()

	engine := platform.NewEngineWithPrefix(cfg.ChannelPrefix)
	defer engine.Dispose()

	loader := maps.NewLibraryLoader(engine.ImportLibrary, maps.WithLibraryCheck(cfg.CheckLibrary))
	defer loader.Wait()
	loader.Preload(cfg.Preload...)

	ref := maps.NewMarkerRef()
	clicks := 0
	onClick := func(mapsapi.Event) { clicks++ }
	scene := func(position *mapsapi.LatLng, label string) core.Widget {
		return maps.APIProvider{
			Loader: loader,
			Events: engine,
			Child: maps.MapScope{
				Map: engine.Map("demo"),
				Child: maps.AdvancedMarker{
					Position:     position,
					Draggable:    maps.Ptr(true),
					Title:        maps.Ptr(label),
					ContentClass: "demo-pin",
					Children:     []core.Widget{widgets.Text{Content: label}},
					OnClick:      onClick,
					Ref:          ref.Callback(),
				},
			},
		}
	}

	owner := core.NewBuildOwner()
	root := core.MountRoot(scene(&mapsapi.LatLng{Lat: 52.52, Lng: 13.405}, "Berlin"), owner, core.NewHostNode("root"))
	mounted := true
	defer func() {
		if mounted {
			core.UpdateRoot(root, nil)
		}
	}()

	if err := loop.runUntil(ctx, owner, func() bool { return ref.Current() != nil }); err != nil {
		return nil, fmt.Errorf("waiting for the marker: %w", err)
	}

	listener, ok := bridge.listenerFor(mapsapi.EventClick)
	if !ok {
		return nil, fmt.Errorf("no click listener was attached")
	}
	event, err := json.Marshal(map[string]any{"listener": listener, "name": mapsapi.EventClick})
	if err != nil {
		return nil, err
	}
	if err := platform.HandleEvent(cfg.ChannelPrefix+"/events", event); err != nil {
		return nil, err
	}
	if err := loop.runUntil(ctx, owner, func() bool { return clicks > 0 }); err != nil {
		return nil, fmt.Errorf("waiting for the click: %w", err)
	}

	core.UpdateRoot(root, scene(&mapsapi.LatLng{Lat: 48.137, Lng: 11.575}, "Munich"))
	owner.FlushBuild()

	core.UpdateRoot(root, nil)
	mounted = false
	owner.FlushBuild()
	if ref.Current() != nil {
		return nil, fmt.Errorf("marker survived unmount")
	}

	return &scenarioReport{Calls: bridge.callCount(), Clicks: clicks}, nil
}

// uiLoop runs dispatched callbacks on the goroutine that calls runUntil.
type uiLoop struct {
	queue chan func()
}

func newUILoop() *uiLoop {
	return &uiLoop{queue: make(chan func(), 64)}
}

func (l *uiLoop) dispatch(fn func()) {
	l.queue <- fn
}

// runUntil runs callbacks and flushes builds until done reports true or ctx
// ends.
func (l *uiLoop) runUntil(ctx context.Context, owner *core.BuildOwner, done func() bool) error {
	for {
		owner.FlushBuild()
		if done() {
			return nil
		}
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// logBridge is a NativeBridge that prints every call and answers with an
// empty result. It remembers listener ids so the demo can raise events.
type logBridge struct {
	out io.Writer

	mu        sync.Mutex
	calls     int
	listeners map[string]int64
}

func newLogBridge(out io.Writer) *logBridge {
	return &logBridge{out: out, listeners: make(map[string]int64)}
}

func (b *logBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if method == "addListener" {
		var payload struct {
			Listener int64  `json:"listener"`
			Event    string `json:"event"`
		}
		if err := json.Unmarshal(args, &payload); err == nil {
			b.listeners[payload.Event] = payload.Listener
		}
	}
	fmt.Fprintf(b.out, "-> %s.%s %s\n", channel, method, args)
	return nil, nil
}

func (b *logBridge) StartEventStream(channel string) error {
	fmt.Fprintf(b.out, "-> start %s\n", channel)
	return nil
}

func (b *logBridge) StopEventStream(channel string) error {
	fmt.Fprintf(b.out, "-> stop %s\n", channel)
	return nil
}

func (b *logBridge) listenerFor(event string) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.listeners[event]
	return id, ok
}

func (b *logBridge) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}
