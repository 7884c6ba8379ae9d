package errors

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errRejected = stderrors.New("field rejected")

func TestMapsErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *MapsError
		want string
	}{
		{
			name: "plain",
			err:  &MapsError{Op: "maps.sync", Kind: KindEngine, Err: errRejected},
			want: "maps.sync [engine]: field rejected",
		},
		{
			name: "overlay",
			err:  &MapsError{Op: "maps.sync", Kind: KindEngine, Overlay: "advanced_marker", Err: errRejected},
			want: "maps.sync [engine] overlay=advanced_marker: field rejected",
		},
		{
			name: "channel wins over overlay",
			err:  &MapsError{Op: "platform.invoke", Kind: KindPlatform, Channel: "drift_maps/engine", Overlay: "advanced_marker", Err: errRejected},
			want: "platform.invoke [platform] channel=drift_maps/engine: field rejected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapsErrorUnwrap(t *testing.T) {
	err := &MapsError{Op: "maps.sync", Kind: KindEngine, Err: errRejected}
	if !stderrors.Is(err, errRejected) {
		t.Error("expected errors.Is to see the wrapped error")
	}
	var target *MapsError
	if !stderrors.As(error(err), &target) {
		t.Error("expected errors.As to find *MapsError")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindEngine, "engine"},
		{KindLibrary, "library"},
		{KindPlatform, "platform"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
		{KindBuild, "build"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom"}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err.Op = "platform.HandleEvent"
	if got, want := err.Error(), "panic in platform.HandleEvent: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestBuildErrorString(t *testing.T) {
	err := &BuildError{Widget: "maps.AdvancedMarker", Recovered: "nil map"}
	if got, want := err.Error(), "panic in maps.AdvancedMarker.Build(): nil map"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &BuildError{Widget: "maps.AdvancedMarker", Err: errRejected}
	if got := err.Error(); !strings.Contains(got, "error in maps.AdvancedMarker.Build()") {
		t.Errorf("Error() = %q, should contain 'error in'", got)
	}

	err = &BuildError{Widget: "maps.AdvancedMarker"}
	if got, want := err.Error(), "unknown error in maps.AdvancedMarker.Build()"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *MapsError
	SetHandler(&testHandler{onError: func(err *MapsError) { captured = err }})
	defer SetHandler(nil)

	Report(&MapsError{Op: "test.op", Kind: KindLibrary, Err: errRejected})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportNilIsIgnored(t *testing.T) {
	calls := 0
	SetHandler(&testHandler{
		onError:    func(*MapsError) { calls++ },
		onAdvisory: func(*Advisory) { calls++ },
	})
	defer SetHandler(nil)

	Report(nil)
	ReportAdvisory(nil)
	ReportPanic(nil)
	ReportBuildError(nil)

	if calls != 0 {
		t.Errorf("handler called %d times for nil reports", calls)
	}
}

func TestReportAdvisory(t *testing.T) {
	var captured *Advisory
	SetHandler(&testHandler{onAdvisory: func(adv *Advisory) { captured = adv }})
	defer SetHandler(nil)

	ReportAdvisory(&Advisory{Op: "maps.bind", Message: "set draggable", Overlay: "advanced_marker"})

	if captured == nil {
		t.Fatal("expected advisory to be captured")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
	if got, want := captured.String(), "maps.bind overlay=advanced_marker: set draggable"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover")
		panic("test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be captured")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.StackTrace == "" {
		t.Error("expected a stack trace")
	}
}

func TestLogHandlerWritesStructuredEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := &LogHandler{Log: zap.New(core)}

	h.HandleError(&MapsError{Op: "maps.create", Kind: KindEngine, Overlay: "advanced_marker", Err: errRejected})
	h.HandleAdvisory(&Advisory{Op: "maps.bind", Message: "drag handler without draggable", Timestamp: time.Now()})

	if got := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); got != 1 {
		t.Fatalf("error entries = %d, want 1", got)
	}
	entry := logs.FilterLevelExact(zapcore.ErrorLevel).All()[0]
	if entry.ContextMap()["overlay"] != "advanced_marker" {
		t.Errorf("overlay field = %v", entry.ContextMap()["overlay"])
	}
	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warns) != 1 || warns[0].Message != "drag handler without draggable" {
		t.Errorf("warn entries = %+v", warns)
	}
}

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Logger().Info("hello")
	if logs.Len() != 1 {
		t.Errorf("entries = %d, want 1", logs.Len())
	}
}

type testHandler struct {
	onError      func(*MapsError)
	onPanic      func(*PanicError)
	onBuildError func(*BuildError)
	onAdvisory   func(*Advisory)
}

func (h *testHandler) HandleError(err *MapsError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleBuildError(err *BuildError) {
	if h.onBuildError != nil {
		h.onBuildError(err)
	}
}

func (h *testHandler) HandleAdvisory(adv *Advisory) {
	if h.onAdvisory != nil {
		h.onAdvisory(adv)
	}
}
