package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "git:.")
	p.OnLoadComplete(ctx, "git:.", 100, time.Second, nil)
	p.OnLayoutStart(ctx, "grid", 100)
	p.OnLayoutComplete(ctx, "grid", 4, time.Second, nil)
	p.OnRenderStart(ctx, "text")
	p.OnRenderComplete(ctx, "text", 2048, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "history")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	hooks := NewLogHooks(log.New(&bytes.Buffer{}))
	SetPipelineHooks(hooks)
	SetCacheHooks(hooks)
	if Pipeline() != PipelineHooks(hooks) {
		t.Error("SetPipelineHooks should set custom hooks")
	}
	if Cache() != CacheHooks(hooks) {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// nil is ignored
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	if Pipeline() != PipelineHooks(hooks) || Cache() != CacheHooks(hooks) {
		t.Error("setting nil hooks should keep the current ones")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore NoopPipelineHooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnLoadComplete(ctx, "git:.", 12, time.Millisecond, nil)
	h.OnLayoutComplete(ctx, "lanes", 3, time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "history")

	out := buf.String()
	for _, want := range []string{"loaded", "commits=12", "laid out with error", "boom", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.New(&buf))
	h.OnRenderComplete(context.Background(), "text", 10, time.Millisecond, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output at the default level, got %q", buf.String())
	}
}
