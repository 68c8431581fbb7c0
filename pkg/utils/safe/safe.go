package safe

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/masteryyh/storefront/pkg/utils/signal"
)

type goIDKey struct{}

// GoSafe runs fn in a goroutine that is restarted after a panic. A normal
// return ends it.
func GoSafe(name string, fn func(ctx context.Context)) {
	GoSafeWithCtx(name, nil, fn)
}

func GoSafeWithCtx(name string, ctx context.Context, fn func(ctx context.Context)) {
	ctxWithGoID, cancel := createContext(ctx, name)

	go func() {
		for {
			panicked := false
			func() {
				defer func() {
					if r := recover(); r != nil {
						panicked = true
						slog.Error("recovered from panic, restarting", "goroutine", name, "error", r, "stack", string(debug.Stack()))
					}
				}()
				fn(ctxWithGoID)
			}()

			cancel()
			if !panicked || parentDone(ctx) {
				return
			}
			time.Sleep(500 * time.Millisecond)
			ctxWithGoID, cancel = createContext(ctx, name)
		}
	}()
}

func parentDone(ctx context.Context) bool {
	if ctx == nil {
		ctx = signal.GetBaseContext()
	}
	return ctx.Err() != nil
}

// GoID returns the name the current goroutine was started under.
func GoID(ctx context.Context) string {
	id, _ := ctx.Value(goIDKey{}).(string)
	return id
}

func createContext(baseCtx context.Context, goID string) (context.Context, context.CancelFunc) {
	if baseCtx == nil {
		baseCtx = signal.GetBaseContext()
	}
	ctxWithGoID, cancel := context.WithCancel(context.WithValue(baseCtx, goIDKey{}, goID))
	return ctxWithGoID, cancel
}
