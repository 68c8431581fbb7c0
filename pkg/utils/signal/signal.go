package signal

import (
	"context"
	"os"
	ossignal "os/signal"
	"sync"
	"syscall"
)

var (
	baseCtx context.Context
	baseMu  sync.RWMutex
)

// SetupContext returns a context cancelled on SIGINT or SIGTERM and makes it
// the base context for goroutines started without one.
func SetupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	baseMu.Lock()
	baseCtx = ctx
	baseMu.Unlock()
	return ctx, cancel
}

func GetBaseContext() context.Context {
	baseMu.RLock()
	defer baseMu.RUnlock()
	if baseCtx == nil {
		return context.Background()
	}
	return baseCtx
}
