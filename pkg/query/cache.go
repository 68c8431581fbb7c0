/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package query

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"golang.org/x/sync/singleflight"
)

// Key identifies a cached read. The first part is the resource tag, the rest
// narrow it down (encoded list params, an identifier).
type Key []string

func NewKey(parts ...string) Key {
	return Key(parts)
}

func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// HasPrefix reports whether every part of prefix matches the leading parts of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

type Options struct {
	StaleTime  time.Duration
	Retries    int
	RetryDelay time.Duration
}

func OptionsFromConfig(cfg *config.QueryConfig) Options {
	if cfg == nil {
		return Options{RetryDelay: time.Second}
	}
	return Options{
		StaleTime:  cfg.StaleTime,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
	}
}

type entry struct {
	data      any
	err       error
	updatedAt time.Time
	stale     bool
	seq       uint64
}

type flight struct {
	seq         uint64
	invalidated bool
}

type subscription struct {
	prefix Key
	fn     func(Key)
}

// Cache is a keyed read cache. Concurrent reads of one key share a single
// fetch, entries go stale after StaleTime or on Invalidate, and a fetch that
// was already running when its key got invalidated is stored as stale.
type Cache struct {
	mu      sync.Mutex
	opts    Options
	entries map[string]*entry
	flights map[string]*flight
	group   singleflight.Group
	seq     uint64
	subs    map[uint64]subscription
	nextSub uint64
	now     func() time.Time
}

func NewCache(opts Options) *Cache {
	return &Cache{
		opts:    opts,
		entries: make(map[string]*entry),
		flights: make(map[string]*flight),
		subs:    make(map[uint64]subscription),
		now:     time.Now,
	}
}

func (c *Cache) fresh(e *entry) bool {
	if e == nil || e.stale || e.err != nil {
		return false
	}
	return c.now().Sub(e.updatedAt) < c.opts.StaleTime
}

// Fetch returns the cached value for key while it is fresh, otherwise runs fn
// through the retry policy and stores the result.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if e := c.entries[key.String()]; c.fresh(e) {
		data, ok := e.data.(T)
		c.mu.Unlock()
		if ok {
			return data, nil
		}
	} else {
		c.mu.Unlock()
	}

	v, err := c.load(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	data, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return data, nil
}

func (c *Cache) load(ctx context.Context, key Key, fn func(ctx context.Context) (any, error)) (any, error) {
	ks := key.String()
	ch := c.group.DoChan(ks, func() (any, error) {
		c.mu.Lock()
		c.seq++
		f := &flight{seq: c.seq}
		c.flights[ks] = f
		c.mu.Unlock()

		// the fetch is shared, so one caller giving up must not cancel it
		fetchCtx := context.WithoutCancel(ctx)
		var data any
		err := retry.New(
			retry.Context(fetchCtx),
			retry.Attempts(uint(max(c.opts.Retries, 0))+1),
			retry.Delay(c.opts.RetryDelay),
			retry.DelayType(retry.FixedDelay),
			retry.RetryIf(retryable),
			retry.LastErrorOnly(true),
		).Do(func() error {
			var err error
			data, err = fn(fetchCtx)
			return err
		})

		c.mu.Lock()
		if c.flights[ks] == f {
			delete(c.flights, ks)
		}
		if e, ok := c.entries[ks]; !ok || e.seq < f.seq {
			c.entries[ks] = &entry{
				data:      data,
				err:       err,
				updatedAt: c.now(),
				stale:     f.invalidated,
				seq:       f.seq,
			}
		}
		c.mu.Unlock()

		if err != nil {
			slog.DebugContext(ctx, "query failed", "key", ks, "error", err)
		}
		return data, err
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// retryable keeps client errors and malformed bodies from being retried.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, customerrors.ErrDecode) {
		return false
	}
	if httpErr := customerrors.GetHTTPError(err); httpErr != nil {
		return httpErr.Status >= http.StatusInternalServerError || httpErr.Status == http.StatusTooManyRequests
	}
	if customerrors.GetBusinessError(err) != nil {
		return false
	}
	return retry.IsRecoverable(err)
}

// Invalidate marks every entry under prefix stale. Fetches already running
// for a matching key are detached so later reads start a new one.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	for ks, e := range c.entries {
		if splitKey(ks).HasPrefix(prefix) {
			e.stale = true
		}
	}
	for ks, f := range c.flights {
		if splitKey(ks).HasPrefix(prefix) {
			f.invalidated = true
			delete(c.flights, ks)
			c.group.Forget(ks)
		}
	}
	var notify []func(Key)
	for _, sub := range c.subs {
		if sub.prefix.HasPrefix(prefix) || prefix.HasPrefix(sub.prefix) {
			notify = append(notify, sub.fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range notify {
		fn(prefix)
	}
}

// Subscribe registers fn for invalidations overlapping prefix. The returned
// func removes the subscription.
func (c *Cache) Subscribe(prefix Key, fn func(Key)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subs[id] = subscription{prefix: prefix, fn: fn}
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Peek returns the stored value for key without fetching, fresh or not.
func Peek[T any](c *Cache, key Key) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || e.err != nil {
		return zero, false
	}
	data, ok := e.data.(T)
	return data, ok
}

// IsStale reports whether the next read of key will fetch.
func (c *Cache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.fresh(c.entries[key.String()])
}

// Err returns the error recorded by the last fetch of key.
func (c *Cache) Err(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.String()]; ok {
		return e.err
	}
	return nil
}

// Clear drops every entry. Running fetches are marked invalidated.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	for ks, f := range c.flights {
		f.invalidated = true
		c.group.Forget(ks)
	}
	c.flights = make(map[string]*flight)
}

func splitKey(ks string) Key {
	return Key(strings.Split(ks, "\x1f"))
}
