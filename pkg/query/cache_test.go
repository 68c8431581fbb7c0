package query

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/masteryyh/storefront/pkg/customerrors"
)

func newTestCache() *Cache {
	return NewCache(Options{StaleTime: time.Minute, Retries: 2, RetryDelay: time.Millisecond})
}

func TestKeyHasPrefix(t *testing.T) {
	k := NewKey("products", "limit=25&offset=0")
	if !k.HasPrefix(NewKey("products")) {
		t.Fatal("expected prefix match")
	}
	if k.HasPrefix(NewKey("product")) {
		t.Fatal("tag must match as a whole part")
	}
	if NewKey("products").HasPrefix(k) {
		t.Fatal("longer prefix must not match")
	}
}

func TestFetchCachesWhileFresh(t *testing.T) {
	c := newTestCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	var calls atomic.Int32
	fn := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}
	ctx := context.Background()
	key := NewKey("products")

	for range 3 {
		v, err := Fetch(ctx, c, key, fn)
		if err != nil || v != 1 {
			t.Fatalf("expected cached 1, got %d %v", v, err)
		}
	}

	now = now.Add(2 * time.Minute)
	v, err := Fetch(ctx, c, key, fn)
	if err != nil || v != 2 {
		t.Fatalf("expected refetch after stale time, got %d %v", v, err)
	}
}

func TestFetchDeduplicates(t *testing.T) {
	c := newTestCache()
	release := make(chan struct{})
	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "ok", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), c, NewKey("genres"), fn)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", calls.Load())
	}
	for _, r := range results {
		if r != "ok" {
			t.Fatalf("unexpected result %q", r)
		}
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	value := func(v int) func(context.Context) (int, error) {
		return func(context.Context) (int, error) { return v, nil }
	}

	_, _ = Fetch(ctx, c, NewKey("products", "page1"), value(1))
	_, _ = Fetch(ctx, c, NewKey("product", "7"), value(1))
	_, _ = Fetch(ctx, c, NewKey("orders"), value(1))

	c.Invalidate(NewKey("products"))

	if !c.IsStale(NewKey("products", "page1")) {
		t.Fatal("expected list entry to be stale")
	}
	if c.IsStale(NewKey("product", "7")) || c.IsStale(NewKey("orders")) {
		t.Fatal("unrelated entries must stay fresh")
	}
	v, _ := Fetch(ctx, c, NewKey("products", "page1"), value(2))
	if v != 2 {
		t.Fatalf("expected refetched value, got %d", v)
	}
}

func TestMutationThenReadSeesNewState(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	var mu sync.Mutex
	names := []string{"Dune"}

	list := func(ctx context.Context) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), names...), nil
	}
	create := NewMutation(c, func(ctx context.Context, name string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, name)
		return name, nil
	}, func(string, string) []Key {
		return []Key{NewKey("products")}
	})

	before, _ := Fetch(ctx, c, NewKey("products", "all"), list)
	if len(before) != 1 {
		t.Fatalf("unexpected initial list %v", before)
	}
	if _, err := create.Run(ctx, "Emma"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := Fetch(ctx, c, NewKey("products", "all"), list)
	if len(after) != 2 {
		t.Fatalf("expected post-mutation list, got %v", after)
	}
}

func TestMutationFailureDoesNotInvalidate(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	_, _ = Fetch(ctx, c, NewKey("users"), func(context.Context) (int, error) { return 1, nil })

	boom := errors.New("boom")
	var calls int
	m := NewMutation(c, func(ctx context.Context, id int) (struct{}, error) {
		calls++
		return struct{}{}, boom
	}, func(int, struct{}) []Key {
		return []Key{NewKey("users")}
	})

	if _, err := m.Run(ctx, 1); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("mutations must not retry, got %d calls", calls)
	}
	if c.IsStale(NewKey("users")) {
		t.Fatal("failed mutation must not invalidate")
	}
}

func TestInFlightFetchStoredStale(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	fn := func(ctx context.Context) (int, error) {
		n := calls.Add(1)
		if n == 1 {
			close(started)
			<-release
			return 1, nil
		}
		return 2, nil
	}

	done := make(chan int)
	go func() {
		v, _ := Fetch(ctx, c, NewKey("orders"), fn)
		done <- v
	}()
	<-started
	c.Invalidate(NewKey("orders"))

	fresh, err := Fetch(ctx, c, NewKey("orders"), fn)
	if err != nil || fresh != 2 {
		t.Fatalf("read after invalidation must not join the old fetch, got %d %v", fresh, err)
	}

	close(release)
	if old := <-done; old != 1 {
		t.Fatalf("expected the old caller to get its own result, got %d", old)
	}

	v, _ := Fetch(ctx, c, NewKey("orders"), fn)
	if v != 2 {
		t.Fatalf("late pre-invalidation result must not win, got %d", v)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	c := newTestCache()
	var calls int
	v, err := Fetch(context.Background(), c, NewKey("patrons"), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, customerrors.NewHTTPError(http.StatusBadGateway, "Bad Gateway", "")
		}
		return 42, nil
	})
	if err != nil || v != 42 {
		t.Fatalf("expected success after retries, got %d %v", v, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	c := newTestCache()
	var calls int
	_, err := Fetch(context.Background(), c, NewKey("patron", "9"), func(context.Context) (int, error) {
		calls++
		return 0, customerrors.NewHTTPError(http.StatusNotFound, "Not Found", "Not Found")
	})
	if !customerrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
	if c.Err(NewKey("patron", "9")) == nil {
		t.Fatal("expected the error to be recorded")
	}
	if !c.IsStale(NewKey("patron", "9")) {
		t.Fatal("errored entries must refetch")
	}
}

func TestSubscribe(t *testing.T) {
	c := newTestCache()
	var got []Key
	unsubscribe := c.Subscribe(NewKey("products"), func(k Key) {
		got = append(got, k)
	})

	c.Invalidate(NewKey("products"))
	c.Invalidate(NewKey("orders"))
	unsubscribe()
	c.Invalidate(NewKey("products"))

	if len(got) != 1 || got[0].String() != "products" {
		t.Fatalf("unexpected notifications %v", got)
	}
}

func TestFetchHonorsCallerContext(t *testing.T) {
	c := newTestCache()
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Fetch(ctx, c, NewKey("slow"), func(context.Context) (int, error) {
		<-release
		return 1, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
