package query

import "context"

// Mutation runs a write and, on success, invalidates the keys it reports.
// It is never retried and nothing is rolled back on failure.
type Mutation[In, Out any] struct {
	cache       *Cache
	fn          func(ctx context.Context, in In) (Out, error)
	invalidates func(in In, out Out) []Key
	onSuccess   []func(in In, out Out)
}

func NewMutation[In, Out any](cache *Cache, fn func(ctx context.Context, in In) (Out, error), invalidates func(in In, out Out) []Key) *Mutation[In, Out] {
	return &Mutation[In, Out]{
		cache:       cache,
		fn:          fn,
		invalidates: invalidates,
	}
}

// OnSuccess adds a callback that runs after invalidation.
func (m *Mutation[In, Out]) OnSuccess(fn func(in In, out Out)) *Mutation[In, Out] {
	m.onSuccess = append(m.onSuccess, fn)
	return m
}

func (m *Mutation[In, Out]) Run(ctx context.Context, in In) (Out, error) {
	out, err := m.fn(ctx, in)
	if err != nil {
		return out, err
	}

	if m.invalidates != nil {
		for _, key := range m.invalidates(in, out) {
			m.cache.Invalidate(key)
		}
	}
	for _, fn := range m.onSuccess {
		fn(in, out)
	}
	return out, nil
}
