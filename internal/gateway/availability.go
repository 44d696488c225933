// internal/gateway/availability.go
package gateway

import (
    "context"
    "time"

    "uptimeboard/internal/database"
)

// Availability reports whether the remote store can serve requests right now.
// The gateway asks on every call; implementations must not cache a verdict.
type Availability interface {
    Available(ctx context.Context) bool
}

// AvailabilityFunc adapts a function to Availability.
type AvailabilityFunc func(ctx context.Context) bool

func (f AvailabilityFunc) Available(ctx context.Context) bool { return f(ctx) }

// StoreProbe checks availability with a single capped read.
type StoreProbe struct {
    Store   database.Store
    Timeout time.Duration
}

func (p StoreProbe) Available(ctx context.Context) bool {
    if p.Store == nil {
        return false
    }
    _, err := call(ctx, p.Timeout, func(ctx context.Context) ([]database.Record, error) {
        return p.Store.List(ctx, database.KindResources, database.Query{Limit: 1})
    })
    return err == nil
}

// call runs fn under timeout and gives up waiting once it expires, even if
// fn ignores its context.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
    if timeout <= 0 {
        return fn(ctx)
    }
    ctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()

    type result struct {
        value T
        err   error
    }
    done := make(chan result, 1)
    go func() {
        v, err := fn(ctx)
        done <- result{v, err}
    }()

    select {
    case r := <-done:
        return r.value, r.err
    case <-ctx.Done():
        var zero T
        return zero, ctx.Err()
    }
}
