// internal/database/store.go
package database

import (
    "context"
    "errors"
)

var (
    ErrNotFound    = errors.New("record not found")
    ErrNoIdentity  = errors.New("no authenticated identity")
    ErrUnknownKind = errors.New("unknown record kind")
    ErrStoreClosed = errors.New("store is closed")
)

// Store is the generic record store the gateway persists through. Records are
// flat; nested values are carried as encoded text.
type Store interface {
    List(ctx context.Context, kind Kind, q Query) ([]Record, error)
    Create(ctx context.Context, kind Kind, rec Record) (Record, error)
    // Update merges patch into the stored record and returns the result.
    Update(ctx context.Context, kind Kind, id string, patch Record) (Record, error)
    Delete(ctx context.Context, kind Kind, id string) error

    Close() error
}

// MaintainedStore adds housekeeping operations exposed to administrators.
type MaintainedStore interface {
    Store

    Stats(ctx context.Context) (*StoreStats, error)
    Compact(ctx context.Context) error
}

// IdentityResolver reports who the current caller is.
type IdentityResolver interface {
    CurrentUser(ctx context.Context) (Identity, error)
}

type identityKey struct{}

// WithIdentity attaches the caller identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
    return context.WithValue(ctx, identityKey{}, id)
}

// ContextIdentity resolves the caller from the request context.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (Identity, error) {
    id, ok := ctx.Value(identityKey{}).(Identity)
    if !ok || id.ID == "" {
        return Identity{}, ErrNoIdentity
    }
    return id, nil
}
