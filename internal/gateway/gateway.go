// internal/gateway/gateway.go - Persistence gateway with degraded-mode fallback
package gateway

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/sirupsen/logrus"
    "uptimeboard/internal/database"
    "uptimeboard/internal/models"
    "uptimeboard/internal/seed"
)

// Mode describes how a gateway call was served.
type Mode string

const (
    // ModeStore: the remote store handled the call.
    ModeStore Mode = "store"
    // ModeDegraded: the availability probe failed; seed data or a simulated
    // write was returned.
    ModeDegraded Mode = "degraded"
    // ModeFallback: the probe passed but the store call itself failed.
    ModeFallback Mode = "fallback"
)

const (
    opList   = "list"
    opCreate = "create"
    opUpdate = "update"
    opDelete = "delete"
)

const (
    DefaultProbeTimeout     = 2 * time.Second
    DefaultOperationTimeout = 10 * time.Second
    DefaultEventLimit       = 50
    DefaultSchedule         = "*/15 * * * *"
)

// Observer receives one notification per gateway operation.
type Observer interface {
    ObserveOperation(kind database.Kind, op string, mode Mode, elapsed time.Duration)
    ObserveProbe(available bool, elapsed time.Duration)
}

// Gateway performs CRUD against the store and substitutes the seed dataset
// or simulated writes whenever the store cannot be reached.
//
// Simulated writes return entities indistinguishable from persisted ones and
// are not visible to later reads. This keeps the dashboard usable as a demo
// while the backend is down.
type Gateway struct {
    store             database.Store
    identity          database.IdentityResolver
    availability      Availability
    anonymous         database.Identity
    probeTimeout      time.Duration
    operationTimeout  time.Duration
    defaultEventLimit int
    now               func() time.Time
    observer          Observer
}

type Option func(*Gateway)

func WithAvailability(a Availability) Option {
    return func(g *Gateway) { g.availability = a }
}

// WithAnonymousIdentity sets the identity used when the resolver fails.
func WithAnonymousIdentity(id database.Identity) Option {
    return func(g *Gateway) { g.anonymous = id }
}

func WithProbeTimeout(d time.Duration) Option {
    return func(g *Gateway) { g.probeTimeout = d }
}

func WithOperationTimeout(d time.Duration) Option {
    return func(g *Gateway) { g.operationTimeout = d }
}

func WithDefaultEventLimit(n int) Option {
    return func(g *Gateway) { g.defaultEventLimit = n }
}

func WithClock(now func() time.Time) Option {
    return func(g *Gateway) { g.now = now }
}

func WithObserver(o Observer) Option {
    return func(g *Gateway) { g.observer = o }
}

func New(store database.Store, identity database.IdentityResolver, opts ...Option) *Gateway {
    g := &Gateway{
        store:             store,
        identity:          identity,
        anonymous:         database.Identity{ID: "demo-user"},
        probeTimeout:      DefaultProbeTimeout,
        operationTimeout:  DefaultOperationTimeout,
        defaultEventLimit: DefaultEventLimit,
        now:               time.Now,
    }
    for _, opt := range opts {
        opt(g)
    }
    if g.availability == nil {
        g.availability = StoreProbe{Store: store, Timeout: g.probeTimeout}
    }
    return g
}

// Available runs the availability probe.
func (g *Gateway) Available(ctx context.Context) bool {
    start := time.Now()
    ok := g.availability.Available(ctx)
    if g.observer != nil {
        g.observer.ObserveProbe(ok, time.Since(start))
    }
    return ok
}

// AnonymousIdentity returns the placeholder identity used when the caller
// cannot be resolved.
func (g *Gateway) AnonymousIdentity() database.Identity {
    return g.anonymous
}

// CurrentUser resolves the caller, falling back to the anonymous identity.
func (g *Gateway) CurrentUser(ctx context.Context) database.Identity {
    if g.identity == nil {
        return g.anonymous
    }
    id, err := g.identity.CurrentUser(ctx)
    if err != nil || id.ID == "" {
        logrus.WithError(err).Debug("Identity unavailable, using anonymous identity")
        return g.anonymous
    }
    return id
}

func (g *Gateway) timestamp() time.Time {
    return g.now().UTC().Truncate(time.Millisecond)
}

// newID returns "{prefix}_{unix millis}_{random}". Uniqueness is best effort;
// the store is authoritative.
func (g *Gateway) newID(prefix string) string {
    suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
    return fmt.Sprintf("%s_%d_%s", prefix, g.now().UnixMilli(), suffix)
}

func (g *Gateway) fallback(user database.Identity) seed.Dataset {
    return seed.Generate(g.now(), user.ID)
}

func (g *Gateway) observe(kind database.Kind, op string, mode Mode, start time.Time) {
    if g.observer != nil {
        g.observer.ObserveOperation(kind, op, mode, time.Since(start))
    }
}

func ownedBy(user database.Identity, extra map[string]interface{}) map[string]interface{} {
    where := map[string]interface{}{"userId": user.ID}
    for k, v := range extra {
        if v != "" {
            where[k] = v
        }
    }
    return where
}

// listRecords returns the store's records and ModeStore, or nil and the
// mode the caller must fall back in.
func (g *Gateway) listRecords(ctx context.Context, kind database.Kind, q database.Query) ([]database.Record, Mode) {
    if !g.Available(ctx) {
        logrus.WithFields(logrus.Fields{"kind": kind, "op": opList}).Warn("Store not available, using sample data")
        return nil, ModeDegraded
    }
    records, err := call(ctx, g.operationTimeout, func(ctx context.Context) ([]database.Record, error) {
        return g.store.List(ctx, kind, q)
    })
    if err != nil {
        logrus.WithFields(logrus.Fields{"kind": kind, "op": opList}).WithError(err).Warn("Store list failed, using sample data")
        return nil, ModeFallback
    }
    return records, ModeStore
}

func (g *Gateway) createRecord(ctx context.Context, kind database.Kind, rec database.Record) (database.Record, Mode) {
    if !g.Available(ctx) {
        logrus.WithFields(logrus.Fields{"kind": kind, "id": rec.String("id")}).Info("Store not available, simulating create")
        return nil, ModeDegraded
    }
    created, err := call(ctx, g.operationTimeout, func(ctx context.Context) (database.Record, error) {
        return g.store.Create(ctx, kind, rec)
    })
    if err != nil {
        logrus.WithFields(logrus.Fields{"kind": kind, "op": opCreate}).WithError(err).Warn("Store create failed, simulating create")
        return nil, ModeFallback
    }
    return created, ModeStore
}

// updateRecord only touches records owned by user; anything else is
// treated like a store failure.
func (g *Gateway) updateRecord(ctx context.Context, kind database.Kind, id string, user database.Identity, patch database.Record) (database.Record, Mode) {
    if !g.Available(ctx) {
        logrus.WithFields(logrus.Fields{"kind": kind, "id": id}).Info("Store not available, simulating update")
        return nil, ModeDegraded
    }
    updated, err := call(ctx, g.operationTimeout, func(ctx context.Context) (database.Record, error) {
        if err := g.checkOwner(ctx, kind, id, user); err != nil {
            return nil, err
        }
        return g.store.Update(ctx, kind, id, patch)
    })
    if err != nil {
        logrus.WithFields(logrus.Fields{"kind": kind, "op": opUpdate, "id": id}).WithError(err).Warn("Store update failed, simulating update")
        return nil, ModeFallback
    }
    return updated, ModeStore
}

func (g *Gateway) deleteRecord(ctx context.Context, kind database.Kind, id string) error {
    start := time.Now()
    if id == "" {
        return models.ValidationError("%s id is required", kind)
    }
    user := g.CurrentUser(ctx)

    if !g.Available(ctx) {
        logrus.WithFields(logrus.Fields{"kind": kind, "id": id}).Info("Store not available, simulated deletion")
        g.observe(kind, opDelete, ModeDegraded, start)
        return nil
    }
    _, err := call(ctx, g.operationTimeout, func(ctx context.Context) (struct{}, error) {
        if err := g.checkOwner(ctx, kind, id, user); err != nil {
            return struct{}{}, err
        }
        return struct{}{}, g.store.Delete(ctx, kind, id)
    })
    if err != nil {
        logrus.WithFields(logrus.Fields{"kind": kind, "op": opDelete, "id": id}).WithError(err).Warn("Store delete failed, simulated deletion")
        g.observe(kind, opDelete, ModeFallback, start)
        return nil
    }
    g.observe(kind, opDelete, ModeStore, start)
    return nil
}

func (g *Gateway) checkOwner(ctx context.Context, kind database.Kind, id string, user database.Identity) error {
    records, err := g.store.List(ctx, kind, database.Query{
        Where: ownedBy(user, map[string]interface{}{"id": id}),
        Limit: 1,
    })
    if err != nil {
        return err
    }
    if len(records) == 0 {
        return fmt.Errorf("%w: %s %s", database.ErrNotFound, kind, id)
    }
    return nil
}

func orEmpty(tags []string) []string {
    if tags == nil {
        return []string{}
    }
    return tags
}

func orEmptyFields(f models.Fields) models.Fields {
    if f == nil {
        return models.Fields{}
    }
    return f
}
