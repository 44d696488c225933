// internal/gateway/events.go
package gateway

import (
    "context"
    "time"

    "uptimeboard/internal/codec"
    "uptimeboard/internal/database"
    "uptimeboard/internal/models"
)

type EventQuery struct {
    ResourceID string
    // Limit caps the result; zero means the gateway's default limit.
    Limit int
}

// ListEvents returns the caller's events newest first.
func (g *Gateway) ListEvents(ctx context.Context, q EventQuery) []models.Event {
    start := time.Now()
    user := g.CurrentUser(ctx)
    limit := q.Limit
    if limit <= 0 {
        limit = g.defaultEventLimit
    }

    records, mode := g.listRecords(ctx, database.KindEvents, database.Query{
        Where:   ownedBy(user, map[string]interface{}{"resourceId": q.ResourceID}),
        OrderBy: "timestamp",
        Desc:    true,
        Limit:   limit,
    })
    g.observe(database.KindEvents, opList, mode, start)
    if mode != ModeStore {
        return g.fallback(user).EventsFor(q.ResourceID, limit)
    }

    events := make([]models.Event, 0, len(records))
    for _, rec := range records {
        events = append(events, codec.DecodeEvent(rec))
    }
    return events
}

// CreateEvent appends an event. Events are never updated.
func (g *Gateway) CreateEvent(ctx context.Context, in models.EventInput) (models.Event, error) {
    start := time.Now()
    if err := in.Validate(); err != nil {
        return models.Event{}, err
    }
    user := g.CurrentUser(ctx)

    e := models.Event{
        ID:         g.newID("event"),
        ResourceID: in.ResourceID,
        CheckID:    in.CheckID,
        Type:       in.Type,
        Message:    in.Message,
        Details:    orEmptyFields(in.Details),
        Timestamp:  in.Timestamp.UTC(),
    }
    if in.Timestamp.IsZero() {
        e.Timestamp = g.timestamp()
    }

    rec := codec.EncodeEvent(e)
    rec["userId"] = user.ID

    created, mode := g.createRecord(ctx, database.KindEvents, rec)
    g.observe(database.KindEvents, opCreate, mode, start)
    if mode != ModeStore {
        return e, nil
    }
    return codec.DecodeEvent(created), nil
}
