// internal/gateway/checks.go
package gateway

import (
    "context"
    "time"

    "uptimeboard/internal/codec"
    "uptimeboard/internal/database"
    "uptimeboard/internal/models"
)

// ListChecks returns the caller's checks, optionally for one resource.
func (g *Gateway) ListChecks(ctx context.Context, resourceID string) []models.Check {
    start := time.Now()
    user := g.CurrentUser(ctx)

    records, mode := g.listRecords(ctx, database.KindChecks, database.Query{
        Where:   ownedBy(user, map[string]interface{}{"resourceId": resourceID}),
        OrderBy: "createdAt",
        Desc:    true,
    })
    g.observe(database.KindChecks, opList, mode, start)
    if mode != ModeStore {
        return g.fallback(user).ChecksFor(resourceID)
    }

    checks := make([]models.Check, 0, len(records))
    for _, rec := range records {
        checks = append(checks, codec.DecodeCheck(rec))
    }
    return checks
}

func (g *Gateway) CreateCheck(ctx context.Context, in models.CheckInput) (models.Check, error) {
    start := time.Now()
    if err := in.Validate(); err != nil {
        return models.Check{}, err
    }
    user := g.CurrentUser(ctx)
    now := g.timestamp()

    c := models.Check{
        ID:          g.newID("check"),
        Name:        in.Name,
        Title:       in.Title,
        Description: in.Description,
        Tags:        orEmpty(in.Tags),
        Schedule:    in.Schedule,
        TestType:    in.TestType,
        ResourceID:  in.ResourceID,
        Criteria:    orEmptyFields(in.Criteria),
        IsActive:    in.IsActive,
        UserID:      user.ID,
        CreatedAt:   now,
        UpdatedAt:   now,
    }
    if c.Schedule == "" {
        c.Schedule = DefaultSchedule
    }

    created, mode := g.createRecord(ctx, database.KindChecks, codec.EncodeCheck(c))
    g.observe(database.KindChecks, opCreate, mode, start)
    if mode != ModeStore {
        return c, nil
    }
    return codec.DecodeCheck(created), nil
}

// UpdateCheck applies patch. The check's name is never changed.
func (g *Gateway) UpdateCheck(ctx context.Context, id string, patch models.CheckPatch) (models.Check, error) {
    start := time.Now()
    if id == "" {
        return models.Check{}, models.ValidationError("check id is required")
    }
    if err := patch.Validate(); err != nil {
        return models.Check{}, err
    }
    user := g.CurrentUser(ctx)
    now := g.timestamp()

    rec := codec.EncodeCheckPatch(patch)
    rec["updatedAt"] = database.FormatTime(now)

    updated, mode := g.updateRecord(ctx, database.KindChecks, id, user, rec)
    g.observe(database.KindChecks, opUpdate, mode, start)
    if mode != ModeStore {
        return simulatedCheck(id, patch, user, now), nil
    }
    return codec.DecodeCheck(updated), nil
}

func (g *Gateway) DeleteCheck(ctx context.Context, id string) error {
    return g.deleteRecord(ctx, database.KindChecks, id)
}

func simulatedCheck(id string, p models.CheckPatch, user database.Identity, now time.Time) models.Check {
    c := models.Check{
        ID:        id,
        Name:      "updated-check",
        Title:     "Updated Check",
        Tags:      []string{},
        Schedule:  DefaultSchedule,
        TestType:  models.TestUptime,
        Criteria:  models.Fields{},
        IsActive:  true,
        UserID:    user.ID,
        CreatedAt: now,
        UpdatedAt: now,
    }
    if p.Title != nil {
        c.Title = *p.Title
    }
    if p.Description != nil {
        c.Description = *p.Description
    }
    if p.Tags != nil {
        c.Tags = p.Tags
    }
    if p.Schedule != nil {
        c.Schedule = *p.Schedule
    }
    if p.TestType != nil {
        c.TestType = *p.TestType
    }
    if p.ResourceID != nil {
        c.ResourceID = *p.ResourceID
    }
    if p.Criteria != nil {
        c.Criteria = p.Criteria
    }
    if p.IsActive != nil {
        c.IsActive = *p.IsActive
    }
    return c
}
