// internal/gateway/resources.go
package gateway

import (
    "context"
    "time"

    "uptimeboard/internal/codec"
    "uptimeboard/internal/database"
    "uptimeboard/internal/models"
)

// ListResources returns the caller's resources, newest first. It never
// fails: when the store is unusable the sample resources are returned.
func (g *Gateway) ListResources(ctx context.Context) []models.Resource {
    start := time.Now()
    user := g.CurrentUser(ctx)

    records, mode := g.listRecords(ctx, database.KindResources, database.Query{
        Where:   ownedBy(user, nil),
        OrderBy: "createdAt",
        Desc:    true,
    })
    g.observe(database.KindResources, opList, mode, start)
    if mode != ModeStore {
        return g.fallback(user).Resources
    }

    resources := make([]models.Resource, 0, len(records))
    for _, rec := range records {
        resources = append(resources, codec.DecodeResource(rec))
    }
    return resources
}

func (g *Gateway) CreateResource(ctx context.Context, in models.ResourceInput) (models.Resource, error) {
    start := time.Now()
    if err := in.Validate(); err != nil {
        return models.Resource{}, err
    }
    user := g.CurrentUser(ctx)
    now := g.timestamp()

    r := models.Resource{
        ID:             g.newID("resource"),
        Name:           in.Name,
        Slug:           in.Slug,
        Tags:           orEmpty(in.Tags),
        Status:         in.Status,
        LastChecked:    in.LastChecked,
        ResponseTime:   in.ResponseTime,
        AssignedUserID: in.AssignedUserID,
        CreatedAt:      now,
        UpdatedAt:      now,
    }
    if r.Slug == "" {
        r.Slug = models.Slugify(r.Name)
    }
    if r.AssignedUserID == "" {
        r.AssignedUserID = user.ID
    }

    rec := codec.EncodeResource(r)
    rec["userId"] = user.ID

    created, mode := g.createRecord(ctx, database.KindResources, rec)
    g.observe(database.KindResources, opCreate, mode, start)
    if mode != ModeStore {
        return r, nil
    }
    return codec.DecodeResource(created), nil
}

func (g *Gateway) UpdateResource(ctx context.Context, id string, patch models.ResourcePatch) (models.Resource, error) {
    start := time.Now()
    if id == "" {
        return models.Resource{}, models.ValidationError("resource id is required")
    }
    if err := patch.Validate(); err != nil {
        return models.Resource{}, err
    }
    user := g.CurrentUser(ctx)
    now := g.timestamp()

    rec := codec.EncodeResourcePatch(patch)
    rec["updatedAt"] = database.FormatTime(now)

    updated, mode := g.updateRecord(ctx, database.KindResources, id, user, rec)
    g.observe(database.KindResources, opUpdate, mode, start)
    if mode != ModeStore {
        return simulatedResource(id, patch, user, now), nil
    }
    return codec.DecodeResource(updated), nil
}

func (g *Gateway) DeleteResource(ctx context.Context, id string) error {
    return g.deleteRecord(ctx, database.KindResources, id)
}

// simulatedResource merges the patch over placeholder values.
func simulatedResource(id string, p models.ResourcePatch, user database.Identity, now time.Time) models.Resource {
    r := models.Resource{
        ID:             id,
        Name:           "Updated Resource",
        Slug:           "updated-resource",
        Tags:           []string{},
        Status:         models.StatusOffline,
        AssignedUserID: user.ID,
        CreatedAt:      now,
        UpdatedAt:      now,
    }
    if p.Name != nil {
        r.Name = *p.Name
    }
    if p.Slug != nil {
        r.Slug = *p.Slug
    }
    if p.Tags != nil {
        r.Tags = p.Tags
    }
    if p.Status != nil {
        r.Status = *p.Status
    }
    if p.LastChecked != nil {
        r.LastChecked = *p.LastChecked
    }
    if p.ResponseTime != nil {
        r.ResponseTime = *p.ResponseTime
    }
    if p.AssignedUserID != nil {
        r.AssignedUserID = *p.AssignedUserID
    }
    return r
}
