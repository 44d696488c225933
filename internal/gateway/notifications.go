// internal/gateway/notifications.go
package gateway

import (
    "context"
    "time"

    "uptimeboard/internal/codec"
    "uptimeboard/internal/database"
    "uptimeboard/internal/models"
)

func (g *Gateway) ListNotifications(ctx context.Context, resourceID string) []models.Notification {
    start := time.Now()
    user := g.CurrentUser(ctx)

    records, mode := g.listRecords(ctx, database.KindNotifications, database.Query{
        Where:   ownedBy(user, map[string]interface{}{"resourceId": resourceID}),
        OrderBy: "createdAt",
        Desc:    true,
    })
    g.observe(database.KindNotifications, opList, mode, start)
    if mode != ModeStore {
        return g.fallback(user).NotificationsFor(resourceID)
    }

    notifications := make([]models.Notification, 0, len(records))
    for _, rec := range records {
        notifications = append(notifications, codec.DecodeNotification(rec))
    }
    return notifications
}

// CreateNotification stores a delivery rule. The recipient defaults to the
// caller.
func (g *Gateway) CreateNotification(ctx context.Context, in models.NotificationInput) (models.Notification, error) {
    start := time.Now()
    if err := in.Validate(); err != nil {
        return models.Notification{}, err
    }
    user := g.CurrentUser(ctx)
    now := g.timestamp()

    n := models.Notification{
        ID:         g.newID("notification"),
        ResourceID: in.ResourceID,
        UserID:     in.UserID,
        Type:       in.Type,
        Conditions: orEmptyFields(in.Conditions),
        IsActive:   in.IsActive,
        CreatedAt:  now,
        UpdatedAt:  now,
    }
    if n.UserID == "" {
        n.UserID = user.ID
    }

    rec := codec.EncodeNotification(n)
    rec["userId"] = user.ID

    created, mode := g.createRecord(ctx, database.KindNotifications, rec)
    g.observe(database.KindNotifications, opCreate, mode, start)
    if mode != ModeStore {
        return n, nil
    }
    return codec.DecodeNotification(created), nil
}

func (g *Gateway) UpdateNotification(ctx context.Context, id string, patch models.NotificationPatch) (models.Notification, error) {
    start := time.Now()
    if id == "" {
        return models.Notification{}, models.ValidationError("notification id is required")
    }
    if err := patch.Validate(); err != nil {
        return models.Notification{}, err
    }
    user := g.CurrentUser(ctx)
    now := g.timestamp()

    rec := codec.EncodeNotificationPatch(patch)
    rec["updatedAt"] = database.FormatTime(now)

    updated, mode := g.updateRecord(ctx, database.KindNotifications, id, user, rec)
    g.observe(database.KindNotifications, opUpdate, mode, start)
    if mode != ModeStore {
        return simulatedNotification(id, patch, user, now), nil
    }
    return codec.DecodeNotification(updated), nil
}

func (g *Gateway) DeleteNotification(ctx context.Context, id string) error {
    return g.deleteRecord(ctx, database.KindNotifications, id)
}

func simulatedNotification(id string, p models.NotificationPatch, user database.Identity, now time.Time) models.Notification {
    n := models.Notification{
        ID:         id,
        UserID:     user.ID,
        Type:       models.NotifyEmail,
        Conditions: models.Fields{},
        IsActive:   true,
        CreatedAt:  now,
        UpdatedAt:  now,
    }
    if p.ResourceID != nil {
        n.ResourceID = *p.ResourceID
    }
    if p.UserID != nil {
        n.UserID = *p.UserID
    }
    if p.Type != nil {
        n.Type = *p.Type
    }
    if p.Conditions != nil {
        n.Conditions = p.Conditions
    }
    if p.IsActive != nil {
        n.IsActive = *p.IsActive
    }
    return n
}
