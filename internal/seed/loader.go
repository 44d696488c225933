// internal/seed/loader.go - One-time "load sample data" action
package seed

import (
    "context"
    "fmt"
    "time"

    "github.com/sirupsen/logrus"
    "uptimeboard/internal/models"
)

// Writer is the part of the gateway the loader writes through.
type Writer interface {
    Available(ctx context.Context) bool
    ListResources(ctx context.Context) []models.Resource
    CreateResource(ctx context.Context, in models.ResourceInput) (models.Resource, error)
    CreateCheck(ctx context.Context, in models.CheckInput) (models.Check, error)
    CreateEvent(ctx context.Context, in models.EventInput) (models.Event, error)
    CreateNotification(ctx context.Context, in models.NotificationInput) (models.Notification, error)
}

type Result struct {
    Seeded        bool   `json:"seeded"`
    Reason        string `json:"reason,omitempty"`
    Resources     int    `json:"resources"`
    Checks        int    `json:"checks"`
    Events        int    `json:"events"`
    Notifications int    `json:"notifications"`
}

// Load writes the sample dataset for the caller. It does nothing when the
// store is unreachable or the caller already owns resources, so repeated
// calls are safe.
func Load(ctx context.Context, w Writer, now time.Time) (*Result, error) {
    if !w.Available(ctx) {
        logrus.Info("Store not available, sample data will be served from the fallback dataset")
        return &Result{Reason: "store unavailable"}, nil
    }

    existing := w.ListResources(ctx)
    if len(existing) > 0 {
        logrus.WithField("resources", len(existing)).Info("Sample data already exists")
        return &Result{Reason: "resources already exist"}, nil
    }

    logrus.Info("Seeding sample data")

    data := Generate(now, "")
    result := &Result{Seeded: true}

    // Sample ids are placeholders; map them to the ids the store assigns.
    resourceIDs := make(map[string]string, len(data.Resources))
    for _, r := range data.Resources {
        created, err := w.CreateResource(ctx, models.ResourceInput{
            Name:         r.Name,
            Slug:         r.Slug,
            Tags:         r.Tags,
            Status:       r.Status,
            LastChecked:  r.LastChecked,
            ResponseTime: r.ResponseTime,
        })
        if err != nil {
            return result, fmt.Errorf("failed to create sample resource %q: %w", r.Name, err)
        }
        resourceIDs[r.ID] = created.ID
        result.Resources++
    }

    checkIDs := make(map[string]string, len(data.Checks))
    for _, c := range data.Checks {
        created, err := w.CreateCheck(ctx, models.CheckInput{
            Name:        c.Name,
            Title:       c.Title,
            Description: c.Description,
            Tags:        c.Tags,
            Schedule:    c.Schedule,
            TestType:    c.TestType,
            ResourceID:  resourceIDs[c.ResourceID],
            Criteria:    c.Criteria,
            IsActive:    c.IsActive,
        })
        if err != nil {
            return result, fmt.Errorf("failed to create sample check %q: %w", c.Title, err)
        }
        checkIDs[c.ID] = created.ID
        result.Checks++
    }

    for _, e := range data.Events {
        _, err := w.CreateEvent(ctx, models.EventInput{
            ResourceID: resourceIDs[e.ResourceID],
            CheckID:    checkIDs[e.CheckID],
            Type:       e.Type,
            Message:    e.Message,
            Details:    e.Details,
            Timestamp:  e.Timestamp,
        })
        if err != nil {
            return result, fmt.Errorf("failed to create sample event: %w", err)
        }
        result.Events++
    }

    for _, n := range data.Notifications {
        _, err := w.CreateNotification(ctx, models.NotificationInput{
            ResourceID: resourceIDs[n.ResourceID],
            Type:       n.Type,
            Conditions: n.Conditions,
            IsActive:   n.IsActive,
        })
        if err != nil {
            return result, fmt.Errorf("failed to create sample notification: %w", err)
        }
        result.Notifications++
    }

    logrus.WithFields(logrus.Fields{
        "resources":     result.Resources,
        "checks":        result.Checks,
        "events":        result.Events,
        "notifications": result.Notifications,
    }).Info("Sample data seeded successfully")

    return result, nil
}
