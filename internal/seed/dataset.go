// internal/seed/dataset.go - Sample dataset for demos and degraded reads
package seed

import (
    "time"

    "uptimeboard/internal/models"
)

// Dataset is the fixed sample data: three resources, one check per resource,
// one event of each type and a single notification.
type Dataset struct {
    Resources     []models.Resource
    Checks        []models.Check
    Events        []models.Event
    Notifications []models.Notification
}

// Generate builds the dataset with timestamps relative to now. Every call
// returns fresh slices, so callers may modify the result.
func Generate(now time.Time, owner string) Dataset {
    now = now.UTC()
    ago := func(d time.Duration) time.Time { return now.Add(-d) }

    return Dataset{
        Resources: []models.Resource{
            {
                ID:             "1",
                Name:           "Main Website",
                Slug:           "main-website",
                Tags:           []string{"Production", "Website", "Critical"},
                Status:         models.StatusOnline,
                LastChecked:    models.At(ago(5 * time.Minute)),
                ResponseTime:   245,
                AssignedUserID: owner,
                CreatedAt:      ago(24 * time.Hour),
                UpdatedAt:      now,
            },
            {
                ID:             "2",
                Name:           "API Endpoint",
                Slug:           "api-endpoint",
                Tags:           []string{"Production", "API", "Backend"},
                Status:         models.StatusWarning,
                LastChecked:    models.At(ago(2 * time.Minute)),
                ResponseTime:   1200,
                AssignedUserID: owner,
                CreatedAt:      ago(12 * time.Hour),
                UpdatedAt:      now,
            },
            {
                ID:             "3",
                Name:           "SSL Certificate",
                Slug:           "ssl-certificate",
                Tags:           []string{"Security", "SSL", "Production"},
                Status:         models.StatusOffline,
                LastChecked:    models.At(ago(10 * time.Minute)),
                ResponseTime:   0,
                AssignedUserID: owner,
                CreatedAt:      ago(48 * time.Hour),
                UpdatedAt:      now,
            },
        },
        Checks: []models.Check{
            {
                ID:          "1",
                ResourceID:  "1",
                TestType:    models.TestUptime,
                Name:        "website-uptime-check",
                Title:       "Website Uptime Check",
                Description: "Monitor main website availability",
                Tags:        []string{"uptime", "critical"},
                Criteria:    models.Fields{"timeout": 30, "expectedStatus": 200},
                Schedule:    "*/5 * * * *",
                IsActive:    true,
                UserID:      owner,
                CreatedAt:   ago(24 * time.Hour),
                UpdatedAt:   now,
            },
            {
                ID:          "2",
                ResourceID:  "2",
                TestType:    models.TestResponseTime,
                Name:        "api-response-time",
                Title:       "API Response Time",
                Description: "Monitor API endpoint response time",
                Tags:        []string{"performance", "api"},
                Criteria:    models.Fields{"maxResponseTime": 1000},
                Schedule:    "*/2 * * * *",
                IsActive:    true,
                UserID:      owner,
                CreatedAt:   ago(12 * time.Hour),
                UpdatedAt:   now,
            },
            {
                ID:          "3",
                ResourceID:  "3",
                TestType:    models.TestSSL,
                Name:        "ssl-certificate-expiry",
                Title:       "SSL Certificate Expiry",
                Description: "Check SSL certificate expiration",
                Tags:        []string{"security", "ssl"},
                Criteria:    models.Fields{"daysBeforeExpiry": 30},
                Schedule:    "0 0 * * *",
                IsActive:    true,
                UserID:      owner,
                CreatedAt:   ago(48 * time.Hour),
                UpdatedAt:   now,
            },
        },
        // Newest first, matching the order the store returns events in.
        Events: []models.Event{
            {
                ID:         "2",
                ResourceID: "2",
                CheckID:    "2",
                Type:       models.EventWarning,
                Message:    "Response time exceeded threshold",
                Details:    models.Fields{"statusCode": 200, "responseTime": 1200, "threshold": 1000},
                Timestamp:  ago(2 * time.Minute),
            },
            {
                ID:         "1",
                ResourceID: "1",
                CheckID:    "1",
                Type:       models.EventSuccess,
                Message:    "Website is responding normally",
                Details:    models.Fields{"statusCode": 200, "responseTime": 245},
                Timestamp:  ago(5 * time.Minute),
            },
            {
                ID:         "3",
                ResourceID: "3",
                CheckID:    "3",
                Type:       models.EventFailure,
                Message:    "SSL certificate check failed",
                Details:    models.Fields{"error": "Connection timeout"},
                Timestamp:  ago(10 * time.Minute),
            },
        },
        Notifications: []models.Notification{
            {
                ID:         "1",
                ResourceID: "1",
                UserID:     owner,
                Type:       models.NotifyEmail,
                Conditions: models.Fields{"onFailure": true, "onWarning": false},
                IsActive:   true,
                CreatedAt:  ago(24 * time.Hour),
                UpdatedAt:  now,
            },
        },
    }
}

// ChecksFor filters by resource when resourceID is set.
func (d Dataset) ChecksFor(resourceID string) []models.Check {
    if resourceID == "" {
        return d.Checks
    }
    out := []models.Check{}
    for _, c := range d.Checks {
        if c.ResourceID == resourceID {
            out = append(out, c)
        }
    }
    return out
}

// EventsFor filters by resource and truncates to limit when limit > 0.
func (d Dataset) EventsFor(resourceID string, limit int) []models.Event {
    out := []models.Event{}
    for _, e := range d.Events {
        if resourceID == "" || e.ResourceID == resourceID {
            out = append(out, e)
        }
    }
    if limit > 0 && len(out) > limit {
        out = out[:limit]
    }
    return out
}

func (d Dataset) NotificationsFor(resourceID string) []models.Notification {
    if resourceID == "" {
        return d.Notifications
    }
    out := []models.Notification{}
    for _, n := range d.Notifications {
        if n.ResourceID == resourceID {
            out = append(out, n)
        }
    }
    return out
}
