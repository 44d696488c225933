// internal/database/models.go
package database

import (
    "time"
)

type Kind string

const (
    KindResources     Kind = "resources"
    KindChecks        Kind = "checks"
    KindEvents        Kind = "events"
    KindNotifications Kind = "notifications"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{KindResources, KindChecks, KindEvents, KindNotifications}

// Record is the storage form of an entity. Every record carries "id" and the
// owning "userId".
type Record map[string]interface{}

func (r Record) String(key string) string {
    s, _ := r[key].(string)
    return s
}

type Query struct {
    // Where holds equality constraints.
    Where   map[string]interface{}
    OrderBy string
    Desc    bool
    Limit   int
}

type Identity struct {
    ID    string `json:"id"`
    Email string `json:"email,omitempty"`
}

type StoreStats struct {
    Records      map[Kind]int `json:"records"`
    DatabaseSize int64        `json:"database_size_bytes"`
    CheckedAt    time.Time    `json:"checked_at"`
}

// TimeLayout is the stored timestamp form: fixed-width UTC with
// milliseconds, so lexical order matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

func FormatTime(t time.Time) string {
    if t.IsZero() {
        return ""
    }
    return t.UTC().Format(TimeLayout)
}

// ParseTime accepts the stored layout or any RFC 3339 value; anything else
// yields the zero time.
func ParseTime(s string) time.Time {
    if s == "" {
        return time.Time{}
    }
    if t, err := time.Parse(TimeLayout, s); err == nil {
        return t
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t.UTC()
    }
    return time.Time{}
}
