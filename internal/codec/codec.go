// internal/codec/codec.go - Conversion between storage records and entities
package codec

import (
    "strconv"
    "strings"

    jsoniter "github.com/json-iterator/go"
    "uptimeboard/internal/database"
    "uptimeboard/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record field names that differ from the entity's JSON names.
const (
    fieldOwner            = "userId"
    fieldLegacyTestType   = "type"
    fieldNotificationUser = "notificationUserId"
)

func EncodeResource(r models.Resource) database.Record {
    return database.Record{
        "id":             r.ID,
        "name":           r.Name,
        "slug":           r.Slug,
        "tags":           encodeTags(r.Tags),
        "status":         string(r.Status),
        "lastChecked":    database.FormatTime(r.LastChecked.Time),
        "responseTime":   r.ResponseTime,
        "assignedUserId": r.AssignedUserID,
        "createdAt":      database.FormatTime(r.CreatedAt),
        "updatedAt":      database.FormatTime(r.UpdatedAt),
    }
}

func DecodeResource(rec database.Record) models.Resource {
    responseTime := intValue(rec["responseTime"])
    if responseTime < 0 {
        responseTime = 0
    }
    // Records written outside the gateway may carry any status; they read
    // as offline.
    status := models.ResourceStatus(rec.String("status"))
    if !status.Valid() {
        status = models.StatusOffline
    }
    return models.Resource{
        ID:             rec.String("id"),
        Name:           rec.String("name"),
        Slug:           rec.String("slug"),
        Tags:           decodeTags(rec["tags"]),
        Status:         status,
        LastChecked:    models.At(database.ParseTime(rec.String("lastChecked"))),
        ResponseTime:   responseTime,
        AssignedUserID: rec.String("assignedUserId"),
        CreatedAt:      database.ParseTime(rec.String("createdAt")),
        UpdatedAt:      database.ParseTime(rec.String("updatedAt")),
    }
}

func EncodeCheck(c models.Check) database.Record {
    return database.Record{
        "id":          c.ID,
        "name":        c.Name,
        "title":       c.Title,
        "description": c.Description,
        "tags":        encodeTags(c.Tags),
        "schedule":    c.Schedule,
        "testType":    string(c.TestType),
        "resourceId":  c.ResourceID,
        "criteria":    encodeFields(c.Criteria),
        "isActive":    boolFlag(c.IsActive),
        fieldOwner:    c.UserID,
        "createdAt":   database.FormatTime(c.CreatedAt),
        "updatedAt":   database.FormatTime(c.UpdatedAt),
    }
}

func DecodeCheck(rec database.Record) models.Check {
    rec = normalizeCheck(rec)
    c := models.Check{
        ID:          rec.String("id"),
        Name:        rec.String("name"),
        Title:       rec.String("title"),
        Description: rec.String("description"),
        Tags:        decodeTags(rec["tags"]),
        Schedule:    rec.String("schedule"),
        TestType:    models.TestType(rec.String("testType")),
        ResourceID:  rec.String("resourceId"),
        Criteria:    decodeFields(rec["criteria"]),
        IsActive:    flagValue(rec["isActive"]),
        UserID:      rec.String(fieldOwner),
        CreatedAt:   database.ParseTime(rec.String("createdAt")),
        UpdatedAt:   database.ParseTime(rec.String("updatedAt")),
    }
    if c.Title == "" {
        c.Title = c.Name
    }
    return c
}

// normalizeCheck migrates records written before the test type was stored
// under "testType". It returns a copy when a change is needed.
func normalizeCheck(rec database.Record) database.Record {
    if rec.String("testType") != "" {
        return rec
    }
    legacy := rec.String(fieldLegacyTestType)
    if legacy == "" {
        return rec
    }
    out := make(database.Record, len(rec)+1)
    for k, v := range rec {
        out[k] = v
    }
    out["testType"] = legacy
    return out
}

func EncodeEvent(e models.Event) database.Record {
    return database.Record{
        "id":         e.ID,
        "resourceId": e.ResourceID,
        "checkId":    e.CheckID,
        "type":       string(e.Type),
        "message":    e.Message,
        "details":    encodeFields(e.Details),
        "timestamp":  database.FormatTime(e.Timestamp),
    }
}

func DecodeEvent(rec database.Record) models.Event {
    return models.Event{
        ID:         rec.String("id"),
        ResourceID: rec.String("resourceId"),
        CheckID:    rec.String("checkId"),
        Type:       models.EventType(rec.String("type")),
        Message:    rec.String("message"),
        Details:    decodeFields(rec["details"]),
        Timestamp:  database.ParseTime(rec.String("timestamp")),
    }
}

// EncodeNotification stores the recipient under notificationUserId; userId
// on the record is the owner.
func EncodeNotification(n models.Notification) database.Record {
    return database.Record{
        "id":                  n.ID,
        "resourceId":          n.ResourceID,
        fieldNotificationUser: n.UserID,
        "type":                string(n.Type),
        "conditions":          encodeFields(n.Conditions),
        "isActive":            boolFlag(n.IsActive),
        "createdAt":           database.FormatTime(n.CreatedAt),
        "updatedAt":           database.FormatTime(n.UpdatedAt),
    }
}

func DecodeNotification(rec database.Record) models.Notification {
    recipient := rec.String(fieldNotificationUser)
    if recipient == "" {
        recipient = rec.String(fieldOwner)
    }
    return models.Notification{
        ID:         rec.String("id"),
        ResourceID: rec.String("resourceId"),
        UserID:     recipient,
        Type:       models.NotificationType(rec.String("type")),
        Conditions: decodeFields(rec["conditions"]),
        IsActive:   flagValue(rec["isActive"]),
        CreatedAt:  database.ParseTime(rec.String("createdAt")),
        UpdatedAt:  database.ParseTime(rec.String("updatedAt")),
    }
}

func encodeTags(tags []string) string {
    if tags == nil {
        tags = []string{}
    }
    data, err := json.Marshal(tags)
    if err != nil {
        return "[]"
    }
    return string(data)
}

func decodeTags(v interface{}) []string {
    tags := []string{}
    switch raw := v.(type) {
    case string:
        if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
            return []string{}
        }
    case []string:
        tags = append(tags, raw...)
    case []interface{}:
        for _, item := range raw {
            if s, ok := item.(string); ok {
                tags = append(tags, s)
            }
        }
    }
    return tags
}

func encodeFields(f models.Fields) string {
    if f == nil {
        return "{}"
    }
    data, err := json.Marshal(f)
    if err != nil {
        return "{}"
    }
    return string(data)
}

func decodeFields(v interface{}) models.Fields {
    switch raw := v.(type) {
    case string:
        var fields models.Fields
        if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
            return models.Fields{}
        }
        return fields
    case map[string]interface{}:
        return models.Fields(raw).Clone()
    case models.Fields:
        return raw.Clone()
    }
    return models.Fields{}
}

func boolFlag(b bool) int {
    if b {
        return 1
    }
    return 0
}

// flagValue treats any positive number as true.
func flagValue(v interface{}) bool {
    switch f := v.(type) {
    case bool:
        return f
    case string:
        n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
        return err == nil && n > 0
    }
    n, ok := models.ToNumber(v)
    return ok && n > 0
}

func intValue(v interface{}) int {
    if s, ok := v.(string); ok {
        n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
        if err != nil {
            return 0
        }
        return int(n)
    }
    n, _ := models.ToNumber(v)
    return int(n)
}
