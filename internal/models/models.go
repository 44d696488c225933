// internal/models/models.go
package models

import (
    "time"
)

type ResourceStatus string

const (
    StatusOnline  ResourceStatus = "online"
    StatusWarning ResourceStatus = "warning"
    StatusOffline ResourceStatus = "offline"
)

func (s ResourceStatus) Valid() bool {
    switch s {
    case StatusOnline, StatusWarning, StatusOffline:
        return true
    }
    return false
}

type TestType string

const (
    TestUptime       TestType = "uptime"
    TestCertificate  TestType = "certificate"
    TestResponseTime TestType = "response_time"
    TestContent      TestType = "content"
    TestSSL          TestType = "ssl"
    TestDNS          TestType = "dns"
    TestPort         TestType = "port"
)

func (t TestType) Valid() bool {
    switch t {
    case TestUptime, TestCertificate, TestResponseTime, TestContent, TestSSL, TestDNS, TestPort:
        return true
    }
    return false
}

type EventType string

const (
    EventSuccess EventType = "success"
    EventWarning EventType = "warning"
    EventFailure EventType = "failure"
)

func (t EventType) Valid() bool {
    switch t {
    case EventSuccess, EventWarning, EventFailure:
        return true
    }
    return false
}

type NotificationType string

const (
    NotifyEmail   NotificationType = "email"
    NotifyWebhook NotificationType = "webhook"
)

func (t NotificationType) Valid() bool {
    return t == NotifyEmail || t == NotifyWebhook
}

// Resource is a monitored target. LastChecked is zero when the resource has
// never been checked.
type Resource struct {
    ID             string         `json:"id"`
    Name           string         `json:"name"`
    Slug           string         `json:"slug,omitempty"`
    Tags           []string       `json:"tags"`
    Status         ResourceStatus `json:"status"`
    LastChecked    Timestamp      `json:"lastChecked"`
    ResponseTime   int            `json:"responseTime"`
    AssignedUserID string         `json:"assignedUserId"`
    CreatedAt      time.Time      `json:"createdAt"`
    UpdatedAt      time.Time      `json:"updatedAt"`
}

// Check is a monitoring rule bound to one resource. Name is a slug fixed at
// creation; Title is the editable label.
type Check struct {
    ID          string    `json:"id"`
    Name        string    `json:"name"`
    Title       string    `json:"title"`
    Description string    `json:"description,omitempty"`
    Tags        []string  `json:"tags"`
    Schedule    string    `json:"schedule"`
    TestType    TestType  `json:"testType"`
    ResourceID  string    `json:"resourceId"`
    Criteria    Fields    `json:"criteria"`
    IsActive    bool      `json:"isActive"`
    UserID      string    `json:"userId"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}

// Event is an immutable check outcome.
type Event struct {
    ID         string    `json:"id"`
    ResourceID string    `json:"resourceId"`
    CheckID    string    `json:"checkId"`
    Type       EventType `json:"type"`
    Message    string    `json:"message"`
    Details    Fields    `json:"details"`
    Timestamp  time.Time `json:"timestamp"`
}

type Notification struct {
    ID         string           `json:"id"`
    ResourceID string           `json:"resourceId"`
    UserID     string           `json:"userId"`
    Type       NotificationType `json:"type"`
    Conditions Fields           `json:"conditions"`
    IsActive   bool             `json:"isActive"`
    CreatedAt  time.Time        `json:"createdAt"`
    UpdatedAt  time.Time        `json:"updatedAt"`
}

// Fields is an open string-keyed map used for criteria, conditions and details.
type Fields map[string]interface{}

// Clone returns a shallow copy; nil stays nil.
func (f Fields) Clone() Fields {
    if f == nil {
        return nil
    }
    out := make(Fields, len(f))
    for k, v := range f {
        out[k] = v
    }
    return out
}

func (f Fields) Bool(key string) bool {
    v, ok := f[key].(bool)
    return ok && v
}

// Number reads a numeric value regardless of the concrete numeric type it
// was decoded or constructed with.
func (f Fields) Number(key string) (float64, bool) {
    return ToNumber(f[key])
}

// ToNumber converts any Go numeric value to float64.
func ToNumber(value interface{}) (float64, bool) {
    switch v := value.(type) {
    case float64:
        return v, true
    case float32:
        return float64(v), true
    case int:
        return float64(v), true
    case int64:
        return float64(v), true
    case int32:
        return float64(v), true
    }
    return 0, false
}

func (f Fields) String(key string) string {
    s, _ := f[key].(string)
    return s
}
