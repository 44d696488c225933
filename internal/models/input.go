// internal/models/input.go - Create inputs and partial updates
package models

import (
    "errors"
    "fmt"
    "regexp"
    "strings"
    "time"
)

// ErrValidation marks input rejected before any I/O was attempted.
var ErrValidation = errors.New("validation failed")

func ValidationError(format string, args ...interface{}) error {
    return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

type ResourceInput struct {
    Name           string         `json:"name"`
    Slug           string         `json:"slug"`
    Tags           []string       `json:"tags"`
    Status         ResourceStatus `json:"status"`
    LastChecked    Timestamp      `json:"lastChecked"`
    ResponseTime   int            `json:"responseTime"`
    AssignedUserID string         `json:"assignedUserId"`
}

func (in *ResourceInput) Validate() error {
    if strings.TrimSpace(in.Name) == "" {
        return ValidationError("resource name is required")
    }
    if in.Status == "" {
        in.Status = StatusOnline
    }
    if !in.Status.Valid() {
        return ValidationError("invalid resource status %q", in.Status)
    }
    if in.ResponseTime < 0 {
        return ValidationError("response time must not be negative")
    }
    return nil
}

type CheckInput struct {
    Name        string   `json:"name"`
    Title       string   `json:"title"`
    Description string   `json:"description"`
    Tags        []string `json:"tags"`
    Schedule    string   `json:"schedule"`
    TestType    TestType `json:"testType"`
    ResourceID  string   `json:"resourceId"`
    Criteria    Fields   `json:"criteria"`
    IsActive    bool     `json:"isActive"`
}

// Validate checks required fields and fills Name from Title (or Title from
// Name) so the slug is generated exactly once, here.
func (in *CheckInput) Validate() error {
    if in.ResourceID == "" {
        return ValidationError("check resourceId is required")
    }
    if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Name) == "" {
        return ValidationError("check title is required")
    }
    if !in.TestType.Valid() {
        return ValidationError("invalid test type %q", in.TestType)
    }
    if err := validateCriteria(in.TestType, in.Criteria); err != nil {
        return err
    }
    if in.Title == "" {
        in.Title = in.Name
    }
    if in.Name == "" {
        in.Name = Slugify(in.Title)
    }
    return nil
}

type EventInput struct {
    ResourceID string    `json:"resourceId"`
    CheckID    string    `json:"checkId"`
    Type       EventType `json:"type"`
    Message    string    `json:"message"`
    Details    Fields    `json:"details"`
    Timestamp  time.Time `json:"timestamp"`
}

func (in *EventInput) Validate() error {
    if in.ResourceID == "" || in.CheckID == "" {
        return ValidationError("event resourceId and checkId are required")
    }
    if !in.Type.Valid() {
        return ValidationError("invalid event type %q", in.Type)
    }
    return nil
}

type NotificationInput struct {
    ResourceID string           `json:"resourceId"`
    UserID     string           `json:"userId"`
    Type       NotificationType `json:"type"`
    Conditions Fields           `json:"conditions"`
    IsActive   bool             `json:"isActive"`
}

func (in *NotificationInput) Validate() error {
    if in.ResourceID == "" {
        return ValidationError("notification resourceId is required")
    }
    if !in.Type.Valid() {
        return ValidationError("invalid notification type %q", in.Type)
    }
    return nil
}

// ResourcePatch carries a partial update; nil fields are left untouched.
type ResourcePatch struct {
    Name           *string         `json:"name"`
    Slug           *string         `json:"slug"`
    Tags           []string        `json:"tags"`
    Status         *ResourceStatus `json:"status"`
    LastChecked    *Timestamp      `json:"lastChecked"`
    ResponseTime   *int            `json:"responseTime"`
    AssignedUserID *string         `json:"assignedUserId"`
}

func (p *ResourcePatch) Validate() error {
    if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
        return ValidationError("resource name must not be empty")
    }
    if p.Status != nil && !p.Status.Valid() {
        return ValidationError("invalid resource status %q", *p.Status)
    }
    if p.ResponseTime != nil && *p.ResponseTime < 0 {
        return ValidationError("response time must not be negative")
    }
    return nil
}

// CheckPatch has no Name: the slug never changes after creation.
type CheckPatch struct {
    Title       *string   `json:"title"`
    Description *string   `json:"description"`
    Tags        []string  `json:"tags"`
    Schedule    *string   `json:"schedule"`
    TestType    *TestType `json:"testType"`
    ResourceID  *string   `json:"resourceId"`
    Criteria    Fields    `json:"criteria"`
    IsActive    *bool     `json:"isActive"`
}

func (p *CheckPatch) Validate() error {
    if p.TestType != nil && !p.TestType.Valid() {
        return ValidationError("invalid test type %q", *p.TestType)
    }
    if p.ResourceID != nil && *p.ResourceID == "" {
        return ValidationError("check resourceId must not be empty")
    }
    // Without a test type in the patch the shape is unknown here.
    if p.TestType != nil && p.Criteria != nil {
        return validateCriteria(*p.TestType, p.Criteria)
    }
    return nil
}

type NotificationPatch struct {
    ResourceID *string           `json:"resourceId"`
    UserID     *string           `json:"userId"`
    Type       *NotificationType `json:"type"`
    Conditions Fields            `json:"conditions"`
    IsActive   *bool             `json:"isActive"`
}

func (p *NotificationPatch) Validate() error {
    if p.Type != nil && !p.Type.Valid() {
        return ValidationError("invalid notification type %q", *p.Type)
    }
    return nil
}

var (
    slugStrip   = regexp.MustCompile(`[^a-z0-9\s-]`)
    slugSpaces  = regexp.MustCompile(`\s+`)
    slugHyphens = regexp.MustCompile(`-+`)
)

// Slugify lowercases s and reduces it to a hyphenated [a-z0-9-] form.
func Slugify(s string) string {
    slug := strings.ToLower(strings.TrimSpace(s))
    slug = slugStrip.ReplaceAllString(slug, "")
    slug = slugSpaces.ReplaceAllString(slug, "-")
    slug = slugHyphens.ReplaceAllString(slug, "-")
    return strings.Trim(slug, "-")
}
