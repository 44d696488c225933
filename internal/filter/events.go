// internal/filter/events.go - Event filter engine
package filter

import (
    "strings"
    "time"

    "uptimeboard/internal/models"
)

// Unknown is displayed for an event whose resource or check no longer exists.
const Unknown = "Unknown"

// EventFilter selects events. Unset dimensions impose no constraint; set
// dimensions are combined with AND.
type EventFilter struct {
    Search     string
    ResourceID string
    CheckID    string
    Status     models.EventType
    // Tags matches when the event's resource or check carries any of them.
    Tags []string
    // DateFrom and DateTo are truncated to calendar days. DateFrom is
    // inclusive, DateTo exclusive.
    DateFrom time.Time
    DateTo   time.Time
}

func (f EventFilter) HasActiveFilters() bool {
    return f.Search != "" || f.ResourceID != "" || f.CheckID != "" || f.Status != "" ||
        len(f.Tags) > 0 || !f.DateFrom.IsZero() || !f.DateTo.IsZero()
}

// EnrichedEvent pairs an event with the display names of its resource and
// check.
type EnrichedEvent struct {
    models.Event
    ResourceName string `json:"resourceName"`
    CheckTitle   string `json:"checkTitle"`
}

// Engine evaluates filters against one snapshot of resources and checks.
type Engine struct {
    resources map[string]models.Resource
    checks    map[string]models.Check
    loc       *time.Location
}

// NewEngine indexes the join collections. A nil loc means UTC.
func NewEngine(resources []models.Resource, checks []models.Check, loc *time.Location) *Engine {
    if loc == nil {
        loc = time.UTC
    }
    e := &Engine{
        resources: make(map[string]models.Resource, len(resources)),
        checks:    make(map[string]models.Check, len(checks)),
        loc:       loc,
    }
    for _, r := range resources {
        e.resources[r.ID] = r
    }
    for _, c := range checks {
        e.checks[c.ID] = c
    }
    return e
}

// Filter returns the matching events in input order.
func (e *Engine) Filter(events []models.Event, f EventFilter) []models.Event {
    m := e.matcher(f)
    out := []models.Event{}
    for _, ev := range events {
        if m(ev) {
            out = append(out, ev)
        }
    }
    return out
}

// FilterEnriched is Filter plus display names.
func (e *Engine) FilterEnriched(events []models.Event, f EventFilter) []EnrichedEvent {
    return e.Enrich(e.Filter(events, f))
}

func (e *Engine) Enrich(events []models.Event) []EnrichedEvent {
    out := make([]EnrichedEvent, 0, len(events))
    for _, ev := range events {
        enriched := EnrichedEvent{Event: ev, ResourceName: Unknown, CheckTitle: Unknown}
        if r, ok := e.resources[ev.ResourceID]; ok {
            enriched.ResourceName = r.Name
        }
        if c, ok := e.checks[ev.CheckID]; ok {
            enriched.CheckTitle = c.Title
        }
        out = append(out, enriched)
    }
    return out
}

func (e *Engine) matcher(f EventFilter) func(models.Event) bool {
    search := strings.ToLower(f.Search)
    var from, to time.Time
    if !f.DateFrom.IsZero() {
        from = e.startOfDay(f.DateFrom)
    }
    if !f.DateTo.IsZero() {
        to = e.startOfDay(f.DateTo)
    }

    return func(ev models.Event) bool {
        r, hasResource := e.resources[ev.ResourceID]
        c, hasCheck := e.checks[ev.CheckID]

        if search != "" {
            found := strings.Contains(strings.ToLower(ev.Message), search) ||
                (hasResource && strings.Contains(strings.ToLower(r.Name), search)) ||
                (hasCheck && strings.Contains(strings.ToLower(c.Title), search))
            if !found {
                return false
            }
        }
        if f.ResourceID != "" && (!hasResource || ev.ResourceID != f.ResourceID) {
            return false
        }
        if f.CheckID != "" && (!hasCheck || ev.CheckID != f.CheckID) {
            return false
        }
        if f.Status != "" && ev.Type != f.Status {
            return false
        }
        if len(f.Tags) > 0 && !anyTag(f.Tags, r.Tags, c.Tags) {
            return false
        }
        if !from.IsZero() && ev.Timestamp.Before(from) {
            return false
        }
        if !to.IsZero() && !ev.Timestamp.Before(to) {
            return false
        }
        return true
    }
}

func (e *Engine) startOfDay(t time.Time) time.Time {
    t = t.In(e.loc)
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.loc)
}

func anyTag(wanted []string, sets ...[]string) bool {
    for _, set := range sets {
        for _, tag := range set {
            for _, w := range wanted {
                if tag == w {
                    return true
                }
            }
        }
    }
    return false
}
