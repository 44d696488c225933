package filter

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "uptimeboard/internal/models"
    "uptimeboard/internal/seed"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func sampleEngine() (*Engine, []models.Event) {
    data := seed.Generate(now, "u1")
    return NewEngine(data.Resources, data.Checks, time.UTC), data.Events
}

func ids(events []models.Event) []string {
    out := []string{}
    for _, e := range events {
        out = append(out, e.ID)
    }
    return out
}

func TestSearchIsCaseInsensitive(t *testing.T) {
    engine := NewEngine(nil, nil, nil)
    events := []models.Event{
        {ID: "a", Message: "SSL failed", ResourceID: "3"},
        {ID: "b", Message: "ok", ResourceID: "1"},
    }

    got := engine.Filter(events, EventFilter{Search: "ssl"})
    assert.Equal(t, []string{"a"}, ids(got))
}

func TestSearchMatchesJoinedNames(t *testing.T) {
    engine, events := sampleEngine()

    // "API Endpoint" resource name
    assert.Equal(t, []string{"2"}, ids(engine.Filter(events, EventFilter{Search: "endpoint"})))
    // "Website Uptime Check" check title
    assert.Equal(t, []string{"1"}, ids(engine.Filter(events, EventFilter{Search: "UPTIME CHECK"})))
    assert.Empty(t, engine.Filter(events, EventFilter{Search: "nothing matches"}))
}

func TestDimensionsCombineWithAnd(t *testing.T) {
    engine, events := sampleEngine()

    assert.Empty(t, engine.Filter(events, EventFilter{Status: models.EventFailure, ResourceID: "1"}))
    assert.Equal(t, []string{"3"}, ids(engine.Filter(events, EventFilter{Status: models.EventFailure, ResourceID: "3"})))
    assert.Equal(t, []string{"2"}, ids(engine.Filter(events, EventFilter{CheckID: "2"})))
}

func TestNoFiltersPreservesOrder(t *testing.T) {
    engine, events := sampleEngine()

    got := engine.Filter(events, EventFilter{})
    assert.Equal(t, []string{"2", "1", "3"}, ids(got))
    assert.False(t, EventFilter{}.HasActiveFilters())
}

func TestTagsMatchResourceOrCheck(t *testing.T) {
    engine, events := sampleEngine()

    // resource tag
    assert.Equal(t, []string{"2"}, ids(engine.Filter(events, EventFilter{Tags: []string{"API"}})))
    // check tag
    assert.Equal(t, []string{"3"}, ids(engine.Filter(events, EventFilter{Tags: []string{"ssl"}})))
    // any of the listed tags
    assert.Equal(t, []string{"2", "1"}, ids(engine.Filter(events, EventFilter{Tags: []string{"critical", "Backend"}})))
    assert.Len(t, engine.Filter(events, EventFilter{Tags: []string{"Production"}}), 3)
}

func TestJoinMissFailsScopedFilters(t *testing.T) {
    engine, _ := sampleEngine()
    orphan := []models.Event{{ID: "x", ResourceID: "gone", CheckID: "gone", Message: "orphan", Type: models.EventFailure}}

    assert.Len(t, engine.Filter(orphan, EventFilter{Status: models.EventFailure}), 1)
    assert.Empty(t, engine.Filter(orphan, EventFilter{ResourceID: "gone"}))
    assert.Empty(t, engine.Filter(orphan, EventFilter{CheckID: "gone"}))
    assert.Empty(t, engine.Filter(orphan, EventFilter{Tags: []string{"Production"}}))

    enriched := engine.Enrich(orphan)
    require.Len(t, enriched, 1)
    assert.Equal(t, Unknown, enriched[0].ResourceName)
    assert.Equal(t, Unknown, enriched[0].CheckTitle)
}

func TestEnrich(t *testing.T) {
    engine, events := sampleEngine()

    enriched := engine.FilterEnriched(events, EventFilter{Status: models.EventWarning})
    require.Len(t, enriched, 1)
    assert.Equal(t, "API Endpoint", enriched[0].ResourceName)
    assert.Equal(t, "API Response Time", enriched[0].CheckTitle)
}

func TestDateBoundsUseCalendarDays(t *testing.T) {
    engine := NewEngine(nil, nil, time.UTC)
    day := func(d, h int) time.Time { return time.Date(2026, 10, d, h, 0, 0, 0, time.UTC) }
    events := []models.Event{
        {ID: "late-14", Timestamp: day(14, 23)},
        {ID: "early-14", Timestamp: day(14, 0)},
        {ID: "13", Timestamp: day(13, 12)},
        {ID: "15", Timestamp: day(15, 0)},
    }

    // bound times of day are ignored
    got := engine.Filter(events, EventFilter{DateFrom: day(14, 18), DateTo: day(15, 6)})
    assert.Equal(t, []string{"late-14", "early-14"}, ids(got))

    assert.Equal(t, []string{"late-14", "early-14", "15"}, ids(engine.Filter(events, EventFilter{DateFrom: day(14, 9)})))
    assert.Equal(t, []string{"13"}, ids(engine.Filter(events, EventFilter{DateTo: day(14, 9)})))
    assert.True(t, EventFilter{DateTo: day(14, 9)}.HasActiveFilters())
}

func TestDateBoundsRespectLocation(t *testing.T) {
    loc := time.FixedZone("UTC+10", 10*3600)
    engine := NewEngine(nil, nil, loc)
    // 2026-10-14T20:00Z is already the 15th at UTC+10
    events := []models.Event{{ID: "a", Timestamp: time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)}}

    assert.Len(t, engine.Filter(events, EventFilter{DateFrom: time.Date(2026, 10, 15, 0, 0, 0, 0, loc)}), 1)
    assert.Empty(t, engine.Filter(events, EventFilter{DateTo: time.Date(2026, 10, 15, 12, 0, 0, 0, loc)}))
}

func TestResourceSearch(t *testing.T) {
    data := seed.Generate(now, "u1")

    assert.Len(t, Resources(data.Resources, ""), 3)
    assert.Len(t, Resources(data.Resources, "production"), 3)
    got := Resources(data.Resources, "api")
    require.Len(t, got, 1)
    assert.Equal(t, "API Endpoint", got[0].Name)
}

func TestCheckSearch(t *testing.T) {
    data := seed.Generate(now, "u1")

    assert.Len(t, Checks(data.Checks, CheckFilter{}), 3)
    assert.Len(t, Checks(data.Checks, CheckFilter{Search: "expiration"}), 1)
    assert.Len(t, Checks(data.Checks, CheckFilter{Search: "api-response"}), 1)
    assert.Len(t, Checks(data.Checks, CheckFilter{TestType: models.TestSSL}), 1)
    assert.Empty(t, Checks(data.Checks, CheckFilter{Search: "api", TestType: models.TestSSL}))
    assert.Len(t, Checks(data.Checks, CheckFilter{Tags: []string{"critical", "api"}}), 2)
}

func TestTagCatalog(t *testing.T) {
    resources := []models.Resource{{Tags: []string{"b", "a"}}, {Tags: []string{"a"}}}
    checks := []models.Check{{Tags: []string{"c", "b"}}}

    assert.Equal(t, []string{"a", "b", "c"}, Tags(resources, checks))
    assert.Equal(t, []string{}, Tags(nil, nil))
}
