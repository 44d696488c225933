// internal/web/handlers.go
package web

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/sirupsen/logrus"
    "golang.org/x/sync/errgroup"
    "uptimeboard/internal/dashboard"
    "uptimeboard/internal/filter"
    "uptimeboard/internal/gateway"
    "uptimeboard/internal/models"
    "uptimeboard/internal/seed"
)

// maxEventLimit caps ?limit= on the events endpoints.
const maxEventLimit = 1000

// respondError maps validation failures to 400. Anything else is unexpected:
// the gateway absorbs store failures.
func respondError(c *gin.Context, err error, action string) {
    if errors.Is(err, models.ErrValidation) {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    logrus.WithError(err).Errorf("Failed to %s", action)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
}

// GET /api/resources?search=
func (s *Server) getResources(c *gin.Context) {
    resources := filter.Resources(s.gateway.ListResources(c.Request.Context()), c.Query("search"))
    c.JSON(http.StatusOK, gin.H{
        "data":  resources,
        "count": len(resources),
    })
}

func (s *Server) createResource(c *gin.Context) {
    var req models.ResourceInput
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    resource, err := s.gateway.CreateResource(c.Request.Context(), req)
    if err != nil {
        respondError(c, err, "create resource")
        return
    }

    s.notify(c, "resource_created", resource)
    c.JSON(http.StatusCreated, gin.H{"data": resource})
}

func (s *Server) updateResource(c *gin.Context) {
    var req models.ResourcePatch
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    resource, err := s.gateway.UpdateResource(c.Request.Context(), c.Param("id"), req)
    if err != nil {
        respondError(c, err, "update resource")
        return
    }

    s.notify(c, "resource_updated", resource)
    c.JSON(http.StatusOK, gin.H{"data": resource})
}

func (s *Server) deleteResource(c *gin.Context) {
    id := c.Param("id")
    if err := s.gateway.DeleteResource(c.Request.Context(), id); err != nil {
        respondError(c, err, "delete resource")
        return
    }

    s.notify(c, "resource_deleted", gin.H{"id": id})
    c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully"})
}

// GET /api/checks?resource_id=&search=&test_type=&tags=
func (s *Server) getChecks(c *gin.Context) {
    checks := s.gateway.ListChecks(c.Request.Context(), c.Query("resource_id"))
    checks = filter.Checks(checks, filter.CheckFilter{
        Search:   c.Query("search"),
        TestType: models.TestType(c.Query("test_type")),
        Tags:     queryList(c, "tags"),
    })
    c.JSON(http.StatusOK, gin.H{
        "data":  checks,
        "count": len(checks),
    })
}

func (s *Server) createCheck(c *gin.Context) {
    var req models.CheckInput
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    check, err := s.gateway.CreateCheck(c.Request.Context(), req)
    if err != nil {
        respondError(c, err, "create check")
        return
    }

    s.notify(c, "check_created", check)
    c.JSON(http.StatusCreated, gin.H{"data": check})
}

func (s *Server) updateCheck(c *gin.Context) {
    var req models.CheckPatch
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    check, err := s.gateway.UpdateCheck(c.Request.Context(), c.Param("id"), req)
    if err != nil {
        respondError(c, err, "update check")
        return
    }

    s.notify(c, "check_updated", check)
    c.JSON(http.StatusOK, gin.H{"data": check})
}

func (s *Server) deleteCheck(c *gin.Context) {
    id := c.Param("id")
    if err := s.gateway.DeleteCheck(c.Request.Context(), id); err != nil {
        respondError(c, err, "delete check")
        return
    }

    s.notify(c, "check_deleted", gin.H{"id": id})
    c.JSON(http.StatusOK, gin.H{"message": "Check deleted successfully"})
}

// GET /api/events - filtered, enriched events, newest first
func (s *Server) getEvents(c *gin.Context) {
    f, err := s.eventFilter(c)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    limit, err := queryLimit(c)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    var (
        resources []models.Resource
        checks    []models.Check
        events    []models.Event
    )
    fetch(c.Request.Context(),
        func(ctx context.Context) { resources = s.gateway.ListResources(ctx) },
        func(ctx context.Context) { checks = s.gateway.ListChecks(ctx, "") },
        func(ctx context.Context) {
            events = s.gateway.ListEvents(ctx, gateway.EventQuery{ResourceID: f.ResourceID, Limit: limit})
        },
    )

    engine := filter.NewEngine(resources, checks, s.location)
    enriched := engine.FilterEnriched(events, f)
    c.JSON(http.StatusOK, gin.H{
        "data":     enriched,
        "count":    len(enriched),
        "filtered": f.HasActiveFilters(),
    })
}

func (s *Server) createEvent(c *gin.Context) {
    var req models.EventInput
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    event, err := s.gateway.CreateEvent(c.Request.Context(), req)
    if err != nil {
        respondError(c, err, "create event")
        return
    }

    s.notify(c, "event_created", event)
    c.JSON(http.StatusCreated, gin.H{"data": event})
}

func (s *Server) getDashboard(c *gin.Context) {
    var (
        resources []models.Resource
        events    []models.Event
    )
    fetch(c.Request.Context(),
        func(ctx context.Context) { resources = s.gateway.ListResources(ctx) },
        func(ctx context.Context) { events = s.gateway.ListEvents(ctx, gateway.EventQuery{}) },
    )

    summary := dashboard.Compute(resources, events)

    recent := events
    if len(recent) > 5 {
        recent = recent[:5]
    }
    c.JSON(http.StatusOK, gin.H{
        "data": gin.H{
            "summary":      summary,
            "resources":    resources,
            "recentEvents": recent,
        },
    })
}

func (s *Server) getTags(c *gin.Context) {
    var (
        resources []models.Resource
        checks    []models.Check
    )
    fetch(c.Request.Context(),
        func(ctx context.Context) { resources = s.gateway.ListResources(ctx) },
        func(ctx context.Context) { checks = s.gateway.ListChecks(ctx, "") },
    )

    tags := filter.Tags(resources, checks)
    c.JSON(http.StatusOK, gin.H{
        "data":  tags,
        "count": len(tags),
    })
}

// POST /api/seed - load the sample dataset once for the caller
func (s *Server) seedSampleData(c *gin.Context) {
    result, err := seed.Load(c.Request.Context(), s.gateway, time.Now())
    if err != nil {
        respondError(c, err, "seed sample data")
        return
    }
    if result.Seeded {
        s.notify(c, "data_seeded", result)
    }
    c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) eventFilter(c *gin.Context) (filter.EventFilter, error) {
    f := filter.EventFilter{
        Search:     c.Query("search"),
        ResourceID: c.Query("resource_id"),
        CheckID:    c.Query("check_id"),
        Status:     models.EventType(c.Query("status")),
        Tags:       queryList(c, "tags"),
    }
    if f.Status != "" && !f.Status.Valid() {
        return f, models.ValidationError("invalid status %q", f.Status)
    }

    var err error
    if f.DateFrom, err = s.queryDate(c, "date_from"); err != nil {
        return f, err
    }
    if f.DateTo, err = s.queryDate(c, "date_to"); err != nil {
        return f, err
    }
    return f, nil
}

// queryDate accepts a calendar date or an RFC 3339 timestamp.
func (s *Server) queryDate(c *gin.Context, key string) (time.Time, error) {
    raw := c.Query(key)
    if raw == "" {
        return time.Time{}, nil
    }
    if t, err := time.ParseInLocation("2006-01-02", raw, s.location); err == nil {
        return t, nil
    }
    t, err := time.Parse(time.RFC3339, raw)
    if err != nil {
        return time.Time{}, models.ValidationError("invalid %s %q", key, raw)
    }
    return t, nil
}

func queryLimit(c *gin.Context) (int, error) {
    raw := c.Query("limit")
    if raw == "" {
        return 0, nil
    }
    limit, err := strconv.Atoi(raw)
    if err != nil || limit < 0 {
        return 0, models.ValidationError("invalid limit %q", raw)
    }
    if limit > maxEventLimit {
        limit = maxEventLimit
    }
    return limit, nil
}

// queryList reads a repeated or comma separated query parameter.
func queryList(c *gin.Context, key string) []string {
    var out []string
    for _, v := range c.QueryArray(key) {
        for _, part := range strings.Split(v, ",") {
            if part = strings.TrimSpace(part); part != "" {
                out = append(out, part)
            }
        }
    }
    return out
}

// fetch runs independent gateway reads concurrently. Gateway lists never
// fail, so there is no error to collect.
func fetch(ctx context.Context, reads ...func(context.Context)) {
    g, gctx := errgroup.WithContext(ctx)
    for _, read := range reads {
        read := read
        g.Go(func() error {
            read(gctx)
            return nil
        })
    }
    _ = g.Wait()
}
