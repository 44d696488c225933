// internal/metrics/prometheus.go
package metrics

import (
    "context"
    "fmt"
    "strconv"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
    "uptimeboard/internal/dashboard"
    "uptimeboard/internal/database"
    "uptimeboard/internal/gateway"
    "uptimeboard/internal/models"
)

// Prometheus metrics
var (
    GatewayOperations = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "uptimeboard_gateway_operations_total",
            Help: "Gateway operations by entity kind, operation and serving mode",
        },
        []string{"kind", "operation", "mode"},
    )

    GatewayDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Name:    "uptimeboard_gateway_operation_duration_seconds",
            Help:    "Time spent serving gateway operations",
            Buckets: prometheus.DefBuckets,
        },
        []string{"kind", "operation"},
    )

    ProbeDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Name:    "uptimeboard_store_probe_duration_seconds",
            Help:    "Time spent probing store availability",
            Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2, 5},
        },
        []string{"result"},
    )

    StoreAvailable = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "uptimeboard_store_available",
            Help: "Result of the most recent availability probe (1=available, 0=degraded)",
        },
    )

    ResourcesByStatus = promauto.NewGaugeVec(
        prometheus.GaugeOpts{
            Name: "uptimeboard_resources",
            Help: "Resources by status",
        },
        []string{"status"},
    )

    UptimePercent = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "uptimeboard_uptime_percent",
            Help: "Share of online resources, as shown on the dashboard",
        },
    )

    AvgResponseTime = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "uptimeboard_avg_response_time_ms",
            Help: "Mean resource response time in milliseconds",
        },
    )

    ActiveAlerts = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "uptimeboard_active_alerts",
            Help: "Resources in warning or offline status",
        },
    )

    RecentFailures = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "uptimeboard_recent_failures",
            Help: "Failure events in the most recent event window",
        },
    )

    ActiveChecks = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "uptimeboard_active_checks",
            Help: "Number of active checks configured",
        },
    )

    WebSocketConnections = promauto.NewGauge(
        prometheus.GaugeOpts{
            Name: "uptimeboard_websocket_connections_active",
            Help: "Number of active WebSocket connections",
        },
    )
)

// Source is the read side of the gateway the collector samples.
type Source interface {
    ListResources(ctx context.Context) []models.Resource
    ListChecks(ctx context.Context, resourceID string) []models.Check
    ListEvents(ctx context.Context, q gateway.EventQuery) []models.Event
}

// Collector records gateway activity and samples dashboard gauges. It
// implements gateway.Observer.
type Collector struct {
    source Source
}

func NewCollector(source Source) *Collector {
    return &Collector{source: source}
}

// SetSource sets the gateway sampled by UpdateSystemMetrics. The gateway
// usually observes the collector too, so the two are wired after creation.
func (c *Collector) SetSource(source Source) {
    c.source = source
}

func (c *Collector) ObserveOperation(kind database.Kind, op string, mode gateway.Mode, elapsed time.Duration) {
    GatewayOperations.WithLabelValues(string(kind), op, string(mode)).Inc()
    GatewayDuration.WithLabelValues(string(kind), op).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveProbe(available bool, elapsed time.Duration) {
    result := "unavailable"
    StoreAvailable.Set(0)
    if available {
        result = "available"
        StoreAvailable.Set(1)
    }
    ProbeDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (c *Collector) UpdateDashboard(s dashboard.Summary) {
    ResourcesByStatus.WithLabelValues(string(models.StatusOnline)).Set(float64(s.OnlineResources))
    ResourcesByStatus.WithLabelValues(string(models.StatusWarning)).Set(float64(s.WarningResources))
    ResourcesByStatus.WithLabelValues(string(models.StatusOffline)).Set(float64(s.OfflineResources))
    if v, err := strconv.ParseFloat(s.UptimePercent, 64); err == nil {
        UptimePercent.Set(v)
    }
    AvgResponseTime.Set(float64(s.AvgResponseTimeMs))
    ActiveAlerts.Set(float64(s.ActiveAlerts))
    RecentFailures.Set(float64(s.RecentFailures))
}

// UpdateSystemMetrics samples the dashboard for the identity carried by ctx.
func (c *Collector) UpdateSystemMetrics(ctx context.Context) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    if c.source == nil {
        return fmt.Errorf("metrics source not configured")
    }
    resources := c.source.ListResources(ctx)
    events := c.source.ListEvents(ctx, gateway.EventQuery{})
    c.UpdateDashboard(dashboard.Compute(resources, events))

    active := 0
    for _, check := range c.source.ListChecks(ctx, "") {
        if check.IsActive {
            active++
        }
    }
    ActiveChecks.Set(float64(active))

    return nil
}

func (c *Collector) RecordWebSocketConnection(delta int) {
    WebSocketConnections.Add(float64(delta))
}
