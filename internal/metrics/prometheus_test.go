package metrics

import (
    "context"
    "testing"
    "time"

    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "uptimeboard/internal/database"
    "uptimeboard/internal/gateway"
)

func TestCollectorObservesGateway(t *testing.T) {
    c := NewCollector(nil)
    counter := GatewayOperations.WithLabelValues("resources", "list", "degraded")
    before := testutil.ToFloat64(counter)

    c.ObserveOperation(database.KindResources, "list", gateway.ModeDegraded, 5*time.Millisecond)
    assert.Equal(t, before+1, testutil.ToFloat64(counter))

    c.ObserveProbe(false, time.Millisecond)
    assert.Equal(t, float64(0), testutil.ToFloat64(StoreAvailable))
    c.ObserveProbe(true, time.Millisecond)
    assert.Equal(t, float64(1), testutil.ToFloat64(StoreAvailable))
}

func TestUpdateSystemMetricsFromDegradedGateway(t *testing.T) {
    down := gateway.AvailabilityFunc(func(context.Context) bool { return false })
    c := NewCollector(nil)
    g := gateway.New(nil, nil, gateway.WithAvailability(down), gateway.WithObserver(c))
    c.SetSource(g)

    require.NoError(t, c.UpdateSystemMetrics(context.Background()))

    assert.Equal(t, float64(1), testutil.ToFloat64(ResourcesByStatus.WithLabelValues("online")))
    assert.Equal(t, float64(1), testutil.ToFloat64(ResourcesByStatus.WithLabelValues("offline")))
    assert.InDelta(t, 33.3, testutil.ToFloat64(UptimePercent), 0.001)
    assert.Equal(t, float64(482), testutil.ToFloat64(AvgResponseTime))
    assert.Equal(t, float64(2), testutil.ToFloat64(ActiveAlerts))
    assert.Equal(t, float64(1), testutil.ToFloat64(RecentFailures))
    assert.Equal(t, float64(3), testutil.ToFloat64(ActiveChecks))
    assert.Equal(t, float64(0), testutil.ToFloat64(StoreAvailable))
}

func TestUpdateSystemMetricsCancelled(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    assert.Error(t, NewCollector(nil).UpdateSystemMetrics(ctx))
}
