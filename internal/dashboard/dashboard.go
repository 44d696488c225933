// internal/dashboard/dashboard.go - Derived dashboard statistics
package dashboard

import (
    "fmt"
    "math"
    "strconv"

    "uptimeboard/internal/models"
)

// Band is the qualitative rating shown next to a statistic.
type Band string

const (
    BandSuccess Band = "success"
    BandWarning Band = "warning"
    BandError   Band = "error"
)

const (
    uptimeSuccessAbove  = 95.0
    uptimeWarningAbove  = 80.0
    latencySuccessBelow = 500
    latencyWarningBelow = 1000
)

type Summary struct {
    TotalResources   int `json:"totalResources"`
    OnlineResources  int `json:"onlineResources"`
    WarningResources int `json:"warningResources"`
    OfflineResources int `json:"offlineResources"`

    // UptimePercent is rendered to one decimal place.
    UptimePercent     string `json:"uptimePercent"`
    UptimeBand        Band   `json:"uptimeBand"`
    UptimeCaption     string `json:"uptimeCaption"`
    AvgResponseTimeMs int    `json:"avgResponseTimeMs"`
    ResponseTimeBand  Band   `json:"responseTimeBand"`
    ResponseCaption   string `json:"responseCaption"`
    ActiveAlerts      int    `json:"activeAlerts"`
    AlertsBand        Band   `json:"alertsBand"`
    RecentFailures    int    `json:"recentFailures"`
    AlertsCaption     string `json:"alertsCaption"`
}

// Compute derives the dashboard statistics from a snapshot. events is the
// window the caller fetched; only its failures are counted.
func Compute(resources []models.Resource, events []models.Event) Summary {
    s := Summary{TotalResources: len(resources)}

    total := 0
    for _, r := range resources {
        switch r.Status {
        case models.StatusOnline:
            s.OnlineResources++
        case models.StatusWarning:
            s.WarningResources++
        case models.StatusOffline:
            s.OfflineResources++
        }
        total += r.ResponseTime
    }
    for _, e := range events {
        if e.Type == models.EventFailure {
            s.RecentFailures++
        }
    }

    uptime := 0.0
    if s.TotalResources > 0 {
        uptime = float64(s.OnlineResources) / float64(s.TotalResources) * 100
        s.AvgResponseTimeMs = int(math.Floor(float64(total)/float64(s.TotalResources) + 0.5))
    }
    s.UptimePercent = strconv.FormatFloat(uptime, 'f', 1, 64)
    rounded, _ := strconv.ParseFloat(s.UptimePercent, 64)
    s.UptimeBand = UptimeBand(rounded)
    s.UptimeCaption = fmt.Sprintf("%d of %d resources online", s.OnlineResources, s.TotalResources)

    s.ResponseTimeBand = ResponseTimeBand(s.AvgResponseTimeMs)
    s.ResponseCaption = responseCaption(s.ResponseTimeBand)

    s.ActiveAlerts = s.WarningResources + s.OfflineResources
    s.AlertsBand = alertsBand(s.WarningResources, s.OfflineResources)
    s.AlertsCaption = "All systems normal"
    if s.RecentFailures > 0 {
        s.AlertsCaption = fmt.Sprintf("%d recent failures", s.RecentFailures)
    }

    return s
}

func UptimeBand(percent float64) Band {
    switch {
    case percent > uptimeSuccessAbove:
        return BandSuccess
    case percent > uptimeWarningAbove:
        return BandWarning
    }
    return BandError
}

func ResponseTimeBand(ms int) Band {
    switch {
    case ms < latencySuccessBelow:
        return BandSuccess
    case ms < latencyWarningBelow:
        return BandWarning
    }
    return BandError
}

func responseCaption(b Band) string {
    switch b {
    case BandSuccess:
        return "Excellent performance"
    case BandWarning:
        return "Good performance"
    }
    return "Needs attention"
}

func alertsBand(warning, offline int) Band {
    switch {
    case warning+offline == 0:
        return BandSuccess
    case warning > offline:
        return BandWarning
    }
    return BandError
}
