// internal/web/server.go
package web

import (
    "context"
    "net/http"
    "path/filepath"
    "sync"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/sirupsen/logrus"
    "uptimeboard/internal/config"
    "uptimeboard/internal/database"
    "uptimeboard/internal/gateway"
    "uptimeboard/internal/metrics"
)

type Server struct {
    config    *config.Config
    gateway   *gateway.Gateway
    store     database.Store
    metrics   *metrics.Collector
    location  *time.Location
    router    *gin.Engine
    clientsMu sync.Mutex
    wsClients map[*WSClient]bool
    server    *http.Server
}

// NewServer wires the HTTP API. metricsCollector may be nil.
func NewServer(cfg *config.Config, gw *gateway.Gateway, store database.Store, metricsCollector *metrics.Collector) *Server {
    if cfg.Logging.Level != "debug" {
        gin.SetMode(gin.ReleaseMode)
    }

    router := gin.New()
    router.Use(gin.Logger())
    router.Use(gin.Recovery())
    router.Use(corsMiddleware(cfg.Identity.Header))
    router.Use(identityMiddleware(cfg.Identity))

    loc, err := cfg.Location()
    if err != nil {
        logrus.WithError(err).Warn("Unknown filter timezone, using UTC")
        loc = time.UTC
    }

    server := &Server{
        config:    cfg,
        gateway:   gw,
        store:     store,
        metrics:   metricsCollector,
        location:  loc,
        router:    router,
        wsClients: make(map[*WSClient]bool),
    }

    server.setupRoutes()
    return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
    return s.router
}

func (s *Server) Start(ctx context.Context) error {
    s.server = &http.Server{
        Addr:         s.config.Server.Port,
        Handler:      s.router,
        ReadTimeout:  s.config.Server.ReadTimeout,
        WriteTimeout: s.config.Server.WriteTimeout,
    }

    logrus.WithField("port", s.config.Server.Port).Info("Starting web server")

    if s.metrics != nil && s.config.Prometheus.Enabled {
        go s.updateMetricsRoutine(ctx)
    }

    go func() {
        if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            logrus.WithError(err).Fatal("Failed to start server")
        }
    }()

    return nil
}

func (s *Server) Stop(ctx context.Context) error {
    s.closeClients()
    if s.server != nil {
        return s.server.Shutdown(ctx)
    }
    return nil
}

func (s *Server) setupRoutes() {
    if s.config.Web.ServeStatic {
        s.router.Static("/static", s.config.Web.StaticDir)
        s.router.GET("/", s.serveSPA)
    }
    s.router.GET("/favicon.ico", s.serveFavicon)

    api := s.router.Group("/api")
    {
        api.GET("/resources", s.getResources)
        api.POST("/resources", s.createResource)
        api.PUT("/resources/:id", s.updateResource)
        api.DELETE("/resources/:id", s.deleteResource)

        api.GET("/checks", s.getChecks)
        api.POST("/checks", s.createCheck)
        api.PUT("/checks/:id", s.updateCheck)
        api.DELETE("/checks/:id", s.deleteCheck)

        api.GET("/events", s.getEvents)
        api.POST("/events", s.createEvent)

        api.GET("/dashboard", s.getDashboard)
        api.GET("/tags", s.getTags)
        api.POST("/seed", s.seedSampleData)

        api.GET("/health", s.healthCheck)
        api.GET("/build", s.getBuildInfo)
    }
    s.setupNotificationRoutes(api)
    if s.config.Admin.Enabled {
        s.setupAdminRoutes(api)
    }

    s.router.GET("/ws", s.handleWebSocket)

    if s.config.Prometheus.Enabled {
        s.router.GET(s.config.Prometheus.MetricsPath, gin.WrapH(promhttp.Handler()))
    }
}

func (s *Server) serveSPA(c *gin.Context) {
    c.File(filepath.Join(s.config.Web.StaticDir, s.config.Web.Root))
}

func (s *Server) healthCheck(c *gin.Context) {
    degraded := !s.gateway.Available(c.Request.Context())
    c.JSON(http.StatusOK, gin.H{
        "status":    "healthy",
        "degraded":  degraded,
        "timestamp": time.Now(),
        "version":   Version,
    })
}

func (s *Server) updateMetricsRoutine(ctx context.Context) {
    interval := s.config.Prometheus.UpdateInterval
    if interval <= 0 {
        interval = 30 * time.Second
    }
    ticker := time.NewTicker(interval)
    defer ticker.Stop()

    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            if err := s.sampleMetrics(ctx); err != nil {
                logrus.WithError(err).Error("Failed to update system metrics")
            }
        }
    }
}

// sampleMetrics is the only writer of the dashboard gauges, so they always
// describe the same workspace.
func (s *Server) sampleMetrics(ctx context.Context) error {
    if user := s.config.Prometheus.SampleUser; user != "" {
        ctx = database.WithIdentity(ctx, database.Identity{ID: user})
    }
    return s.metrics.UpdateSystemMetrics(ctx)
}

func identityMiddleware(cfg config.IdentityConfig) gin.HandlerFunc {
    return func(c *gin.Context) {
        if id := c.GetHeader(cfg.Header); id != "" {
            ctx := database.WithIdentity(c.Request.Context(), database.Identity{
                ID:    id,
                Email: c.GetHeader(cfg.EmailHeader),
            })
            c.Request = c.Request.WithContext(ctx)
        }
        c.Next()
    }
}

func corsMiddleware(identityHeader string) gin.HandlerFunc {
    return func(c *gin.Context) {
        c.Header("Access-Control-Allow-Origin", "*")
        c.Header("Access-Control-Allow-Credentials", "true")
        c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, "+identityHeader)
        c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

        if c.Request.Method == "OPTIONS" {
            c.AbortWithStatus(204)
            return
        }

        c.Next()
    }
}
