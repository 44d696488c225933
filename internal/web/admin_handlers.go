// internal/web/admin_handlers.go - Store maintenance endpoints
package web

import (
    "context"
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/sirupsen/logrus"
    "uptimeboard/internal/database"
)

func (s *Server) setupAdminRoutes(api *gin.RouterGroup) {
    admin := api.Group("/admin", s.requireAdmin)
    {
        admin.GET("/stats", s.getStoreStats)
        admin.POST("/compact", s.compactStore)
    }
}

// requireAdmin admits only callers listed in admin.users.
func (s *Server) requireAdmin(c *gin.Context) {
    user := s.gateway.CurrentUser(c.Request.Context())
    if !s.config.Admin.IsAdmin(user.ID) {
        logrus.WithField("user", user.ID).Warn("Rejected store maintenance request")
        c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Store maintenance requires an admin identity"})
        return
    }
    c.Next()
}

func (s *Server) maintainedStore(c *gin.Context) (database.MaintainedStore, bool) {
    store, ok := s.store.(database.MaintainedStore)
    if !ok {
        c.JSON(http.StatusNotImplemented, gin.H{"error": "Store does not support maintenance"})
    }
    return store, ok
}

// GET /api/admin/stats - record counts per kind and database size
func (s *Server) getStoreStats(c *gin.Context) {
    store, ok := s.maintainedStore(c)
    if !ok {
        return
    }

    ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
    defer cancel()

    stats, err := store.Stats(ctx)
    if err != nil {
        logrus.WithError(err).Error("Failed to get store stats")
        c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to get store stats"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"data": stats})
}

// POST /api/admin/compact - rewrite the database file
func (s *Server) compactStore(c *gin.Context) {
    store, ok := s.maintainedStore(c)
    if !ok {
        return
    }

    ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
    defer cancel()

    start := time.Now()
    if err := store.Compact(ctx); err != nil {
        logrus.WithError(err).Error("Failed to compact store")
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compact store"})
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "message":   "Store compacted successfully",
        "duration":  time.Since(start).String(),
        "timestamp": time.Now(),
    })
}
