// internal/web/notification_handlers.go - Notification rule endpoints
package web

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "uptimeboard/internal/models"
)

func (s *Server) setupNotificationRoutes(api *gin.RouterGroup) {
    notifications := api.Group("/notifications")
    {
        notifications.GET("", s.getNotifications)
        notifications.POST("", s.createNotification)
        notifications.PUT("/:id", s.updateNotification)
        notifications.DELETE("/:id", s.deleteNotification)
    }
}

// GET /api/notifications?resource_id=
func (s *Server) getNotifications(c *gin.Context) {
    notifications := s.gateway.ListNotifications(c.Request.Context(), c.Query("resource_id"))
    c.JSON(http.StatusOK, gin.H{
        "data":  notifications,
        "count": len(notifications),
    })
}

func (s *Server) createNotification(c *gin.Context) {
    var req models.NotificationInput
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    notification, err := s.gateway.CreateNotification(c.Request.Context(), req)
    if err != nil {
        respondError(c, err, "create notification")
        return
    }

    s.notify(c, "notification_created", notification)
    c.JSON(http.StatusCreated, gin.H{"data": notification})
}

func (s *Server) updateNotification(c *gin.Context) {
    var req models.NotificationPatch
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    notification, err := s.gateway.UpdateNotification(c.Request.Context(), c.Param("id"), req)
    if err != nil {
        respondError(c, err, "update notification")
        return
    }

    s.notify(c, "notification_updated", notification)
    c.JSON(http.StatusOK, gin.H{"data": notification})
}

func (s *Server) deleteNotification(c *gin.Context) {
    id := c.Param("id")
    if err := s.gateway.DeleteNotification(c.Request.Context(), id); err != nil {
        respondError(c, err, "delete notification")
        return
    }

    s.notify(c, "notification_deleted", gin.H{"id": id})
    c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}
