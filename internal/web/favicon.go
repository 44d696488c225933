// internal/web/favicon.go
package web

import (
    "net/http"

    "github.com/gin-gonic/gin"
)

// Heartbeat line on a rounded square.
const faviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32" width="32" height="32">
  <rect width="32" height="32" rx="6" fill="#0f766e"/>
  <polyline points="3,17 10,17 13,9 18,24 21,14 23,17 29,17" fill="none" stroke="#ffffff" stroke-width="2.5" stroke-linecap="round" stroke-linejoin="round"/>
</svg>`

func (s *Server) serveFavicon(c *gin.Context) {
    c.Header("Cache-Control", "public, max-age=31536000")
    c.Data(http.StatusOK, "image/svg+xml", []byte(faviconSVG))
}
