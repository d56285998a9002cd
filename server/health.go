package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/versestream/component"
)

// HealthHandler returns a handler that reports service health including the
// status of every registered component.
func HealthHandler(serviceName string, components ...component.Component) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		checks := make([]component.Health, 0, len(components))

		for _, comp := range components {
			h := comp.Health(c.Request.Context())
			checks = append(checks, h)
			if h.Status == component.StatusUnhealthy {
				status = "unhealthy"
			}
			if h.Status == component.StatusDegraded && status != "unhealthy" {
				status = "degraded"
			}
		}

		httpStatus := http.StatusOK
		if status == "unhealthy" {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": checks,
		})
	}
}
