package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks one backing service.
type Pinger func(ctx context.Context) error

// Health reports process liveness plus the reachability of each dependency.
// The status code stays 200 while the process can serve the calculator,
// which needs neither store.
func Health(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		results := make(map[string]string, len(checks))
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				results[name] = err.Error()
				status = "degraded"
				continue
			}
			results[name] = "ok"
		}

		c.JSON(http.StatusOK, gin.H{"status": status, "checks": results})
	}
}
