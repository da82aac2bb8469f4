package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// Health runs every check and answers 503 if any of them fails.
func Health(service string, checks map[string]func(context.Context) error) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		status := http.StatusOK
		deps := make(gin.H, len(names))
		for _, name := range names {
			if err := checks[name](c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				deps[name] = err.Error()
				continue
			}
			deps[name] = "OK"
		}

		overall := "OK"
		if status != http.StatusOK {
			overall = "DEGRADED"
		}
		c.JSON(status, gin.H{
			"status":       overall,
			"service":      service,
			"dependencies": deps,
		})
	}
}
