package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/edudesk/admin-api/internal/config"
	"github.com/edudesk/admin-api/internal/utils"
)

// HealthResponse reports liveness for uptime probes and the status page.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	UptimeSecs  int64     `json:"uptime_seconds"`
}

// HealthCheck returns the liveness handler. Uptime is measured from route
// registration.
func HealthCheck(cfg config.Config) fiber.Handler {
	started := time.Now()
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			UptimeSecs:  int64(time.Since(started).Seconds()),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
