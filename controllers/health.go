package controllers

import (
	"calendartasking_go/database"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct{}

// GetHealthStatus reports service, database and redis health
func (hc *HealthController) GetHealthStatus(c *fiber.Ctx) error {
	dbStatus := "ok"
	if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	redisStatus := "disabled"
	if rc := database.GetRedisClient(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		} else {
			redisStatus = "ok"
		}
	}

	statusCode := fiber.StatusOK
	if dbStatus != "ok" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":   dbStatus,
		"service":  "CalendarTasking API",
		"version":  "1.0.0",
		"database": dbStatus,
		"redis":    redisStatus,
	})
}
