package services

import (
	"calendartasking_go/database"
	"calendartasking_go/models"
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// FlushCachedActivityLogs drains the Redis activity-log queue into the
// database. Entries that fail to decode are dropped with a log line so the
// queue cannot wedge.
func FlushCachedActivityLogs() {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}

	ctx := context.Background()

	keys, err := redisClient.ZRange(ctx, "logs:queue", 0, -1).Result()
	if err != nil {
		logrus.WithError(err).Error("Failed to read activity log queue")
		return
	}

	flushed := 0
	for _, key := range keys {
		data, err := redisClient.Get(ctx, key).Result()
		if err == nil {
			var activityLog models.ActivityLog
			if jsonErr := json.Unmarshal([]byte(data), &activityLog); jsonErr == nil {
				activityLog.ID = 0
				if dbErr := database.DB.Create(&activityLog).Error; dbErr != nil {
					logrus.WithError(dbErr).Error("Failed to flush activity log to database")
					continue
				}
				flushed++
			} else {
				logrus.WithError(jsonErr).Warn("Dropping undecodable activity log entry")
			}
		}

		redisClient.ZRem(ctx, "logs:queue", key)
		redisClient.Del(ctx, key)
	}

	if flushed > 0 {
		logrus.WithField("count", flushed).Info("Flushed cached activity logs")
	}
}
