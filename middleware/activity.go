package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// ActivityRecorder bumps the authenticated user's activity counter for the
// current custom day after each successful request. The counter feeds the
// carry-over sweeper's active-user scan and the daily-active stat.
func ActivityRecorder(db *gorm.DB) gin.HandlerFunc {
	hour := config.Get().DayStartHour
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}
		v, ok := c.Get(ContextUserIDKey)
		if !ok {
			return
		}
		userID, ok := v.(uint)
		if !ok {
			return
		}

		now := time.Now()
		day := utils.DayKey(now, hour)

		// Atomic upsert to avoid duplicate key errors under concurrency
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": now}),
		}).Create(&models.ActivityDay{UserID: userID, Date: day, Count: 1}).Error
	}
}
