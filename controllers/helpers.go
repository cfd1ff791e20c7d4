package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/middleware"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func parsePagination(ctx *gin.Context) (int, int) {
	page := 1
	pageSize := 20
	if n, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(ctx.DefaultQuery("page_size", "20")); err == nil && n > 0 && n <= 100 {
		pageSize = n
	}
	return page, pageSize
}

// creditXP adds amount to the user's XP and recomputes the level.
func creditXP(db *gorm.DB, userID uint, amount int) (xp, level int, leveledUp bool, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		user.XP += amount
		newLevel := utils.LevelForXP(user.XP)
		leveledUp = newLevel > user.Level
		user.Level = newLevel
		xp = user.XP
		level = newLevel
		return tx.Save(&user).Error
	})
	return
}
