package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// ConfigController exposes the client-relevant application settings so the
// frontend renders day boundaries and bonus rules consistently with the server.
type ConfigController struct{}

func NewConfigController() *ConfigController {
	return &ConfigController{}
}

func (c *ConfigController) App(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"day_start_hour": cfg.DayStartHour,
		"time_periods":   []string{models.PeriodMorning, models.PeriodAfternoon, models.PeriodEvening},
		"bonus": gin.H{
			"mode":    cfg.StreakBonusMode,
			"per_day": cfg.StreakBonusPerDay,
			"cap":     cfg.StreakBonusCap,
		},
		"ai_enabled": cfg.AIGatewayURL != "" && cfg.AIGatewayKey != "",
	})
}
