package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// AchievementController lists the user's unlocked achievements.
type AchievementController struct {
	db *gorm.DB
}

func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{db: db}
}

func (a *AchievementController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var achievements []models.Achievement
	if err := a.db.
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&achievements).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list achievements")
		return
	}

	utils.Success(ctx, gin.H{"achievements": achievements})
}
