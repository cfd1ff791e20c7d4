package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// StatsController aggregates per-user productivity analytics.
type StatsController struct {
	db   *gorm.DB
	hour int
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db, hour: config.Get().DayStartHour}
}

// Overview returns lifetime totals plus today's numbers.
func (s *StatsController) Overview(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	cacheKey := fmt.Sprintf("stats:%d:overview", userID)
	if raw, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var totalTasks, completedTasks int64
	s.db.Model(&models.Task{}).Where("user_id = ?", userID).Count(&totalTasks)
	s.db.Model(&models.Task{}).Where("user_id = ? AND completed = ?", userID, true).Count(&completedTasks)

	today := utils.BoundariesFor(time.Now(), 0, s.hour)
	var todayTasks, todayDone int64
	s.db.Model(&models.Task{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, today.Start, today.End).
		Count(&todayTasks)
	s.db.Model(&models.Task{}).
		Where("user_id = ? AND completed = ? AND created_at >= ? AND created_at < ?", userID, true, today.Start, today.End).
		Count(&todayDone)

	var streak models.StreakState
	_ = s.db.Where("user_id = ?", userID).First(&streak).Error

	var carried int64
	s.db.Model(&models.CarryOverRecord{}).Where("user_id = ?", userID).Count(&carried)

	rate := 0.0
	if totalTasks > 0 {
		rate = float64(completedTasks) / float64(totalTasks)
	}

	earned, span := utils.ProgressInLevel(user.XP)
	payload := gin.H{
		"total_tasks":     totalTasks,
		"completed_tasks": completedTasks,
		"completion_rate": rate,
		"today_tasks":     todayTasks,
		"today_done":      todayDone,
		"carried_total":   carried,
		"xp":              user.XP,
		"level":           user.Level,
		"level_xp":        earned,
		"level_span":      span,
		"streak":          streak.CurrentStreak,
		"longest_streak":  streak.LongestStreak,
	}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 30*time.Second)
	utils.Success(ctx, payload)
}

// Daily returns a per-day completion series for the last N custom days.
// Query param days (default 7, max 90). Day zero is today.
func (s *StatsController) Daily(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	days, err := strconv.Atoi(ctx.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 90 {
		utils.Error(ctx, http.StatusBadRequest, 40060, "days must be between 1 and 90")
		return
	}

	cacheKey := fmt.Sprintf("stats:%d:daily:%d", userID, days)
	if raw, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	now := time.Now()
	type dayPoint struct {
		Date      string `json:"date"`
		Created   int64  `json:"created"`
		Completed int64  `json:"completed"`
	}

	series := make([]dayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		bounds := utils.BoundariesFor(now, i, s.hour)
		point := dayPoint{Date: bounds.Start.Format("2006-01-02")}
		s.db.Model(&models.Task{}).
			Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, bounds.Start, bounds.End).
			Count(&point.Created)
		s.db.Model(&models.Task{}).
			Where("user_id = ? AND completed = ? AND created_at >= ? AND created_at < ?", userID, true, bounds.Start, bounds.End).
			Count(&point.Completed)
		series = append(series, point)
	}

	payload := gin.H{"days": days, "series": series}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 30*time.Second)
	utils.Success(ctx, payload)
}

// Categories returns completed and total counts grouped by category.
func (s *StatsController) Categories(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	type catRow struct {
		Category  string `json:"category"`
		Total     int64  `json:"total"`
		Completed int64  `json:"completed"`
		Points    int64  `json:"points"`
	}

	var rows []catRow
	err := s.db.Model(&models.Task{}).
		Select("category, COUNT(*) AS total, SUM(completed) AS completed, SUM(CASE WHEN completed THEN points ELSE 0 END) AS points").
		Where("user_id = ?", userID).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to aggregate categories")
		return
	}

	utils.Success(ctx, gin.H{"categories": rows})
}

// Activity returns the login/activity heatmap for the last N days.
func (s *StatsController) Activity(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	days, err := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 366 {
		utils.Error(ctx, http.StatusBadRequest, 40061, "days must be between 1 and 366")
		return
	}

	since := utils.BoundariesFor(time.Now(), days-1, s.hour).Start.Format("2006-01-02")

	var rows []models.ActivityDay
	if err := s.db.
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load activity")
		return
	}

	utils.Success(ctx, gin.H{"since": since, "activity": rows})
}
