package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/services"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// TaskController handles task CRUD and completion endpoints.
type TaskController struct {
	db           *gorm.DB
	achievements *services.AchievementEvaluator
}

// NewTaskController creates a new controller instance.
func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{
		db:           db,
		achievements: services.NewAchievementEvaluator(db),
	}
}

func taskCachePrefix(userID uint) string {
	return fmt.Sprintf("tasks:%d:", userID)
}

// List returns the user's tasks for a given day, newest first within a period.
// Query params: days_ago (default 0), category, completed, page, page_size.
func (t *TaskController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	daysAgo, err := strconv.Atoi(ctx.DefaultQuery("days_ago", "0"))
	if err != nil || daysAgo < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40010, "days_ago must be a non-negative integer")
		return
	}

	category := ctx.Query("category")
	completedFilter := ctx.Query("completed")
	page, pageSize := parsePagination(ctx)

	cacheKey := fmt.Sprintf("%sd%d:c%s:f%s:p%d:s%d", taskCachePrefix(userID), daysAgo, category, completedFilter, page, pageSize)
	if raw, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	hour := config.Get().DayStartHour
	bounds := utils.BoundariesFor(time.Now(), daysAgo, hour)

	query := t.db.Model(&models.Task{}).
		Where("user_id = ?", userID).
		Where("created_at >= ? AND created_at < ?", bounds.Start, bounds.End)

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if completedFilter != "" {
		completed, err := strconv.ParseBool(completedFilter)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40011, "completed must be true or false")
			return
		}
		query = query.Where("completed = ?", completed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to count tasks")
		return
	}

	var tasks []models.Task
	if err := query.
		Order("time_period ASC, position ASC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tasks).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list tasks")
		return
	}

	payload := gin.H{
		"tasks":     tasks,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"day_start": bounds.Start,
		"day_end":   bounds.End,
	}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 30*time.Second)
	utils.Success(ctx, payload)
}

// Create adds a new task for the authenticated user.
func (t *TaskController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		Title      string `json:"title" binding:"required,max=256"`
		Notes      string `json:"notes"`
		Category   string `json:"category"`
		Points     int    `json:"points"`
		TimePeriod string `json:"time_period"`
		Position   int    `json:"position"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}

	if req.TimePeriod == "" {
		req.TimePeriod = models.PeriodMorning
	}
	if !models.ValidPeriod(req.TimePeriod) {
		utils.Error(ctx, http.StatusBadRequest, 40013, "time_period must be morning, afternoon or evening")
		return
	}
	if req.Points == 0 {
		req.Points = 10
	}
	if req.Points < 1 || req.Points > 100 {
		utils.Error(ctx, http.StatusBadRequest, 40016, "points must be between 1 and 100")
		return
	}

	task := models.Task{
		UserID:     userID,
		Title:      utils.Sanitize(req.Title),
		Notes:      utils.Sanitize(req.Notes),
		Category:   utils.Sanitize(req.Category),
		Points:     req.Points,
		TimePeriod: req.TimePeriod,
		Position:   req.Position,
	}
	if err := t.db.Create(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create task")
		return
	}

	utils.InvalidateByPrefix(taskCachePrefix(userID))
	utils.Success(ctx, task)
}

// Get returns a single task owned by the authenticated user.
func (t *TaskController) Get(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	task, ok := t.ownedTask(ctx, userID)
	if !ok {
		return
	}
	utils.Success(ctx, task)
}

// Update modifies a task's editable fields. Completion goes through Complete.
func (t *TaskController) Update(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	task, ok := t.ownedTask(ctx, userID)
	if !ok {
		return
	}

	var req struct {
		Title      *string `json:"title"`
		Notes      *string `json:"notes"`
		Category   *string `json:"category"`
		Points     *int    `json:"points"`
		TimePeriod *string `json:"time_period"`
		Position   *int    `json:"position"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid request payload")
		return
	}

	if req.Title != nil {
		task.Title = utils.Sanitize(*req.Title)
	}
	if req.Notes != nil {
		task.Notes = utils.Sanitize(*req.Notes)
	}
	if req.Category != nil {
		task.Category = utils.Sanitize(*req.Category)
	}
	if req.Points != nil {
		if *req.Points < 1 || *req.Points > 100 {
			utils.Error(ctx, http.StatusBadRequest, 40016, "points must be between 1 and 100")
			return
		}
		task.Points = *req.Points
	}
	if req.TimePeriod != nil {
		if !models.ValidPeriod(*req.TimePeriod) {
			utils.Error(ctx, http.StatusBadRequest, 40013, "time_period must be morning, afternoon or evening")
			return
		}
		task.TimePeriod = *req.TimePeriod
	}
	if req.Position != nil {
		task.Position = *req.Position
	}

	if err := t.db.Save(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update task")
		return
	}

	utils.InvalidateByPrefix(taskCachePrefix(userID))
	utils.Success(ctx, task)
}

// Delete removes a task (soft delete is not used; tasks are owned data).
func (t *TaskController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	task, ok := t.ownedTask(ctx, userID)
	if !ok {
		return
	}

	if err := t.db.Delete(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to delete task")
		return
	}

	utils.InvalidateByPrefix(taskCachePrefix(userID))
	utils.Success(ctx, gin.H{"deleted": task.ID})
}

// Complete marks a task done, awards its points as XP and evaluates achievements.
// Completing an already-completed task is a no-op and awards nothing.
func (t *TaskController) Complete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	task, ok := t.ownedTask(ctx, userID)
	if !ok {
		return
	}

	if task.Completed {
		utils.Success(ctx, gin.H{"task": task, "xp_awarded": 0})
		return
	}

	now := time.Now()
	var user models.User
	var leveledUp bool

	err := t.db.Transaction(func(tx *gorm.DB) error {
		task.Completed = true
		task.CompletedAt = &now
		if err := tx.Save(&task).Error; err != nil {
			return err
		}

		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		user.XP += task.Points
		newLevel := utils.LevelForXP(user.XP)
		leveledUp = newLevel > user.Level
		user.Level = newLevel
		return tx.Save(&user).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to complete task")
		return
	}

	var completedCount int64
	t.db.Model(&models.Task{}).Where("user_id = ? AND completed = ?", userID, true).Count(&completedCount)

	unlocked := t.achievements.OnTaskCompleted(userID, completedCount, user.Level, now)

	utils.InvalidateByPrefix(taskCachePrefix(userID))
	utils.InvalidateByPrefix(fmt.Sprintf("stats:%d:", userID))
	utils.Success(ctx, gin.H{
		"task":         task,
		"xp_awarded":   task.Points,
		"xp":           user.XP,
		"level":        user.Level,
		"leveled_up":   leveledUp,
		"achievements": unlocked,
	})
}

// Reopen reverts a completed task. The XP stays; gamification never punishes.
func (t *TaskController) Reopen(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	task, ok := t.ownedTask(ctx, userID)
	if !ok {
		return
	}

	if !task.Completed {
		utils.Success(ctx, task)
		return
	}

	task.Completed = false
	task.CompletedAt = nil
	if err := t.db.Save(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to update task")
		return
	}

	utils.InvalidateByPrefix(taskCachePrefix(userID))
	utils.Success(ctx, task)
}

func (t *TaskController) ownedTask(ctx *gin.Context, userID uint) (models.Task, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid task id")
		return models.Task{}, false
	}

	var task models.Task
	if err := t.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "task not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to load task")
		}
		return models.Task{}, false
	}
	return task, true
}
