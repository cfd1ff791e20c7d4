package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// SessionController manages lock-in focus sessions. A session marks the user
// committing to their task list for the day; its reference ends up on any
// carry-over records produced for that day.
type SessionController struct {
	db   *gorm.DB
	hour int
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{db: db, hour: config.Get().DayStartHour}
}

// Start opens a session for the current custom day. Starting again on the same
// day returns the existing open session instead of creating a second one.
func (s *SessionController) Start(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	now := time.Now()
	date := utils.DayKey(now, s.hour)

	var existing models.FocusSession
	err := s.db.
		Where("user_id = ? AND date = ? AND ended_at IS NULL", userID, date).
		First(&existing).Error
	if err == nil {
		utils.Success(ctx, existing)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to check sessions")
		return
	}

	var taskCount int64
	bounds := utils.BoundariesFor(now, 0, s.hour)
	s.db.Model(&models.Task{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, bounds.Start, bounds.End).
		Count(&taskCount)

	session := models.FocusSession{
		UserID:    userID,
		Ref:       uuid.NewString(),
		Date:      date,
		TaskCount: int(taskCount),
		StartedAt: now,
	}
	if err := s.db.Create(&session).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to start session")
		return
	}

	utils.Success(ctx, session)
}

// Finish closes the open session for today and records its duration.
func (s *SessionController) Finish(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	now := time.Now()
	date := utils.DayKey(now, s.hour)

	var session models.FocusSession
	err := s.db.
		Where("user_id = ? AND date = ? AND ended_at IS NULL", userID, date).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "no open session today")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to load session")
		}
		return
	}

	session.EndedAt = &now
	session.DurationSec = int(now.Sub(session.StartedAt) / time.Second)
	if err := s.db.Save(&session).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to finish session")
		return
	}

	utils.Success(ctx, session)
}

// Today returns all of today's sessions, open or closed.
func (s *SessionController) Today(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	date := utils.DayKey(time.Now(), s.hour)

	var sessions []models.FocusSession
	if err := s.db.
		Where("user_id = ? AND date = ?", userID, date).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to list sessions")
		return
	}

	utils.Success(ctx, gin.H{"date": date, "sessions": sessions})
}
