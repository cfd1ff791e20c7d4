package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/config"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/services"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// StreakController exposes daily login streak tracking and the once-per-day bonus.
type StreakController struct {
	db           *gorm.DB
	tracker      *services.StreakTracker
	achievements *services.AchievementEvaluator
	hour         int
}

func NewStreakController(db *gorm.DB) *StreakController {
	cfg := config.Get()
	policy := services.BonusPolicy{
		Mode:   cfg.StreakBonusMode,
		PerDay: cfg.StreakBonusPerDay,
		Cap:    cfg.StreakBonusCap,
	}
	return &StreakController{
		db:           db,
		tracker:      services.NewStreakTracker(services.NewGormStreakStore(db), cfg.DayStartHour, policy),
		achievements: services.NewAchievementEvaluator(db),
		hour:         cfg.DayStartHour,
	}
}

// Touch records a login for today and advances or resets the streak.
func (s *StreakController) Touch(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	now := time.Now()
	result, err := s.tracker.Touch(userID, now)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to record login")
		return
	}

	unlocked := s.achievements.OnStreak(userID, result.Streak, now)

	utils.Success(ctx, gin.H{
		"outcome":        result.Outcome,
		"streak":         result.Streak,
		"longest_streak": result.Longest,
		"total_logins":   result.TotalLogins,
		"streak_broken":  result.Outcome == services.OutcomeReset && result.PreviousStreak > 1,
		"achievements":   unlocked,
	})
}

// Status reports the current streak without recording a login.
func (s *StreakController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	state, err := services.NewGormStreakStore(s.db).Load(userID)
	if err != nil {
		if errors.Is(err, services.ErrStreakNotFound) {
			utils.Success(ctx, gin.H{
				"streak":         0,
				"longest_streak": 0,
				"total_logins":   0,
				"active_today":   false,
				"bonus_claimed":  false,
			})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load streak")
		return
	}

	today := utils.DayKey(time.Now(), s.hour)
	utils.Success(ctx, gin.H{
		"streak":         state.CurrentStreak,
		"longest_streak": state.LongestStreak,
		"total_logins":   state.TotalLogins,
		"active_today":   state.LastLoginDate == today,
		"bonus_claimed":  state.LastLoginDate == today && state.BonusClaimedToday,
	})
}

// ClaimBonus awards the streak bonus at most once per day and credits it as XP.
func (s *StreakController) ClaimBonus(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	amount, err := s.tracker.ClaimBonus(userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStreakNotFound), errors.Is(err, services.ErrNotToday):
			utils.Error(ctx, http.StatusConflict, 40903, "no login recorded for today")
		case errors.Is(err, services.ErrBonusClaimed):
			utils.Error(ctx, http.StatusConflict, 40904, "bonus already claimed today")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to claim bonus")
		}
		return
	}

	xp, level, leveledUp, err := creditXP(s.db, userID, amount)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to credit bonus")
		return
	}

	utils.Success(ctx, gin.H{
		"bonus":      amount,
		"xp":         xp,
		"level":      level,
		"leveled_up": leveledUp,
	})
}
