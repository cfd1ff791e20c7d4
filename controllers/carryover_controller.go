package controllers

import (
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

// CarryOverController triggers carry-over processing for the calling user and
// exposes the audit trail of carried tasks.
type CarryOverController struct {
	db        *gorm.DB
	processor *services.CarryOverProcessor
}

func NewCarryOverController(db *gorm.DB) *CarryOverController {
	hour := config.Get().DayStartHour
	return &CarryOverController{
		db: db,
		processor: services.NewCarryOverProcessor(
			services.NewGormCarryTaskStore(db),
			services.NewGormCarryRecordStore(db),
			services.NewGormSessionLookup(db),
			hour,
		),
	}
}

// Run moves yesterday's unfinished tasks into today's morning slot. Safe to
// call repeatedly; repeat calls report already_processed.
func (c *CarryOverController) Run(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	result, err := c.processor.Run(userID, time.Now())
	if err != nil {
		utils.Sugar.Errorw("carry-over run failed", "user_id", userID, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50050, "carry-over failed, retry to resume")
		return
	}

	utils.InvalidateByPrefix(taskCachePrefix(userID))
	utils.Success(ctx, result)
}

// History lists carry-over records, newest day first, optionally for one date.
func (c *CarryOverController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx)

	query := c.db.Model(&models.CarryOverRecord{}).Where("user_id = ?", userID)
	if date := ctx.Query("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40050, "date must be YYYY-MM-DD")
			return
		}
		query = query.Where("original_date = ?", date)
	} else if daysStr := ctx.Query("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days < 1 || days > 366 {
			utils.Error(ctx, http.StatusBadRequest, 40051, "days must be between 1 and 366")
			return
		}
		hour := config.Get().DayStartHour
		since := utils.BoundariesFor(time.Now(), days-1, hour).Start.Format("2006-01-02")
		query = query.Where("original_date >= ?", since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to count records")
		return
	}

	var records []models.CarryOverRecord
	if err := query.
		Order("original_date DESC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to list records")
		return
	}

	utils.Success(ctx, gin.H{
		"records":   records,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
