package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// CarryOverSweeper periodically runs the carry-over processor for recently
// active users, so tasks roll forward even when a user's client never calls
// the run endpoint that day. It is best-effort: the processor's idempotency
// keys make racing a client invocation harmless.
type CarryOverSweeper struct {
	db        *gorm.DB
	processor *CarryOverProcessor
	hour      int
	interval  time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewCarryOverSweeper creates a stopped sweeper.
func NewCarryOverSweeper(db *gorm.DB, processor *CarryOverProcessor, hour int, interval time.Duration) *CarryOverSweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CarryOverSweeper{
		db:        db,
		processor: processor,
		hour:      hour,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the background loop. Call Stop to shut it down.
func (s *CarryOverSweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.sweep(time.Now())
			}
		}
	}()
}

// Stop terminates the loop and waits for an in-flight sweep to finish.
func (s *CarryOverSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *CarryOverSweeper) sweep(now time.Time) {
	today := utils.DayKey(now, s.hour)
	yesterday := utils.DayKey(now.Add(-24*time.Hour), s.hour)

	var userIDs []uint
	err := s.db.Model(&models.ActivityDay{}).
		Where("date IN ?", []string{today, yesterday}).
		Distinct().
		Pluck("user_id", &userIDs).Error
	if err != nil {
		utils.Sugar.Warnf("carry-over sweep: active user scan failed: %v", err)
		return
	}

	for _, id := range userIDs {
		res, err := s.processor.Run(id, now)
		if err != nil {
			utils.Sugar.Warnf("carry-over sweep: user=%d failed: %v", id, err)
			continue
		}
		if res.Status == RunCompleted && res.Carried > 0 {
			utils.Sugar.Infof("carry-over sweep: user=%d carried=%d", id, res.Carried)
		}
	}
}
