package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
)

// GORM-backed store implementations used by the HTTP layer and the sweeper.
// The service structs only see the interfaces, which keeps their logic
// testable against in-memory fakes.

// GormStreakStore persists StreakState rows.
type GormStreakStore struct {
	db *gorm.DB
}

func NewGormStreakStore(db *gorm.DB) *GormStreakStore {
	return &GormStreakStore{db: db}
}

func (s *GormStreakStore) Load(userID uint) (*models.StreakState, error) {
	var st models.StreakState
	if err := s.db.Where("user_id = ?", userID).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStreakNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (s *GormStreakStore) Save(state *models.StreakState) error {
	return s.db.Save(state).Error
}

// GormCarryTaskStore reads and nudges tasks for carry-over.
type GormCarryTaskStore struct {
	db *gorm.DB
}

func NewGormCarryTaskStore(db *gorm.DB) *GormCarryTaskStore {
	return &GormCarryTaskStore{db: db}
}

func (s *GormCarryTaskStore) IncompleteCreatedBetween(userID uint, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.
		Where("user_id = ? AND completed = ? AND created_at >= ? AND created_at < ?", userID, false, start, end).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (s *GormCarryTaskStore) MoveToMorning(taskID uint) error {
	return s.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"time_period": models.PeriodMorning,
			"updated_at":  time.Now(),
		}).Error
}

// GormCarryRecordStore is the append-only audit log.
type GormCarryRecordStore struct {
	db *gorm.DB
}

func NewGormCarryRecordStore(db *gorm.DB) *GormCarryRecordStore {
	return &GormCarryRecordStore{db: db}
}

func (s *GormCarryRecordStore) TaskIDsForDay(userID uint, date string) (map[uint]struct{}, error) {
	var ids []uint
	err := s.db.Model(&models.CarryOverRecord{}).
		Where("user_id = ? AND original_date = ?", userID, date).
		Pluck("task_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *GormCarryRecordStore) Insert(rec *models.CarryOverRecord) error {
	// Insert-if-absent on the (user, task, original date) unique index; a
	// concurrent run inserting the same key must not error out.
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error
}

// GormSessionLookup resolves lock-in session provenance.
type GormSessionLookup struct {
	db *gorm.DB
}

func NewGormSessionLookup(db *gorm.DB) *GormSessionLookup {
	return &GormSessionLookup{db: db}
}

func (s *GormSessionLookup) SessionRef(userID uint, date string) (string, bool) {
	var session models.FocusSession
	err := s.db.
		Where("user_id = ? AND date = ?", userID, date).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		return "", false
	}
	return session.Ref, true
}
