package services

import (
	"fmt"
	"time"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

// RunStatus of a carry-over run.
type RunStatus string

const (
	RunTooEarly         RunStatus = "too_early"
	RunAlreadyProcessed RunStatus = "already_processed"
	RunCompleted        RunStatus = "completed"
)

// RunResult reports what a carry-over run did. Carried counts tasks moved in
// this run; zero is a valid, common result.
type RunResult struct {
	Status  RunStatus `json:"status"`
	Carried int       `json:"carried"`
}

// CarryTaskStore is the slice of the task store carry-over needs: reading
// yesterday's unfinished tasks and nudging a task into the morning slot.
type CarryTaskStore interface {
	IncompleteCreatedBetween(userID uint, start, end time.Time) ([]models.Task, error)
	MoveToMorning(taskID uint) error
}

// CarryRecordStore persists the append-only carry-over audit log. Insert must
// be a no-op when a record with the same (user, task, original date) key
// already exists; that per-record key is what makes retries safe.
type CarryRecordStore interface {
	TaskIDsForDay(userID uint, date string) (map[uint]struct{}, error)
	Insert(rec *models.CarryOverRecord) error
}

// SessionLookup resolves the lock-in session reference for a user and day.
// Purely provenance metadata: absence is not an error.
type SessionLookup interface {
	SessionRef(userID uint, date string) (string, bool)
}

// CarryOverProcessor moves yesterday's unfinished tasks into today's morning
// slot once per custom day, writing one audit record per task.
type CarryOverProcessor struct {
	tasks    CarryTaskStore
	records  CarryRecordStore
	sessions SessionLookup // optional
	hour     int
}

// NewCarryOverProcessor creates a processor. sessions may be nil.
func NewCarryOverProcessor(tasks CarryTaskStore, records CarryRecordStore, sessions SessionLookup, hour int) *CarryOverProcessor {
	return &CarryOverProcessor{tasks: tasks, records: records, sessions: sessions, hour: hour}
}

// Run processes the transition into the custom day containing now. Idempotency
// is layered: a day-level check skips the common already-done case before any
// mutation, and each task's record key makes the worst-case retry safe, so a
// run that failed partway is repaired by simply calling Run again. Concurrent
// invocations (two tabs, sweeper racing a client) may both pass the day-level
// check; the per-record insert-if-absent keeps that harmless.
func (p *CarryOverProcessor) Run(userID uint, now time.Time) (RunResult, error) {
	// Before the day-start hour the new custom day has not begun yet.
	if now.Hour() < p.hour {
		return RunResult{Status: RunTooEarly}, nil
	}

	yesterday := utils.BoundariesFor(now, 1, p.hour)
	date := yesterday.Start.Format("2006-01-02")

	recorded, err := p.records.TaskIDsForDay(userID, date)
	if err != nil {
		return RunResult{}, fmt.Errorf("carry-over idempotency check: %w", err)
	}

	tasks, err := p.tasks.IncompleteCreatedBetween(userID, yesterday.Start, yesterday.End)
	if err != nil {
		return RunResult{}, fmt.Errorf("carry-over task scan: %w", err)
	}

	pending := tasks[:0]
	for _, t := range tasks {
		if _, done := recorded[t.ID]; !done {
			pending = append(pending, t)
		}
	}

	if len(pending) == 0 {
		if len(recorded) > 0 {
			return RunResult{Status: RunAlreadyProcessed}, nil
		}
		return RunResult{Status: RunCompleted}, nil
	}

	sessionRef := ""
	if p.sessions != nil {
		sessionRef, _ = p.sessions.SessionRef(userID, date)
	}

	carried := 0
	for _, t := range pending {
		rec := &models.CarryOverRecord{
			UserID:         userID,
			TaskID:         t.ID,
			OriginalDate:   date,
			Title:          t.Title,
			Category:       t.Category,
			Points:         t.Points,
			OriginalPeriod: t.TimePeriod,
			SessionRef:     sessionRef,
		}
		// Move first, record second. Moving is idempotent, so a crash between
		// the two is repaired by the retry; the reverse order would leave a
		// recorded-but-unmoved task the retry skips forever.
		if err := p.tasks.MoveToMorning(t.ID); err != nil {
			return RunResult{Status: RunCompleted, Carried: carried},
				fmt.Errorf("carry-over move for task %d: %w", t.ID, err)
		}
		if err := p.records.Insert(rec); err != nil {
			return RunResult{Status: RunCompleted, Carried: carried},
				fmt.Errorf("carry-over record for task %d: %w", t.ID, err)
		}
		carried++
	}

	return RunResult{Status: RunCompleted, Carried: carried}, nil
}
