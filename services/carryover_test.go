package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
)

type memTaskStore struct {
	tasks   []models.Task
	moveErr error
	moved   []uint
}

func (m *memTaskStore) IncompleteCreatedBetween(userID uint, start, end time.Time) ([]models.Task, error) {
	var out []models.Task
	for _, t := range m.tasks {
		if t.UserID != userID || t.Completed {
			continue
		}
		if t.CreatedAt.Before(start) || !t.CreatedAt.Before(end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTaskStore) MoveToMorning(taskID uint) error {
	if m.moveErr != nil {
		return m.moveErr
	}
	for i := range m.tasks {
		if m.tasks[i].ID == taskID {
			m.tasks[i].TimePeriod = models.PeriodMorning
		}
	}
	m.moved = append(m.moved, taskID)
	return nil
}

type memRecordStore struct {
	records   []models.CarryOverRecord
	insertErr error
}

func (m *memRecordStore) TaskIDsForDay(userID uint, date string) (map[uint]struct{}, error) {
	ids := map[uint]struct{}{}
	for _, r := range m.records {
		if r.UserID == userID && r.OriginalDate == date {
			ids[r.TaskID] = struct{}{}
		}
	}
	return ids, nil
}

func (m *memRecordStore) Insert(rec *models.CarryOverRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, r := range m.records {
		if r.UserID == rec.UserID && r.TaskID == rec.TaskID && r.OriginalDate == rec.OriginalDate {
			return nil
		}
	}
	m.records = append(m.records, *rec)
	return nil
}

type memSessions struct {
	refs map[string]string // date -> ref
}

func (m *memSessions) SessionRef(userID uint, date string) (string, bool) {
	ref, ok := m.refs[date]
	return ref, ok
}

func carryTask(id uint, title, period string, created time.Time, completed bool) models.Task {
	return models.Task{
		ID:         id,
		UserID:     1,
		Title:      title,
		Category:   "work",
		Points:     10,
		TimePeriod: period,
		Completed:  completed,
		CreatedAt:  created,
	}
}

func TestRunTooEarly(t *testing.T) {
	p := NewCarryOverProcessor(&memTaskStore{}, &memRecordStore{}, nil, 5)

	res, err := p.Run(1, at(t, "2024-03-11T03:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != RunTooEarly {
		t.Fatalf("status = %s, want too_early", res.Status)
	}
}

func TestRunCarriesIncompleteTasks(t *testing.T) {
	tasks := &memTaskStore{tasks: []models.Task{
		carryTask(1, "write report", models.PeriodEvening, at(t, "2024-03-10T10:00:00"), false),
		carryTask(2, "send invoice", models.PeriodAfternoon, at(t, "2024-03-10T15:00:00"), true),
		carryTask(3, "call dentist", models.PeriodMorning, at(t, "2024-03-10T08:00:00"), false),
	}}
	records := &memRecordStore{}
	p := NewCarryOverProcessor(tasks, records, nil, 5)

	res, err := p.Run(1, at(t, "2024-03-11T06:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != RunCompleted || res.Carried != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	// Completed task 2 stays untouched.
	for _, id := range tasks.moved {
		if id == 2 {
			t.Fatal("completed task was moved")
		}
	}

	// Carried tasks end up in the morning slot.
	for _, task := range tasks.tasks {
		if task.ID == 1 && task.TimePeriod != models.PeriodMorning {
			t.Fatalf("task 1 period = %s, want morning", task.TimePeriod)
		}
	}

	if len(records.records) != 2 {
		t.Fatalf("records = %d, want 2", len(records.records))
	}
	for _, r := range records.records {
		if r.OriginalDate != "2024-03-10" {
			t.Errorf("original date = %s, want 2024-03-10", r.OriginalDate)
		}
	}
}

func TestRunSecondCallReportsAlreadyProcessed(t *testing.T) {
	tasks := &memTaskStore{tasks: []models.Task{
		carryTask(1, "write report", models.PeriodEvening, at(t, "2024-03-10T10:00:00"), false),
	}}
	records := &memRecordStore{}
	p := NewCarryOverProcessor(tasks, records, nil, 5)

	now := at(t, "2024-03-11T06:00:00")
	if _, err := p.Run(1, now); err != nil {
		t.Fatal(err)
	}

	res, err := p.Run(1, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != RunAlreadyProcessed || res.Carried != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(records.records) != 1 {
		t.Fatalf("records = %d, want 1", len(records.records))
	}
}

func TestRunNothingToCarry(t *testing.T) {
	p := NewCarryOverProcessor(&memTaskStore{}, &memRecordStore{}, nil, 5)

	res, err := p.Run(1, at(t, "2024-03-11T06:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != RunCompleted || res.Carried != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunSnapshotsProvenance(t *testing.T) {
	tasks := &memTaskStore{tasks: []models.Task{
		carryTask(1, "write report", models.PeriodEvening, at(t, "2024-03-10T10:00:00"), false),
	}}
	records := &memRecordStore{}
	sessions := &memSessions{refs: map[string]string{"2024-03-10": "sess-abc"}}
	p := NewCarryOverProcessor(tasks, records, sessions, 5)

	if _, err := p.Run(1, at(t, "2024-03-11T06:00:00")); err != nil {
		t.Fatal(err)
	}

	rec := records.records[0]
	if rec.Title != "write report" || rec.Category != "work" || rec.Points != 10 {
		t.Fatalf("snapshot mismatch: %+v", rec)
	}
	if rec.OriginalPeriod != models.PeriodEvening {
		t.Fatalf("original period = %s, want evening", rec.OriginalPeriod)
	}
	if rec.SessionRef != "sess-abc" {
		t.Fatalf("session ref = %q, want sess-abc", rec.SessionRef)
	}
}

func TestRunResumesAfterPartialFailure(t *testing.T) {
	tasks := &memTaskStore{tasks: []models.Task{
		carryTask(1, "one", models.PeriodEvening, at(t, "2024-03-10T10:00:00"), false),
		carryTask(2, "two", models.PeriodEvening, at(t, "2024-03-10T11:00:00"), false),
	}}
	records := &memRecordStore{}
	p := NewCarryOverProcessor(tasks, records, nil, 5)

	now := at(t, "2024-03-11T06:00:00")

	// First run fails moving the first task; nothing is recorded yet.
	tasks.moveErr = errors.New("lock timeout")
	res, err := p.Run(1, now)
	if err == nil {
		t.Fatal("expected error from failing move")
	}
	if !strings.Contains(err.Error(), "carry-over move") {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Carried != 0 {
		t.Fatalf("carried = %d, want 0", res.Carried)
	}

	// A retry picks up both tasks and records each exactly once.
	tasks.moveErr = nil
	res, err = p.Run(1, now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != RunCompleted {
		t.Fatalf("status = %s, want completed", res.Status)
	}
	if len(records.records) != 2 {
		t.Fatalf("records = %d, want 2", len(records.records))
	}
}

func TestRunOnlyYesterdaysTasks(t *testing.T) {
	tasks := &memTaskStore{tasks: []models.Task{
		carryTask(1, "old", models.PeriodEvening, at(t, "2024-03-08T10:00:00"), false),
		carryTask(2, "today", models.PeriodMorning, at(t, "2024-03-11T07:00:00"), false),
		carryTask(3, "yesterday", models.PeriodEvening, at(t, "2024-03-10T10:00:00"), false),
	}}
	records := &memRecordStore{}
	p := NewCarryOverProcessor(tasks, records, nil, 5)

	res, err := p.Run(1, at(t, "2024-03-11T08:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Carried != 1 {
		t.Fatalf("carried = %d, want 1", res.Carried)
	}
	if records.records[0].TaskID != 3 {
		t.Fatalf("carried task %d, want 3", records.records[0].TaskID)
	}
}
