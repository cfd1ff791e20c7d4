package services

import (
	"errors"
	"testing"
	"time"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
)

// memStreakStore is an in-memory StreakStore for tests. saveErr, when set,
// makes the next Save fail.
type memStreakStore struct {
	states  map[uint]models.StreakState
	saveErr error
	saves   int
}

func newMemStreakStore() *memStreakStore {
	return &memStreakStore{states: map[uint]models.StreakState{}}
}

func (m *memStreakStore) Load(userID uint) (*models.StreakState, error) {
	st, ok := m.states[userID]
	if !ok {
		return nil, ErrStreakNotFound
	}
	copied := st
	return &copied, nil
}

func (m *memStreakStore) Save(state *models.StreakState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.states[state.UserID] = *state
	return nil
}

func (m *memStreakStore) seed(st models.StreakState) {
	m.states[st.UserID] = st
}

func testTracker(store StreakStore) *StreakTracker {
	return NewStreakTracker(store, 5, BonusPolicy{Mode: "scaled", PerDay: 5, Cap: 50})
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

func TestTouchInitializes(t *testing.T) {
	store := newMemStreakStore()
	tracker := testTracker(store)

	res, err := tracker.Touch(1, at(t, "2024-03-11T06:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeInitialized || res.Streak != 1 || res.Longest != 1 || res.TotalLogins != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if store.states[1].LastLoginDate != "2024-03-11" {
		t.Fatalf("stored date = %s", store.states[1].LastLoginDate)
	}
}

func TestTouchContinuesFromYesterday(t *testing.T) {
	store := newMemStreakStore()
	store.seed(models.StreakState{
		UserID:        1,
		LastLoginDate: "2024-03-10",
		CurrentStreak: 4,
		LongestStreak: 4,
		TotalLogins:   20,
	})
	tracker := testTracker(store)

	res, err := tracker.Touch(1, at(t, "2024-03-11T06:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeContinued || res.Streak != 5 || res.Longest != 5 || res.TotalLogins != 21 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestTouchSameDayIsIdempotent(t *testing.T) {
	store := newMemStreakStore()
	tracker := testTracker(store)

	now := at(t, "2024-03-11T06:00:00")
	if _, err := tracker.Touch(1, now); err != nil {
		t.Fatal(err)
	}
	savesAfterInit := store.saves

	res, err := tracker.Touch(1, at(t, "2024-03-11T23:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeSameDay || res.Streak != 1 || res.TotalLogins != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if store.saves != savesAfterInit {
		t.Fatalf("same-day touch wrote %d extra saves", store.saves-savesAfterInit)
	}
}

func TestTouchEarlyMorningCountsAsPreviousDay(t *testing.T) {
	// 02:00 on the 11th is still the custom day of the 10th, so a login then
	// followed by one after 05:00 continues rather than repeats.
	store := newMemStreakStore()
	tracker := testTracker(store)

	if _, err := tracker.Touch(1, at(t, "2024-03-11T02:00:00")); err != nil {
		t.Fatal(err)
	}
	if store.states[1].LastLoginDate != "2024-03-10" {
		t.Fatalf("early login stored as %s", store.states[1].LastLoginDate)
	}

	res, err := tracker.Touch(1, at(t, "2024-03-11T08:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeContinued || res.Streak != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestTouchResetsAfterGap(t *testing.T) {
	store := newMemStreakStore()
	store.seed(models.StreakState{
		UserID:        1,
		LastLoginDate: "2024-03-10",
		CurrentStreak: 4,
		LongestStreak: 6,
		TotalLogins:   20,
	})
	tracker := testTracker(store)

	res, err := tracker.Touch(1, at(t, "2024-03-13T06:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeReset || res.Streak != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Longest != 6 {
		t.Fatalf("longest not preserved: %+v", res)
	}
	if res.PreviousStreak != 4 {
		t.Fatalf("previous streak = %d, want 4", res.PreviousStreak)
	}
	if res.TotalLogins != 21 {
		t.Fatalf("total logins = %d, want 21", res.TotalLogins)
	}
}

func TestTouchRepairsLongestStreak(t *testing.T) {
	store := newMemStreakStore()
	store.seed(models.StreakState{
		UserID:        1,
		LastLoginDate: "2024-03-11",
		CurrentStreak: 8,
		LongestStreak: 3,
		TotalLogins:   8,
	})
	tracker := testTracker(store)

	res, err := tracker.Touch(1, at(t, "2024-03-11T12:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeSameDay || res.Longest != 8 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if store.states[1].LongestStreak != 8 {
		t.Fatalf("correction not persisted: %+v", store.states[1])
	}
}

func TestTouchResetClearsBonusFlag(t *testing.T) {
	store := newMemStreakStore()
	store.seed(models.StreakState{
		UserID:            1,
		LastLoginDate:     "2024-03-10",
		CurrentStreak:     4,
		LongestStreak:     4,
		TotalLogins:       4,
		BonusClaimedToday: true,
	})
	tracker := testTracker(store)

	if _, err := tracker.Touch(1, at(t, "2024-03-11T06:00:00")); err != nil {
		t.Fatal(err)
	}
	if store.states[1].BonusClaimedToday {
		t.Fatal("bonus flag not cleared on new day")
	}
}

func TestTouchStoreFailure(t *testing.T) {
	store := newMemStreakStore()
	store.saveErr = errors.New("disk full")
	tracker := testTracker(store)

	if _, err := tracker.Touch(1, at(t, "2024-03-11T06:00:00")); err == nil {
		t.Fatal("expected error from failing store")
	}
	if len(store.states) != 0 {
		t.Fatal("state written despite save failure")
	}
}

func TestClaimBonusOncePerDay(t *testing.T) {
	store := newMemStreakStore()
	tracker := testTracker(store)
	now := at(t, "2024-03-11T06:00:00")

	if _, err := tracker.Touch(1, now); err != nil {
		t.Fatal(err)
	}

	amount, err := tracker.ClaimBonus(1, now)
	if err != nil {
		t.Fatal(err)
	}
	if amount != 5 {
		t.Fatalf("amount = %d, want 5", amount)
	}

	if _, err := tracker.ClaimBonus(1, now); !errors.Is(err, ErrBonusClaimed) {
		t.Fatalf("second claim: err = %v, want ErrBonusClaimed", err)
	}
}

func TestClaimBonusRequiresTouchToday(t *testing.T) {
	store := newMemStreakStore()
	store.seed(models.StreakState{
		UserID:        1,
		LastLoginDate: "2024-03-10",
		CurrentStreak: 4,
		LongestStreak: 4,
	})
	tracker := testTracker(store)

	if _, err := tracker.ClaimBonus(1, at(t, "2024-03-11T06:00:00")); !errors.Is(err, ErrNotToday) {
		t.Fatalf("err = %v, want ErrNotToday", err)
	}
}

func TestClaimBonusNoStreak(t *testing.T) {
	tracker := testTracker(newMemStreakStore())
	if _, err := tracker.ClaimBonus(1, at(t, "2024-03-11T06:00:00")); !errors.Is(err, ErrStreakNotFound) {
		t.Fatalf("err = %v, want ErrStreakNotFound", err)
	}
}

func TestBonusPolicyAmount(t *testing.T) {
	scaled := BonusPolicy{Mode: "scaled", PerDay: 5, Cap: 50}
	cases := []struct {
		streak int
		want   int
	}{
		{0, 5},
		{1, 5},
		{4, 20},
		{10, 50},
		{30, 50},
	}
	for _, c := range cases {
		if got := scaled.Amount(c.streak); got != c.want {
			t.Errorf("scaled.Amount(%d) = %d, want %d", c.streak, got, c.want)
		}
	}

	flat := BonusPolicy{Mode: "flat"}
	if got := flat.Amount(7); got != 7 {
		t.Errorf("flat.Amount(7) = %d, want 7", got)
	}
	if got := flat.Amount(0); got != 1 {
		t.Errorf("flat.Amount(0) = %d, want 1", got)
	}
}
