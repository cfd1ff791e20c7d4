package services

import (
	"errors"
	"time"

	"github.com/arthurfischer009/stepwise-mind-flow-sub000/models"
	"github.com/arthurfischer009/stepwise-mind-flow-sub000/utils"
)

var (
	// ErrStreakNotFound means no streak row exists for the user yet.
	ErrStreakNotFound = errors.New("streak state not found")
	// ErrBonusClaimed means the daily bonus was already claimed this custom day.
	ErrBonusClaimed = errors.New("bonus already claimed today")
	// ErrNotToday means the stored state does not cover the current custom day;
	// the caller must Touch first so the day advances before claiming.
	ErrNotToday = errors.New("streak not touched today")
)

// Outcome of a Touch call.
type Outcome string

const (
	OutcomeInitialized Outcome = "initialized"
	OutcomeSameDay     Outcome = "same_day"
	OutcomeContinued   Outcome = "continued"
	OutcomeReset       Outcome = "reset"
)

// TouchResult reports the streak state after a login was observed.
// PreviousStreak is only meaningful for OutcomeReset: the UI should show
// "streak broken" feedback only when it was greater than 1.
type TouchResult struct {
	Outcome        Outcome `json:"outcome"`
	Streak         int     `json:"streak"`
	Longest        int     `json:"longest"`
	TotalLogins    int     `json:"total_logins"`
	PreviousStreak int     `json:"previous_streak"`
}

// StreakStore persists one StreakState row per user.
type StreakStore interface {
	Load(userID uint) (*models.StreakState, error)
	Save(state *models.StreakState) error
}

// BonusPolicy decides how much XP a daily bonus claim awards. The two
// historical call sites disagreed on the formula, so it is configuration:
// "scaled" awards min(streak*PerDay, Cap), "flat" awards the streak itself.
type BonusPolicy struct {
	Mode   string
	PerDay int
	Cap    int
}

// Amount returns the bonus XP for the given streak length.
func (p BonusPolicy) Amount(streak int) int {
	if streak < 1 {
		streak = 1
	}
	if p.Mode == "flat" {
		return streak
	}
	amount := streak * p.PerDay
	if p.Cap > 0 && amount > p.Cap {
		amount = p.Cap
	}
	return amount
}

// StreakTracker owns the login streak bookkeeping: deciding whether a login
// initializes, continues or resets the streak, and the once-per-day bonus.
type StreakTracker struct {
	store  StreakStore
	hour   int
	policy BonusPolicy
}

// NewStreakTracker creates a tracker. hour is the system-wide day start hour.
func NewStreakTracker(store StreakStore, hour int, policy BonusPolicy) *StreakTracker {
	return &StreakTracker{store: store, hour: hour, policy: policy}
}

// Touch records a login at now. It is idempotent within a custom day and safe
// to call on every session start.
func (t *StreakTracker) Touch(userID uint, now time.Time) (TouchResult, error) {
	today := utils.DayKey(now, t.hour)

	st, err := t.store.Load(userID)
	if errors.Is(err, ErrStreakNotFound) {
		st = &models.StreakState{
			UserID:            userID,
			LastLoginDate:     today,
			CurrentStreak:     1,
			LongestStreak:     1,
			TotalLogins:       1,
			BonusClaimedToday: false,
		}
		if err := t.store.Save(st); err != nil {
			return TouchResult{}, err
		}
		return TouchResult{Outcome: OutcomeInitialized, Streak: 1, Longest: 1, TotalLogins: 1}, nil
	}
	if err != nil {
		return TouchResult{}, err
	}

	// Older writers sometimes produced longest < current; repair rather than fail.
	corrected := false
	if st.LongestStreak < st.CurrentStreak {
		st.LongestStreak = st.CurrentStreak
		corrected = true
	}

	if st.LastLoginDate == today {
		if corrected {
			if err := t.store.Save(st); err != nil {
				return TouchResult{}, err
			}
		}
		return TouchResult{
			Outcome:     OutcomeSameDay,
			Streak:      st.CurrentStreak,
			Longest:     st.LongestStreak,
			TotalLogins: st.TotalLogins,
		}, nil
	}

	yesterday := utils.DayKey(now.Add(-24*time.Hour), t.hour)
	if st.LastLoginDate == yesterday {
		st.CurrentStreak++
		if st.CurrentStreak > st.LongestStreak {
			st.LongestStreak = st.CurrentStreak
		}
		st.TotalLogins++
		st.LastLoginDate = today
		st.BonusClaimedToday = false
		if err := t.store.Save(st); err != nil {
			return TouchResult{}, err
		}
		return TouchResult{
			Outcome:     OutcomeContinued,
			Streak:      st.CurrentStreak,
			Longest:     st.LongestStreak,
			TotalLogins: st.TotalLogins,
		}, nil
	}

	// Gap of two or more custom days: streak restarts, longest is preserved.
	previous := st.CurrentStreak
	st.CurrentStreak = 1
	st.TotalLogins++
	st.LastLoginDate = today
	st.BonusClaimedToday = false
	if err := t.store.Save(st); err != nil {
		return TouchResult{}, err
	}
	return TouchResult{
		Outcome:        OutcomeReset,
		Streak:         1,
		Longest:        st.LongestStreak,
		TotalLogins:    st.TotalLogins,
		PreviousStreak: previous,
	}, nil
}

// ClaimBonus awards the daily streak bonus exactly once per custom day.
// Returns ErrBonusClaimed when already claimed, ErrStreakNotFound when the
// user has no streak yet and ErrNotToday when Touch has not run this day.
// Store failures are returned as-is so callers can distinguish them from
// "already done" and avoid awarding duplicates on retry.
func (t *StreakTracker) ClaimBonus(userID uint, now time.Time) (int, error) {
	st, err := t.store.Load(userID)
	if err != nil {
		return 0, err
	}

	today := utils.DayKey(now, t.hour)
	if st.LastLoginDate != today {
		return 0, ErrNotToday
	}
	if st.BonusClaimedToday {
		return 0, ErrBonusClaimed
	}

	amount := t.policy.Amount(st.CurrentStreak)
	st.BonusClaimedToday = true
	if err := t.store.Save(st); err != nil {
		return 0, err
	}
	return amount, nil
}
