// Package gamification advances the streak, level and city growth that
// reward daily use of the app.
package gamification

import (
	"time"

	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/pkg/datetime"
)

const (
	MaxLevel     = 30
	MinLevel     = 1
	MaxBuildings = 30
	MaxHappiness = 100
)

// Advance registers one interaction at now. At most one interaction per
// calendar day counts: a second interaction on the same day is a no-op.
// Consecutive days grow the streak and level, a gap of d days knocks the
// level back by d-1 and resets the streak. Reports whether the state
// changed.
func Advance(st *model.GamificationState, now time.Time) bool {
	today := datetime.DateOf(now)

	if st.LastInteraction.IsZero() {
		st.CurrentLevel = MinLevel
		st.Streak = 1
		st.TotalInteractions++
		st.LastInteraction = now
		st.CityState = CityFor(st.CurrentLevel)
		return true
	}

	d := datetime.DaysBetween(datetime.DateOf(st.LastInteraction), today)
	switch {
	case d <= 0:
		// Same day, or a clock that went backwards.
		return false
	case d == 1:
		st.Streak++
		st.CurrentLevel = min(MaxLevel, st.CurrentLevel+1)
	default:
		st.Streak = 1
		st.CurrentLevel = max(MinLevel, st.CurrentLevel-d+1)
	}

	st.TotalInteractions++
	st.LastInteraction = now
	st.CityState = CityFor(st.CurrentLevel)
	return true
}

// CityFor derives the city visualization from a level.
func CityFor(level int) model.CityState {
	return model.CityState{
		Buildings:  min(MaxBuildings, level/2+1),
		Population: level*50 + 50,
		Happiness:  min(MaxHappiness, level*3+20),
	}
}

// NewState is the starting state for a fresh document.
func NewState() model.GamificationState {
	return model.GamificationState{
		CurrentLevel: MinLevel,
		Streak:       0,
		CityState:    CityFor(MinLevel),
	}
}
