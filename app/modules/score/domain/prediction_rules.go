package scoredomain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrGoalsOutOfRange is returned for negative scores or scores above the configured maximum.
	ErrGoalsOutOfRange = errors.New("predicted goals out of range")
	// ErrPredictionLocked is returned when a tip arrives after kickoff.
	ErrPredictionLocked = errors.New("match already started")
	// ErrLongTermLocked is returned when long-term bets change after the deadline.
	ErrLongTermLocked = errors.New("long-term bets are locked")
)

// SanitizePrediction validates a tip before it is stored. The overtime flag only
// survives when the predicted margin is a single goal.
func (r Rules) SanitizePrediction(p Prediction, m Match, now time.Time) (Prediction, error) {
	if p.Home < 0 || p.Away < 0 || p.Home > r.MaxGoalsPerTeam || p.Away > r.MaxGoalsPerTeam {
		return Prediction{}, fmt.Errorf("%w: %d:%d", ErrGoalsOutOfRange, p.Home, p.Away)
	}
	if m.HasKickoff() && !now.Before(m.Kickoff) {
		return Prediction{}, fmt.Errorf("%w: %s", ErrPredictionLocked, m.ID)
	}
	if abs(p.Home-p.Away) != 1 {
		p.Overtime = false
	}
	p.MatchID = m.ID
	return p, nil
}

// CheckLongTermWindow rejects long-term bet changes after the deadline.
func CheckLongTermWindow(settings TournamentSettings, now time.Time) error {
	if PastDeadline(settings.LongTermDeadline, now) {
		return ErrLongTermLocked
	}
	return nil
}
