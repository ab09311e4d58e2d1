package scoredomain

import "time"

// Role is the permission level of a participant.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleModerator   Role = "moderator"
	RoleAdmin       Role = "admin"
)

// Match is a single scheduled game. HomeScore and AwayScore stay nil until the
// match has been played; Overtime is only meaningful once both are set.
type Match struct {
	ID        string
	HomeTeam  string
	AwayTeam  string
	Phase     string
	Kickoff   time.Time
	HomeScore *int
	AwayScore *int
	Overtime  bool
}

// Played reports whether the final score is known.
func (m Match) Played() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// HasKickoff reports whether the match carries a scheduled time.
func (m Match) HasKickoff() bool {
	return !m.Kickoff.IsZero()
}

// Prediction is one user's tip for one match.
type Prediction struct {
	UserID   string
	MatchID  string
	Home     int
	Away     int
	Overtime bool
}

// Trivial reports whether the tip is the 0:0 placeholder that crowd statistics ignore.
func (p Prediction) Trivial() bool {
	return p.Home == 0 && p.Away == 0
}

// LongTermBet holds the tournament-wide picks of a user. The order of medals is irrelevant.
type LongTermBet struct {
	Winner string
	Medals [3]string
}

// Complete reports whether the winner and all three medal slots are filled in.
func (b LongTermBet) Complete() bool {
	if b.Winner == "" {
		return false
	}
	for _, m := range b.Medals {
		if m == "" {
			return false
		}
	}
	return true
}

// User is a contest participant.
type User struct {
	ID           string
	Name         string
	Role         Role
	Team         string
	LongTerm     LongTermBet
	Paid         bool
	RegisteredAt time.Time
}

// OfficialResults are filled in by an administrator once the tournament is over.
type OfficialResults struct {
	Winner string
	Medals [3]string
}

// Concluded reports whether the official winner has been published.
func (o OfficialResults) Concluded() bool {
	return o.Winner != ""
}

// TournamentSettings is the contest-wide configuration.
type TournamentSettings struct {
	LongTermDeadline time.Time
	Official         OfficialResults
}

// Snapshot is everything one scoring pass needs, read once from storage.
type Snapshot struct {
	Matches     []Match
	Predictions []Prediction
	Users       []User
	Settings    TournamentSettings
}

// PredictionKey identifies a prediction by user and match.
type PredictionKey struct {
	UserID  string
	MatchID string
}

// PredictionIndex maps (user, match) to the prediction. Later duplicates win,
// mirroring how a re-submitted tip replaces the earlier one.
func (s Snapshot) PredictionIndex() map[PredictionKey]Prediction {
	idx := make(map[PredictionKey]Prediction, len(s.Predictions))
	for _, p := range s.Predictions {
		idx[PredictionKey{UserID: p.UserID, MatchID: p.MatchID}] = p
	}
	return idx
}

// PredictionsByMatch groups the de-duplicated predictions per match, keeping user order stable.
func (s Snapshot) PredictionsByMatch() map[string][]Prediction {
	idx := s.PredictionIndex()
	out := make(map[string][]Prediction)
	seen := make(map[PredictionKey]bool, len(idx))
	for _, p := range s.Predictions {
		key := PredictionKey{UserID: p.UserID, MatchID: p.MatchID}
		if seen[key] {
			continue
		}
		seen[key] = true
		out[p.MatchID] = append(out[p.MatchID], idx[key])
	}
	return out
}

// TournamentOver reports whether every scheduled match has a final score.
func (s Snapshot) TournamentOver() bool {
	if len(s.Matches) == 0 {
		return false
	}
	for _, m := range s.Matches {
		if !m.Played() {
			return false
		}
	}
	return true
}

// MaskResultsFrom returns a copy of the snapshot in which every match kicked off
// at or after cutoff (or without a kickoff time) is treated as not yet played.
func (s Snapshot) MaskResultsFrom(cutoff time.Time) Snapshot {
	out := s
	out.Matches = make([]Match, len(s.Matches))
	for i, m := range s.Matches {
		if !m.HasKickoff() || !m.Kickoff.Before(cutoff) {
			m.HomeScore = nil
			m.AwayScore = nil
			m.Overtime = false
		}
		out.Matches[i] = m
	}
	return out
}

// UsersRegisteredBefore filters out users who joined at or after cutoff.
// Users without a registration time are assumed to have always been there.
func (s Snapshot) UsersRegisteredBefore(cutoff time.Time) []User {
	out := make([]User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.RegisteredAt.IsZero() || u.RegisteredAt.Before(cutoff) {
			out = append(out, u)
		}
	}
	return out
}

// Goals is a convenience for building optional scores.
func Goals(n int) *int {
	return &n
}
