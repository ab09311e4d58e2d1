package scoredomain

// UserTally accumulates a user's per-match results across played matches.
type UserTally struct {
	MatchPoints   int
	ExactCount    int
	ScoredCount   int
	GroupPoints   int
	PlayoffPoints int
}

// ScoreSheet is the evaluator applied to every prediction of every played match.
type ScoreSheet struct {
	Scores  map[PredictionKey]MatchScore
	Tallies map[string]UserTally
}

// Tally returns the user's accumulated results, zero when the user has none.
func (s ScoreSheet) Tally(userID string) UserTally {
	return s.Tallies[userID]
}

// ExactCounts returns exact-hit counts keyed by user.
func (s ScoreSheet) ExactCounts() map[string]int {
	out := make(map[string]int, len(s.Tallies))
	for id, t := range s.Tallies {
		out[id] = t.ExactCount
	}
	return out
}

// Tally evaluates every prediction of every played match.
func (r Rules) Tally(s Snapshot) ScoreSheet {
	sheet := ScoreSheet{
		Scores:  make(map[PredictionKey]MatchScore),
		Tallies: make(map[string]UserTally, len(s.Users)),
	}
	for _, u := range s.Users {
		sheet.Tallies[u.ID] = UserTally{}
	}

	matches := make(map[string]Match, len(s.Matches))
	for _, m := range s.Matches {
		matches[m.ID] = m
	}

	for key, p := range s.PredictionIndex() {
		m, ok := matches[key.MatchID]
		if !ok || !m.Played() {
			continue
		}
		score := r.Evaluate(NewMatchInput(p, m))
		sheet.Scores[key] = score

		t := sheet.Tallies[key.UserID]
		t.MatchPoints += score.Points
		if score.Exact {
			t.ExactCount++
		}
		if score.Scored {
			t.ScoredCount++
		}
		if r.IsPlayoffPhase(m.Phase) {
			t.PlayoffPoints += score.Points
		} else {
			t.GroupPoints += score.Points
		}
		sheet.Tallies[key.UserID] = t
	}
	return sheet
}
