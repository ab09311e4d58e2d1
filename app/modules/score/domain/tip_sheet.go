package scoredomain

import "time"

// TipRow is one user's line on a match's tip sheet. Prediction is only filled
// in once the sheet is revealed; before that the row just says whether a tip exists.
type TipRow struct {
	UserID     string
	Name       string
	HasTip     bool
	Prediction *Prediction
	Score      *MatchScore
}

// TipSheet lists every user's tip for one match.
type TipSheet struct {
	Match    Match
	Revealed bool
	Split    CrowdSplit
	Rows     []TipRow
}

// Revealed reports whether tips for m may be shown to other users: the match
// is over or has kicked off.
func Revealed(m Match, now time.Time) bool {
	return m.Played() || (m.HasKickoff() && !now.Before(m.Kickoff))
}

// MatchSheet builds the tip sheet for matchID in user order. Scores are only
// attached once the match has a result. A 0:0 tip is listed like any other;
// only the crowd split leaves it out.
func (r Rules) MatchSheet(s Snapshot, matchID string, now time.Time) (TipSheet, bool) {
	var (
		match Match
		found bool
	)
	for _, m := range s.Matches {
		if m.ID == matchID {
			match, found = m, true
			break
		}
	}
	if !found {
		return TipSheet{}, false
	}

	idx := s.PredictionIndex()
	sheet := TipSheet{
		Match:    match,
		Revealed: Revealed(match, now),
		Split:    NewCrowdSplit(s.PredictionsByMatch()[matchID]),
		Rows:     make([]TipRow, 0, len(s.Users)),
	}
	for _, u := range s.Users {
		row := TipRow{UserID: u.ID, Name: u.Name}
		p, ok := idx[PredictionKey{UserID: u.ID, MatchID: matchID}]
		row.HasTip = ok
		if row.HasTip && sheet.Revealed {
			tip := p
			row.Prediction = &tip
			if match.Played() {
				score := r.Evaluate(NewMatchInput(p, match))
				row.Score = &score
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, true
}
