package scoredomain

import (
	"sort"
	"strings"
	"time"
)

// TeamReadability is the average "pure" points a team yields to predictors.
type TeamReadability struct {
	Team    string
	Average float64
	Matches int
}

// purePoints scores a tip without the playoff multiplier, national team bonus or
// daily best, but with the overtime side bet and the underdog bonus.
func (r Rules) purePoints(p Prediction, m Match, underdog bool) int {
	rh, ra := *m.HomeScore, *m.AwayScore
	pts := 0
	correct := predictedWinner(p.Home, p.Away) == actualWinner(rh, ra)
	if correct {
		diff := abs(rh-p.Home) + abs(ra-p.Away)
		pts += max(r.MinWinnerPoints, r.MaxBasePoints-diff)
		if p.Home == rh && p.Away == ra {
			pts += r.ExactScoreBonus
		}
	}
	if abs(p.Home-p.Away) == 1 && p.Overtime {
		if m.Overtime {
			pts += r.OvertimeHit
		} else {
			pts += r.OvertimeMiss
		}
	}
	if underdog && correct {
		pts += r.UnderdogBonus
	}
	return max(0, pts)
}

// TeamReadability ranks teams by how predictable their matches were, most readable first.
func (r Rules) TeamReadability(s Snapshot) []TeamReadability {
	byMatch := s.PredictionsByMatch()
	perTeam := make(map[string][]float64)
	var order []string

	for _, m := range s.Matches {
		preds := byMatch[m.ID]
		if !m.Played() || len(preds) == 0 {
			continue
		}
		_, _, underdog := r.UnderdogWinner(m, NewCrowdSplit(preds))
		sum := 0
		for _, p := range preds {
			sum += r.purePoints(p, m, underdog)
		}
		avg := float64(sum) / float64(len(preds))
		for _, team := range []string{m.HomeTeam, m.AwayTeam} {
			if _, ok := perTeam[team]; !ok {
				order = append(order, team)
			}
			perTeam[team] = append(perTeam[team], avg)
		}
	}

	out := make([]TeamReadability, 0, len(order))
	for _, team := range order {
		avgs := perTeam[team]
		total := 0.0
		for _, a := range avgs {
			total += a
		}
		out = append(out, TeamReadability{Team: team, Average: total / float64(len(avgs)), Matches: len(avgs)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Average > out[j].Average })
	return out
}

// MatchAverage is the mean score predictors earned on one played match.
type MatchAverage struct {
	MatchID     string
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	Playoff     bool
	Average     float64
	Predictions int
}

// MatchExtremes holds the easiest and hardest match of one stage.
type MatchExtremes struct {
	Playoff bool
	Lucky   MatchAverage
	Killer  MatchAverage
}

// MatchAverages evaluates every played match that has predictions.
func (r Rules) MatchAverages(s Snapshot) []MatchAverage {
	byMatch := s.PredictionsByMatch()
	var out []MatchAverage
	for _, m := range s.Matches {
		preds := byMatch[m.ID]
		if !m.Played() || len(preds) == 0 {
			continue
		}
		total := 0
		for _, p := range preds {
			total += r.Evaluate(NewMatchInput(p, m)).Points
		}
		out = append(out, MatchAverage{
			MatchID:     m.ID,
			HomeTeam:    m.HomeTeam,
			AwayTeam:    m.AwayTeam,
			HomeScore:   *m.HomeScore,
			AwayScore:   *m.AwayScore,
			Playoff:     r.IsPlayoffPhase(m.Phase),
			Average:     float64(total) / float64(len(preds)),
			Predictions: len(preds),
		})
	}
	return out
}

// Extremes picks the highest and lowest average per stage; group stage first.
func Extremes(avgs []MatchAverage) []MatchExtremes {
	var out []MatchExtremes
	for _, playoff := range []bool{false, true} {
		var ext *MatchExtremes
		for _, a := range avgs {
			if a.Playoff != playoff {
				continue
			}
			if ext == nil {
				ext = &MatchExtremes{Playoff: playoff, Lucky: a, Killer: a}
				continue
			}
			if a.Average > ext.Lucky.Average {
				ext.Lucky = a
			}
			if a.Average < ext.Killer.Average {
				ext.Killer = a
			}
		}
		if ext != nil {
			out = append(out, *ext)
		}
	}
	return out
}

// Vote is a team and how many users picked it.
type Vote struct {
	Team  string
	Count int
}

// LongTermFavourites counts winner picks and medal picks across users, most popular first.
func LongTermFavourites(users []User) (winners, medals []Vote) {
	return countVotes(users, func(u User) []string { return []string{u.LongTerm.Winner} }),
		countVotes(users, func(u User) []string { return u.LongTerm.Medals[:] })
}

func countVotes(users []User, pick func(User) []string) []Vote {
	counts := make(map[string]int)
	var order []string
	for _, u := range users {
		for _, t := range pick(u) {
			if t == "" {
				continue
			}
			if counts[t] == 0 {
				order = append(order, t)
			}
			counts[t]++
		}
	}
	out := make([]Vote, 0, len(order))
	for _, t := range order {
		out = append(out, Vote{Team: t, Count: counts[t]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

var placeholderTeams = []string{"čtvrtfinále", "semifinále", "finále", "o 3. místo", "o bronz", "vítěz"}

// AllTeams lists the real team names appearing in the schedule, skipping
// knockout placeholders such as "Vítěz A1".
func AllTeams(matches []Match) []string {
	set := make(map[string]bool)
	for _, m := range matches {
		for _, t := range []string{m.HomeTeam, m.AwayTeam} {
			if t == "" || containsAny(strings.ToLower(t), placeholderTeams) {
				continue
			}
			set[t] = true
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// PastDeadline reports whether now is after the deadline. A zero deadline never passes.
func PastDeadline(deadline, now time.Time) bool {
	if deadline.IsZero() {
		return false
	}
	return now.After(deadline)
}

// SuccessRate is the share of played matches in which the user scored.
func SuccessRate(t UserTally, playedMatches int) float64 {
	if playedMatches == 0 {
		return 0
	}
	return float64(t.ScoredCount) / float64(playedMatches)
}
