package scoredomain

import (
	"sort"
	"time"
)

// SharpshooterResult lists exact-hit counts and who earned the end-of-tournament bonus.
type SharpshooterResult struct {
	Counts  map[string]int
	Max     int
	Awarded map[string]int
}

// Sharpshooter awards the bonus to everyone at the (positive) maximum number of
// exact hits, but only once the whole tournament has been played.
func (r Rules) Sharpshooter(users []User, exact map[string]int, tournamentOver bool) SharpshooterResult {
	res := SharpshooterResult{
		Counts:  make(map[string]int, len(users)),
		Awarded: make(map[string]int),
	}
	for _, u := range users {
		c := exact[u.ID]
		res.Counts[u.ID] = c
		if c > res.Max {
			res.Max = c
		}
	}
	if !tournamentOver || res.Max <= 0 {
		return res
	}
	for id, c := range res.Counts {
		if c == res.Max {
			res.Awarded[id] = r.SharpshooterBonus
		}
	}
	return res
}

// DailyBestEntry records the winners of one fully played match day.
type DailyBestEntry struct {
	Date      time.Time
	Matches   int
	Winners   []string
	DayPoints int
	Bonus     float64
}

// DailyBestResult is the accumulated daily bonus per user plus the per-day log.
type DailyBestResult struct {
	Bonus map[string]float64
	Log   []DailyBestEntry
}

// Yesterday returns the log entry for the calendar day before now, if any.
func (d DailyBestResult) Yesterday(now time.Time, loc *time.Location) (DailyBestEntry, bool) {
	y := now.In(loc).AddDate(0, 0, -1)
	for _, e := range d.Log {
		ey, em, ed := e.Date.Date()
		if yy, ym, yd := y.Date(); ey == yy && em == ym && ed == yd {
			return e, true
		}
	}
	return DailyBestEntry{}, false
}

// DayKey truncates t to its calendar date in loc.
func DayKey(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DailyBest finds, for every match day whose slate is complete, the users with the
// highest points that day. Each of them earns DailyBestPerMatch per match of the day.
func (r Rules) DailyBest(s Snapshot, loc *time.Location) DailyBestResult {
	if loc == nil {
		loc = time.UTC
	}
	res := DailyBestResult{Bonus: make(map[string]float64)}

	days := make(map[time.Time][]Match)
	for _, m := range s.Matches {
		if !m.HasKickoff() {
			continue
		}
		k := DayKey(m.Kickoff, loc)
		days[k] = append(days[k], m)
	}
	keys := make([]time.Time, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	tips := s.PredictionIndex()
	for _, day := range keys {
		matches := days[day]
		complete := true
		for _, m := range matches {
			if !m.Played() {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		daily := make(map[string]int, len(s.Users))
		best := 0
		for _, u := range s.Users {
			sum := 0
			for _, m := range matches {
				p, ok := tips[PredictionKey{UserID: u.ID, MatchID: m.ID}]
				if !ok {
					continue
				}
				score := r.Evaluate(NewMatchInput(p, m))
				if r.DailyBestIncludesOvertime {
					sum += score.Points
				} else {
					sum += score.BasePoints
				}
			}
			daily[u.ID] = sum
			if sum > best {
				best = sum
			}
		}
		if best <= 0 {
			continue
		}

		bonus := r.DailyBestPerMatch * float64(len(matches))
		entry := DailyBestEntry{Date: day, Matches: len(matches), DayPoints: best, Bonus: bonus}
		for _, u := range s.Users {
			if daily[u.ID] == best {
				res.Bonus[u.ID] += bonus
				entry.Winners = append(entry.Winners, u.ID)
			}
		}
		res.Log = append(res.Log, entry)
	}
	return res
}

// CrowdSplit counts how the non-trivial predictions of a match lean.
type CrowdSplit struct {
	Home  int
	Away  int
	Draw  int
	Total int
}

// HomeShare is the fraction of predictors backing the home team.
func (c CrowdSplit) HomeShare() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Home) / float64(c.Total)
}

// AwayShare is the fraction of predictors backing the away team.
func (c CrowdSplit) AwayShare() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Away) / float64(c.Total)
}

// NewCrowdSplit tallies predictions, skipping 0:0 placeholders.
func NewCrowdSplit(preds []Prediction) CrowdSplit {
	var c CrowdSplit
	for _, p := range preds {
		if p.Trivial() {
			continue
		}
		c.Total++
		switch predictedWinner(p.Home, p.Away) {
		case sideHome:
			c.Home++
		case sideAway:
			c.Away++
		default:
			c.Draw++
		}
	}
	return c
}

// UnderdogHit describes one match won by a side the crowd did not believe in.
type UnderdogHit struct {
	MatchID      string
	WinnerIsHome bool
	Share        float64
	Users        []string
}

// UnderdogResult is the courage bonus per user plus the matches that produced it.
type UnderdogResult struct {
	Bonus map[string]int
	Hits  []UnderdogHit
}

// UnderdogWinner reports whether the actual winner of a played match was backed by
// less than the threshold share of non-trivial predictions.
func (r Rules) UnderdogWinner(m Match, split CrowdSplit) (homeWon bool, share float64, ok bool) {
	if !m.Played() || split.Total == 0 {
		return false, 0, false
	}
	homeWon = actualWinner(*m.HomeScore, *m.AwayScore) == sideHome
	share = split.AwayShare()
	if homeWon {
		share = split.HomeShare()
	}
	return homeWon, share, share < r.UnderdogThreshold
}

// Underdog gives every user who backed an unpopular but correct winner the bonus.
func (r Rules) Underdog(s Snapshot) UnderdogResult {
	res := UnderdogResult{Bonus: make(map[string]int)}
	byMatch := s.PredictionsByMatch()
	for _, m := range s.Matches {
		preds := byMatch[m.ID]
		homeWon, share, ok := r.UnderdogWinner(m, NewCrowdSplit(preds))
		if !ok {
			continue
		}
		want := sideAway
		if homeWon {
			want = sideHome
		}
		hit := UnderdogHit{MatchID: m.ID, WinnerIsHome: homeWon, Share: share}
		for _, p := range preds {
			if predictedWinner(p.Home, p.Away) == want {
				res.Bonus[p.UserID] += r.UnderdogBonus
				hit.Users = append(hit.Users, p.UserID)
			}
		}
		res.Hits = append(res.Hits, hit)
	}
	return res
}
