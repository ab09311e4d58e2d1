package scoredomain

import (
	"math"
	"strconv"
	"strings"
)

// MatchInput is everything the evaluator needs for one (prediction, result) pair.
type MatchInput struct {
	PredictedHome     int
	PredictedAway     int
	PredictedOvertime bool
	ActualHome        *int
	ActualAway        *int
	ActualOvertime    bool
	HomeTeam          string
	AwayTeam          string
	Phase             string
}

// NewMatchInput pairs a prediction with its match.
func NewMatchInput(p Prediction, m Match) MatchInput {
	return MatchInput{
		PredictedHome:     p.Home,
		PredictedAway:     p.Away,
		PredictedOvertime: p.Overtime,
		ActualHome:        m.HomeScore,
		ActualAway:        m.AwayScore,
		ActualOvertime:    m.Overtime,
		HomeTeam:          m.HomeTeam,
		AwayTeam:          m.AwayTeam,
		Phase:             m.Phase,
	}
}

// MatchScore is the outcome of evaluating one prediction.
//
// BasePoints is the value before the overtime side bet is applied; Points is the
// final, never negative, total.
type MatchScore struct {
	Points         int
	Exact          bool
	Scored         bool
	OvertimePoints int
	BasePoints     int
}

type side int

const (
	sideNone side = iota
	sideHome
	sideAway
)

func actualWinner(home, away int) side {
	if home > away {
		return sideHome
	}
	return sideAway
}

func predictedWinner(home, away int) side {
	switch {
	case home > away:
		return sideHome
	case away > home:
		return sideAway
	default:
		return sideNone
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Evaluate scores a prediction with the default rules.
func Evaluate(in MatchInput) MatchScore {
	return DefaultRules().Evaluate(in)
}

// Evaluate scores one prediction against one final result.
//
// Order matters: exact bonus, then the playoff multiplier (rounded up), then the
// national team bonus, then the overtime side bet.
func (r Rules) Evaluate(in MatchInput) MatchScore {
	if in.ActualHome == nil || in.ActualAway == nil {
		return MatchScore{}
	}
	rh, ra := *in.ActualHome, *in.ActualAway
	ph, pa := in.PredictedHome, in.PredictedAway

	if predictedWinner(ph, pa) != actualWinner(rh, ra) {
		return MatchScore{}
	}

	diff := abs(rh-ph) + abs(ra-pa)
	base := max(r.MinWinnerPoints, r.MaxBasePoints-diff)

	exact := ph == rh && pa == ra
	if exact {
		base += r.ExactScoreBonus
	}

	if r.IsPlayoffPhase(in.Phase) {
		base = int(math.Ceil(float64(base) * r.PlayoffMultiplier))
	}

	if base > 0 && r.InvolvesNationalTeam(in.HomeTeam, in.AwayTeam) {
		base += r.NationalTeamBonus
	}

	ot := 0
	if abs(ph-pa) == 1 && in.PredictedOvertime {
		if in.ActualOvertime {
			ot = r.OvertimeHit
		} else {
			ot = r.OvertimeMiss
		}
	}

	total := max(0, base+ot)
	return MatchScore{
		Points:         total,
		Exact:          exact,
		Scored:         total > 0 || ot != 0,
		OvertimePoints: ot,
		BasePoints:     base,
	}
}

// EvaluateRaw is the string-typed entry point used when values come straight
// from free-text storage. Empty or non-numeric values yield a zero score.
func (r Rules) EvaluateRaw(predHome, predAway, actHome, actAway, homeTeam, awayTeam, phase, predOT, actOT string) MatchScore {
	if strings.TrimSpace(actHome) == "" || strings.TrimSpace(actAway) == "" {
		return MatchScore{}
	}
	ph, ok1 := ParseGoals(predHome)
	pa, ok2 := ParseGoals(predAway)
	rh, ok3 := ParseGoals(actHome)
	ra, ok4 := ParseGoals(actAway)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return MatchScore{}
	}
	return r.Evaluate(MatchInput{
		PredictedHome:     ph,
		PredictedAway:     pa,
		PredictedOvertime: ParseFlag(predOT),
		ActualHome:        &rh,
		ActualAway:        &ra,
		ActualOvertime:    ParseFlag(actOT),
		HomeTeam:          homeTeam,
		AwayTeam:          awayTeam,
		Phase:             phase,
	})
}

// IsPlayoffPhase reports whether the phase label names a knockout stage.
func (r Rules) IsPlayoffPhase(phase string) bool {
	return containsAny(strings.ToLower(phase), r.PlayoffKeywords)
}

// InvolvesNationalTeam reports whether either team name carries a national team keyword.
func (r Rules) InvolvesNationalTeam(home, away string) bool {
	return containsAny(strings.ToLower(home+" "+away), r.NationalTeamKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ParseGoals parses a goal count, rejecting negatives and anything non-numeric.
func ParseGoals(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseFlag interprets the yes/no cells used for overtime and payment flags.
func ParseFlag(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ANO", "YES", "TRUE", "1", "Y":
		return true
	}
	return false
}
