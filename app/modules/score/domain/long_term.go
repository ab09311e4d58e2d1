package scoredomain

// EvaluateLongTerm scores the tournament-wide picks with the default rules.
func EvaluateLongTerm(bet LongTermBet, official OfficialResults) int {
	return DefaultRules().EvaluateLongTerm(bet, official)
}

// EvaluateLongTerm awards the winner bonus for an exact pick and a medal bonus
// for every distinct predicted team that ended on the podium.
func (r Rules) EvaluateLongTerm(bet LongTermBet, official OfficialResults) int {
	points := 0
	if official.Winner != "" && bet.Winner == official.Winner {
		points += r.WinnerPoints
	}

	podium := make(map[string]bool, len(official.Medals))
	for _, m := range official.Medals {
		if m != "" {
			podium[m] = true
		}
	}

	hits := make(map[string]bool, len(bet.Medals))
	for _, m := range bet.Medals {
		if m != "" && podium[m] {
			hits[m] = true
		}
	}
	return points + len(hits)*r.MedalPoints
}
