package scoredomain

// Rules holds every tunable constant of the scoring scheme.
type Rules struct {
	MaxBasePoints        int
	MinWinnerPoints      int
	ExactScoreBonus      int
	PlayoffMultiplier    float64
	NationalTeamBonus    int
	OvertimeHit          int
	OvertimeMiss         int
	WinnerPoints         int
	MedalPoints          int
	SharpshooterBonus    int
	DailyBestPerMatch    float64
	UnderdogThreshold    float64
	UnderdogBonus        int
	MaxGoalsPerTeam      int
	PlayoffKeywords      []string
	NationalTeamKeywords []string

	// DailyBestIncludesOvertime sums the overtime side bet into the daily total.
	DailyBestIncludesOvertime bool
}

// DefaultRules returns the contest's standard scoring scheme.
func DefaultRules() Rules {
	return Rules{
		MaxBasePoints:     7,
		MinWinnerPoints:   2,
		ExactScoreBonus:   2,
		PlayoffMultiplier: 1.5,
		NationalTeamBonus: 2,
		OvertimeHit:       1,
		OvertimeMiss:      -1,
		WinnerPoints:      15,
		MedalPoints:       4,
		SharpshooterBonus: 6,
		DailyBestPerMatch: 0.5,
		UnderdogThreshold: 0.20,
		UnderdogBonus:     1,
		MaxGoalsPerTeam:   20,
		PlayoffKeywords: []string{
			"playoff",
			"finále", "final",
			"o 3.", "bronz", "third place",
			"čtvrt", "quarter",
			"semi",
		},
		NationalTeamKeywords: []string{"česko", "czech"},
	}
}
