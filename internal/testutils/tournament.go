// Package testutils generates randomized tournaments for property tests.
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

var teams = []string{
	"Kanada", "Švédsko", "Česko", "Finsko", "USA", "Švýcarsko",
	"Německo", "Slovensko", "Lotyšsko", "Dánsko", "Francie", "Itálie",
}

// TournamentOptions shapes a generated tournament.
type TournamentOptions struct {
	Users         int
	Days          int
	MatchesPerDay int
	// PlayedDays is how many of the days already have results.
	PlayedDays int
	// PlayoffFrom is the first day whose matches are playoff games; 0 disables playoffs.
	PlayoffFrom int
	// TipRate is the chance a user tipped a given match.
	TipRate float64
	Start   time.Time
}

// DefaultTournamentOptions is a mid-tournament state with a few playoff days.
func DefaultTournamentOptions() TournamentOptions {
	return TournamentOptions{
		Users:         12,
		Days:          10,
		MatchesPerDay: 4,
		PlayedDays:    7,
		PlayoffFrom:   8,
		TipRate:       0.85,
		Start:         time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}
}

// TournamentGenerator creates reproducible tournaments from a seed.
type TournamentGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTournamentGenerator creates a generator with an optional seed.
func NewTournamentGenerator(seed ...int64) *TournamentGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TournamentGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Seed returns the seed, for reproducing a failing case.
func (g *TournamentGenerator) Seed() int64 {
	return g.seed
}

// Snapshot builds a complete tournament according to opts.
func (g *TournamentGenerator) Snapshot(opts TournamentOptions) scoredomain.Snapshot {
	var snap scoredomain.Snapshot

	for d := 0; d < opts.Days; d++ {
		day := opts.Start.AddDate(0, 0, d)
		for i := 0; i < opts.MatchesPerDay; i++ {
			home, away := g.pair()
			m := scoredomain.Match{
				ID:       fmt.Sprintf("m%02d-%d", d+1, i+1),
				HomeTeam: home,
				AwayTeam: away,
				Phase:    "Skupina " + g.faker.RandomString([]string{"A", "B"}),
				Kickoff:  day.Add(time.Duration(12+3*i) * time.Hour),
			}
			if opts.PlayoffFrom > 0 && d+1 >= opts.PlayoffFrom {
				m.Phase = g.faker.RandomString([]string{"Čtvrtfinále", "Semifinále", "Finále"})
			}
			if d < opts.PlayedDays {
				g.result(&m)
			}
			snap.Matches = append(snap.Matches, m)
		}
	}

	for u := 0; u < opts.Users; u++ {
		user := scoredomain.User{
			ID:           fmt.Sprintf("u%02d", u+1),
			Name:         g.faker.Name(),
			Role:         scoredomain.RoleParticipant,
			Paid:         g.faker.Float64Range(0, 1) < 0.8,
			RegisteredAt: opts.Start.Add(-24 * time.Hour),
			LongTerm:     g.longTerm(),
		}
		snap.Users = append(snap.Users, user)

		for _, m := range snap.Matches {
			if g.faker.Float64Range(0, 1) >= opts.TipRate {
				continue
			}
			snap.Predictions = append(snap.Predictions, g.prediction(user.ID, m.ID))
		}
	}

	if opts.PlayedDays >= opts.Days {
		snap.Settings.Official = scoredomain.OfficialResults(g.longTerm())
	}
	return snap
}

func (g *TournamentGenerator) pair() (string, string) {
	home := g.faker.RandomString(teams)
	away := home
	for away == home {
		away = g.faker.RandomString(teams)
	}
	return home, away
}

func (g *TournamentGenerator) result(m *scoredomain.Match) {
	home, away := g.faker.Number(0, 6), g.faker.Number(0, 6)
	if home == away {
		// Hockey games are decided in overtime or shootout.
		if g.faker.Bool() {
			home++
		} else {
			away++
		}
		m.Overtime = true
	}
	m.HomeScore = scoredomain.Goals(home)
	m.AwayScore = scoredomain.Goals(away)
}

func (g *TournamentGenerator) prediction(userID, matchID string) scoredomain.Prediction {
	p := scoredomain.Prediction{
		UserID:  userID,
		MatchID: matchID,
		Home:    g.faker.Number(0, 6),
		Away:    g.faker.Number(0, 6),
	}
	if d := p.Home - p.Away; d == 1 || d == -1 {
		p.Overtime = g.faker.Float64Range(0, 1) < 0.3
	}
	return p
}

func (g *TournamentGenerator) longTerm() scoredomain.LongTermBet {
	picks := make([]string, len(teams))
	copy(picks, teams)
	g.faker.ShuffleStrings(picks)
	return scoredomain.LongTermBet{
		Winner: picks[0],
		Medals: [3]string{picks[0], picks[1], picks[2]},
	}
}
