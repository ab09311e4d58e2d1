package leaderboardhandlers

import (
	"time"

	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

type breakdownDTO struct {
	MatchPoints  int     `json:"match_points"`
	Sharpshooter int     `json:"sharpshooter"`
	DailyBest    float64 `json:"daily_best"`
	Underdog     int     `json:"underdog"`
	LongTerm     int     `json:"long_term"`
	Total        float64 `json:"total"`
}

type trendDTO struct {
	Kind         string `json:"kind"`
	Delta        int    `json:"delta"`
	PreviousRank int    `json:"previous_rank,omitempty"`
}

type entryDTO struct {
	UserID        string       `json:"user_id"`
	Name          string       `json:"name"`
	Team          string       `json:"team,omitempty"`
	Paid          bool         `json:"paid"`
	Rank          int          `json:"rank"`
	Breakdown     breakdownDTO `json:"breakdown"`
	ExactCount    int          `json:"exact_count"`
	ScoredCount   int          `json:"scored_count"`
	GroupPoints   int          `json:"group_points"`
	PlayoffPoints int          `json:"playoff_points"`
	Trend         trendDTO     `json:"trend"`
	Deficits      [3]*float64  `json:"deficits"`
}

type standingsDTO struct {
	ComputedAt     time.Time  `json:"computed_at"`
	PlayedMatches  int        `json:"played_matches"`
	TournamentOver bool       `json:"tournament_over"`
	Entries        []entryDTO `json:"entries"`
}

func toEntryDTO(e leaderboarddomain.Entry) entryDTO {
	b := e.Breakdown
	return entryDTO{
		UserID: e.UserID,
		Name:   e.Name,
		Team:   e.Team,
		Paid:   e.Paid,
		Rank:   e.Rank,
		Breakdown: breakdownDTO{
			MatchPoints:  b.MatchPoints,
			Sharpshooter: b.Sharpshooter,
			DailyBest:    b.DailyBest,
			Underdog:     b.Underdog,
			LongTerm:     b.LongTerm,
			Total:        b.Total,
		},
		ExactCount:    e.ExactCount,
		ScoredCount:   e.ScoredCount,
		GroupPoints:   e.GroupPoints,
		PlayoffPoints: e.PlayoffPoints,
		Trend:         trendDTO{Kind: string(e.Trend.Kind), Delta: e.Trend.Delta, PreviousRank: e.Trend.PreviousRank},
		Deficits:      e.Deficits,
	}
}

func toStandingsDTO(st leaderboarddomain.Standings) standingsDTO {
	out := standingsDTO{
		ComputedAt:     st.ComputedAt,
		PlayedMatches:  st.PlayedMatches,
		TournamentOver: st.TournamentOver,
		Entries:        make([]entryDTO, 0, len(st.Entries)),
	}
	for _, e := range st.Entries {
		out.Entries = append(out.Entries, toEntryDTO(e))
	}
	return out
}

type neighbourDTO struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Gap    float64 `json:"gap"`
}

type positionDTO struct {
	Entry         entryDTO      `json:"entry"`
	Better        int           `json:"better"`
	Same          int           `json:"same"`
	Worse         int           `json:"worse"`
	ClosestAhead  *neighbourDTO `json:"closest_ahead,omitempty"`
	ClosestBehind *neighbourDTO `json:"closest_behind,omitempty"`
	SharedWith    []string      `json:"shared_with,omitempty"`
}

func toNeighbourDTO(n *leaderboarddomain.Neighbour) *neighbourDTO {
	if n == nil {
		return nil
	}
	return &neighbourDTO{UserID: n.UserID, Name: n.Name, Gap: n.Gap}
}

func toPositionDTO(p leaderboarddomain.PositionSummary) positionDTO {
	return positionDTO{
		Entry:         toEntryDTO(p.Entry),
		Better:        p.Better,
		Same:          p.Same,
		Worse:         p.Worse,
		ClosestAhead:  toNeighbourDTO(p.ClosestAhead),
		ClosestBehind: toNeighbourDTO(p.ClosestBehind),
		SharedWith:    p.SharedWith,
	}
}

type matchDTO struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Phase     string    `json:"phase"`
	Kickoff   time.Time `json:"kickoff"`
	HomeScore *int      `json:"home_score,omitempty"`
	AwayScore *int      `json:"away_score,omitempty"`
	Overtime  bool      `json:"overtime"`
}

type crowdDTO struct {
	Home      int     `json:"home"`
	Away      int     `json:"away"`
	Draw      int     `json:"draw"`
	Total     int     `json:"total"`
	HomeShare float64 `json:"home_share"`
	AwayShare float64 `json:"away_share"`
}

type tipRowDTO struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	HasTip   bool   `json:"has_tip"`
	Home     *int   `json:"home,omitempty"`
	Away     *int   `json:"away,omitempty"`
	Overtime bool   `json:"overtime,omitempty"`
	Points   *int   `json:"points,omitempty"`
	Exact    bool   `json:"exact,omitempty"`
}

type tipSheetDTO struct {
	Match    matchDTO    `json:"match"`
	Revealed bool        `json:"revealed"`
	Crowd    *crowdDTO   `json:"crowd,omitempty"`
	Rows     []tipRowDTO `json:"rows"`
}

func toMatchDTO(m scoredomain.Match) matchDTO {
	return matchDTO{
		ID:        m.ID,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		Phase:     m.Phase,
		Kickoff:   m.Kickoff,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Overtime:  m.Overtime,
	}
}

func toCrowdDTO(c scoredomain.CrowdSplit) crowdDTO {
	return crowdDTO{Home: c.Home, Away: c.Away, Draw: c.Draw, Total: c.Total, HomeShare: c.HomeShare(), AwayShare: c.AwayShare()}
}

func toTipSheetDTO(s scoredomain.TipSheet) tipSheetDTO {
	out := tipSheetDTO{Match: toMatchDTO(s.Match), Revealed: s.Revealed, Rows: make([]tipRowDTO, 0, len(s.Rows))}
	if s.Revealed {
		c := toCrowdDTO(s.Split)
		out.Crowd = &c
	}
	for _, r := range s.Rows {
		row := tipRowDTO{UserID: r.UserID, Name: r.Name, HasTip: r.HasTip}
		if r.Prediction != nil {
			home, away := r.Prediction.Home, r.Prediction.Away
			row.Home, row.Away, row.Overtime = &home, &away, r.Prediction.Overtime
		}
		if r.Score != nil {
			points := r.Score.Points
			row.Points, row.Exact = &points, r.Score.Exact
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

type userBonusDTO struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

type dailyBestDayDTO struct {
	Date      string   `json:"date"`
	Matches   int      `json:"matches"`
	DayPoints int      `json:"day_points"`
	Bonus     float64  `json:"bonus"`
	Winners   []string `json:"winners"`
}

type underdogDTO struct {
	MatchID  string   `json:"match_id"`
	HomeTeam string   `json:"home_team"`
	AwayTeam string   `json:"away_team"`
	Winner   string   `json:"winner"`
	Share    float64  `json:"share"`
	Winners  []string `json:"winners"`
}

type bonusesDTO struct {
	SharpshooterMax     int               `json:"sharpshooter_max"`
	SharpshooterAwarded bool              `json:"sharpshooter_awarded"`
	Sharpshooters       []userBonusDTO    `json:"sharpshooters"`
	DailyBest           []dailyBestDayDTO `json:"daily_best"`
	Underdogs           []underdogDTO     `json:"underdogs"`
}

const dayLayout = "2006-01-02"

func toBonusesDTO(b leaderboardservice.BonusReport) bonusesDTO {
	out := bonusesDTO{
		SharpshooterMax:     b.SharpshooterMax,
		SharpshooterAwarded: b.SharpshooterAwarded,
		Sharpshooters:       []userBonusDTO{},
		DailyBest:           []dailyBestDayDTO{},
		Underdogs:           []underdogDTO{},
	}
	for _, s := range b.Sharpshooters {
		out.Sharpshooters = append(out.Sharpshooters, userBonusDTO(s))
	}
	for _, d := range b.DailyBest {
		out.DailyBest = append(out.DailyBest, dailyBestDayDTO{
			Date:      d.Date.Format(dayLayout),
			Matches:   d.Matches,
			DayPoints: d.DayPoints,
			Bonus:     d.Bonus,
			Winners:   d.Winners,
		})
	}
	for _, u := range b.Underdogs {
		out.Underdogs = append(out.Underdogs, underdogDTO(u))
	}
	return out
}

type payoutDTO struct {
	Rank    int      `json:"rank"`
	Amount  int      `json:"amount"`
	UserIDs []string `json:"user_ids"`
}

type payoutsDTO struct {
	EntryFee int         `json:"entry_fee"`
	Paid     int         `json:"paid"`
	Pool     int         `json:"pool"`
	Tranches [3]int      `json:"tranches"`
	Holders  [3]int      `json:"holders"`
	Prize    [3]int      `json:"prize"`
	Payouts  []payoutDTO `json:"payouts"`
}

func toPayoutsDTO(p leaderboardservice.PayoutReport) payoutsDTO {
	out := payoutsDTO{
		EntryFee: p.EntryFee,
		Paid:     p.Paid,
		Pool:     p.Split.Pool,
		Tranches: p.Split.Tranches,
		Holders:  p.Split.Holders,
		Prize:    p.Split.Prize,
		Payouts:  []payoutDTO{},
	}
	for _, po := range p.Payouts {
		out.Payouts = append(out.Payouts, payoutDTO(po))
	}
	return out
}

type userStatsDTO struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	ExactCount    int     `json:"exact_count"`
	ScoredCount   int     `json:"scored_count"`
	SuccessRate   float64 `json:"success_rate"`
	GroupPoints   int     `json:"group_points"`
	PlayoffPoints int     `json:"playoff_points"`
}

type teamDTO struct {
	Team    string  `json:"team"`
	Average float64 `json:"average"`
	Matches int     `json:"matches"`
}

type matchAverageDTO struct {
	MatchID     string  `json:"match_id"`
	HomeTeam    string  `json:"home_team"`
	AwayTeam    string  `json:"away_team"`
	HomeScore   int     `json:"home_score"`
	AwayScore   int     `json:"away_score"`
	Playoff     bool    `json:"playoff"`
	Average     float64 `json:"average"`
	Predictions int     `json:"predictions"`
}

type extremesDTO struct {
	Playoff bool            `json:"playoff"`
	Lucky   matchAverageDTO `json:"lucky"`
	Killer  matchAverageDTO `json:"killer"`
}

type voteDTO struct {
	Team  string `json:"team"`
	Count int    `json:"count"`
}

type matchCrowdDTO struct {
	MatchID  string    `json:"match_id"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Kickoff  time.Time `json:"kickoff"`
	Crowd    crowdDTO  `json:"crowd"`
}

type statisticsDTO struct {
	PlayedMatches int             `json:"played_matches"`
	Users         []userStatsDTO  `json:"users"`
	Teams         []teamDTO       `json:"teams"`
	Extremes      []extremesDTO   `json:"extremes"`
	WinnerVotes   []voteDTO       `json:"winner_votes"`
	MedalVotes    []voteDTO       `json:"medal_votes"`
	Crowd         []matchCrowdDTO `json:"crowd"`
}

func toStatisticsDTO(s leaderboardservice.Statistics) statisticsDTO {
	out := statisticsDTO{
		PlayedMatches: s.PlayedMatches,
		Users:         []userStatsDTO{},
		Teams:         []teamDTO{},
		Extremes:      []extremesDTO{},
		WinnerVotes:   []voteDTO{},
		MedalVotes:    []voteDTO{},
		Crowd:         []matchCrowdDTO{},
	}
	for _, u := range s.Users {
		out.Users = append(out.Users, userStatsDTO(u))
	}
	for _, t := range s.Teams {
		out.Teams = append(out.Teams, teamDTO(t))
	}
	for _, e := range s.Extremes {
		out.Extremes = append(out.Extremes, extremesDTO{
			Playoff: e.Playoff,
			Lucky:   matchAverageDTO(e.Lucky),
			Killer:  matchAverageDTO(e.Killer),
		})
	}
	for _, v := range s.WinnerVotes {
		out.WinnerVotes = append(out.WinnerVotes, voteDTO(v))
	}
	for _, v := range s.MedalVotes {
		out.MedalVotes = append(out.MedalVotes, voteDTO(v))
	}
	for _, c := range s.Crowd {
		out.Crowd = append(out.Crowd, matchCrowdDTO{
			MatchID:  c.MatchID,
			HomeTeam: c.HomeTeam,
			AwayTeam: c.AwayTeam,
			Kickoff:  c.Kickoff,
			Crowd:    toCrowdDTO(c.Split),
		})
	}
	return out
}

type historyPointDTO struct {
	Date  string  `json:"date"`
	Rank  int     `json:"rank"`
	Total float64 `json:"total"`
}

type historyDTO struct {
	Days   []string                     `json:"days"`
	Series map[string][]historyPointDTO `json:"series"`
}

func toHistoryDTO(h leaderboarddomain.RankHistory, userID string) historyDTO {
	out := historyDTO{Days: []string{}, Series: map[string][]historyPointDTO{}}
	for _, d := range h.Days {
		out.Days = append(out.Days, d.Format(dayLayout))
	}
	for id, points := range h.Series {
		if userID != "" && id != userID {
			continue
		}
		series := make([]historyPointDTO, 0, len(points))
		for _, p := range points {
			series = append(series, historyPointDTO{Date: p.Date.Format(dayLayout), Rank: p.Rank, Total: p.Total})
		}
		out.Series[id] = series
	}
	return out
}

type dailyBestDTO struct {
	Found bool             `json:"found"`
	Day   *dailyBestDayDTO `json:"day,omitempty"`
}

func toDailyBestDTO(r leaderboardservice.DailyBestReport) dailyBestDTO {
	if !r.Found {
		return dailyBestDTO{}
	}
	return dailyBestDTO{Found: true, Day: &dailyBestDayDTO{
		Date:      r.Entry.Date.Format(dayLayout),
		Matches:   r.Entry.Matches,
		DayPoints: r.Entry.DayPoints,
		Bonus:     r.Entry.Bonus,
		Winners:   r.Names,
	}}
}
