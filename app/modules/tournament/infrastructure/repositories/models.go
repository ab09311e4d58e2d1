package tournamentdb

import (
	"time"

	"github.com/uptrace/bun"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// Match is a scheduled game. Scores stay NULL until the result is recorded.
type Match struct {
	bun.BaseModel `bun:"table:tournament_matches,alias:m"`

	ID        string    `bun:"id,pk"`
	HomeTeam  string    `bun:"home_team,notnull"`
	AwayTeam  string    `bun:"away_team,notnull"`
	Phase     string    `bun:"phase,notnull,default:''"`
	Kickoff   time.Time `bun:"kickoff,nullzero"`
	HomeScore *int      `bun:"home_score"`
	AwayScore *int      `bun:"away_score"`
	Overtime  bool      `bun:"overtime,notnull,default:false"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Prediction is one user's tip for one match.
type Prediction struct {
	bun.BaseModel `bun:"table:tournament_predictions,alias:p"`

	UserID    string    `bun:"user_id,pk"`
	MatchID   string    `bun:"match_id,pk"`
	Home      int       `bun:"home,notnull"`
	Away      int       `bun:"away,notnull"`
	Overtime  bool      `bun:"overtime,notnull,default:false"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// User is a contest participant together with their long-term picks.
type User struct {
	bun.BaseModel `bun:"table:tournament_users,alias:u"`

	ID             string    `bun:"id,pk"`
	Name           string    `bun:"name,notnull"`
	Role           string    `bun:"role,notnull,default:'participant'"`
	Team           string    `bun:"team,notnull,default:''"`
	Paid           bool      `bun:"paid,notnull,default:false"`
	LongTermWinner string    `bun:"long_term_winner,notnull,default:''"`
	Medal1         string    `bun:"medal_1,notnull,default:''"`
	Medal2         string    `bun:"medal_2,notnull,default:''"`
	Medal3         string    `bun:"medal_3,notnull,default:''"`
	RegisteredAt   time.Time `bun:"registered_at,nullzero"`
}

// Settings is the single-row contest configuration.
type Settings struct {
	bun.BaseModel `bun:"table:tournament_settings,alias:s"`

	ID               int       `bun:"id,pk"`
	LongTermDeadline time.Time `bun:"long_term_deadline,nullzero"`
	OfficialWinner   string    `bun:"official_winner,notnull,default:''"`
	OfficialMedal1   string    `bun:"official_medal_1,notnull,default:''"`
	OfficialMedal2   string    `bun:"official_medal_2,notnull,default:''"`
	OfficialMedal3   string    `bun:"official_medal_3,notnull,default:''"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// settingsRowID is the primary key of the only settings row.
const settingsRowID = 1

func (m Match) ToDomain() scoredomain.Match {
	return scoredomain.Match{
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

func MatchFromDomain(m scoredomain.Match) Match {
	return Match{
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

func (p Prediction) ToDomain() scoredomain.Prediction {
	return scoredomain.Prediction{
		UserID:   p.UserID,
		MatchID:  p.MatchID,
		Home:     p.Home,
		Away:     p.Away,
		Overtime: p.Overtime,
	}
}

func PredictionFromDomain(p scoredomain.Prediction) Prediction {
	return Prediction{
		UserID:   p.UserID,
		MatchID:  p.MatchID,
		Home:     p.Home,
		Away:     p.Away,
		Overtime: p.Overtime,
	}
}

func (u User) ToDomain() scoredomain.User {
	return scoredomain.User{
		ID:   u.ID,
		Name: u.Name,
		Role: scoredomain.Role(u.Role),
		Team: u.Team,
		LongTerm: scoredomain.LongTermBet{
			Winner: u.LongTermWinner,
			Medals: [3]string{u.Medal1, u.Medal2, u.Medal3},
		},
		Paid:         u.Paid,
		RegisteredAt: u.RegisteredAt,
	}
}

func UserFromDomain(u scoredomain.User) User {
	role := u.Role
	if role == "" {
		role = scoredomain.RoleParticipant
	}
	return User{
		ID:             u.ID,
		Name:           u.Name,
		Role:           string(role),
		Team:           u.Team,
		Paid:           u.Paid,
		LongTermWinner: u.LongTerm.Winner,
		Medal1:         u.LongTerm.Medals[0],
		Medal2:         u.LongTerm.Medals[1],
		Medal3:         u.LongTerm.Medals[2],
		RegisteredAt:   u.RegisteredAt,
	}
}

func (s Settings) ToDomain() scoredomain.TournamentSettings {
	return scoredomain.TournamentSettings{
		LongTermDeadline: s.LongTermDeadline,
		Official: scoredomain.OfficialResults{
			Winner: s.OfficialWinner,
			Medals: [3]string{s.OfficialMedal1, s.OfficialMedal2, s.OfficialMedal3},
		},
	}
}

func SettingsFromDomain(s scoredomain.TournamentSettings) Settings {
	return Settings{
		ID:               settingsRowID,
		LongTermDeadline: s.LongTermDeadline,
		OfficialWinner:   s.Official.Winner,
		OfficialMedal1:   s.Official.Medals[0],
		OfficialMedal2:   s.Official.Medals[1],
		OfficialMedal3:   s.Official.Medals[2],
	}
}
