// Package workbook stores a tournament in an XLSX file laid out the way the
// organisers keep it: one sheet each for fixtures, tips, players and settings,
// with a header row naming the columns.
package workbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/timeparse"
)

const (
	SheetMatches     = "Zapasy"
	SheetPredictions = "Tipy"
	SheetUsers       = "Uzivatele"
	SheetSettings    = "Nastaveni"
)

// Settings keys in the Klic/Hodnota sheet.
const (
	keyWinner   = "vitez_turnaje"
	keyMedal    = "med_"
	keyDeadline = "uzaverka"
)

const dateLayout = "2006-01-02 15:04"

var (
	matchHeader      = []any{"ID", "Datum", "Domaci", "Hoste", "Faze", "Skore_Domaci", "Skore_Hoste", "Prodlouzeni"}
	predictionHeader = []any{"Email", "Zapas_ID", "Tip_Domaci", "Tip_Hoste", "Tip_Prodlouzeni"}
	userHeader       = []any{"Email", "Jmeno", "Role", "Tym", "Tip_Vitez", "Tip_Med1", "Tip_Med2", "Tip_Med3", "Zaplaceno", "Registrace"}
	settingsHeader   = []any{"Klic", "Hodnota"}
)

// ErrMissingSheet is returned when the fixtures sheet is absent.
var ErrMissingSheet = errors.New("workbook: missing sheet")

// Store reads and writes a tournament workbook on disk.
type Store struct {
	path   string
	parser *timeparse.Parser
	mu     sync.RWMutex
}

// NewStore returns a store backed by the file at path.
func NewStore(path string, parser *timeparse.Parser) *Store {
	if parser == nil {
		parser = timeparse.New(time.UTC)
	}
	return &Store{path: path, parser: parser}
}

// LoadSnapshot reads the whole workbook.
func (s *Store) LoadSnapshot(ctx context.Context) (scoredomain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return scoredomain.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return scoredomain.Snapshot{}, fmt.Errorf("workbook: read %s: %w", s.path, err)
	}
	return Read(bytes.NewReader(data), s.parser)
}

// SaveSnapshot replaces the workbook with snap.
func (s *Store) SaveSnapshot(ctx context.Context, snap scoredomain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := Encode(snap, s.parser.Location())
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("workbook: save %s: %w", s.path, err)
	}
	return nil
}

// Read decodes a workbook from r.
func Read(r io.Reader, parser *timeparse.Parser) (scoredomain.Snapshot, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return scoredomain.Snapshot{}, fmt.Errorf("workbook: open: %w", err)
	}
	defer f.Close()
	return Decode(f, parser)
}

// Decode maps the sheets of f onto a snapshot. Cells that cannot be parsed are
// treated as empty: a malformed score leaves the match unplayed and a malformed
// tip is dropped.
func Decode(f *excelize.File, parser *timeparse.Parser) (scoredomain.Snapshot, error) {
	var snap scoredomain.Snapshot

	matches, ok, err := records(f, SheetMatches)
	if err != nil {
		return snap, err
	}
	if !ok {
		return snap, fmt.Errorf("%w: %s", ErrMissingSheet, SheetMatches)
	}
	for _, row := range matches {
		id := row.get("ID")
		if id == "" {
			continue
		}
		m := scoredomain.Match{
			ID:       id,
			HomeTeam: row.get("Domaci"),
			AwayTeam: row.get("Hoste"),
			Phase:    row.get("Faze"),
			Overtime: scoredomain.ParseFlag(row.get("Prodlouzeni")),
		}
		if kickoff, err := parseCellTime(parser, row.get("Datum")); err == nil {
			m.Kickoff = kickoff
		}
		home, okHome := scoredomain.ParseGoals(row.get("Skore_Domaci"))
		away, okAway := scoredomain.ParseGoals(row.get("Skore_Hoste"))
		if okHome && okAway {
			m.HomeScore = scoredomain.Goals(home)
			m.AwayScore = scoredomain.Goals(away)
		} else {
			m.Overtime = false
		}
		snap.Matches = append(snap.Matches, m)
	}

	predictions, _, err := records(f, SheetPredictions)
	if err != nil {
		return snap, err
	}
	for _, row := range predictions {
		home, okHome := scoredomain.ParseGoals(row.get("Tip_Domaci"))
		away, okAway := scoredomain.ParseGoals(row.get("Tip_Hoste"))
		if !okHome || !okAway {
			continue
		}
		snap.Predictions = append(snap.Predictions, scoredomain.Prediction{
			UserID:   row.get("Email"),
			MatchID:  row.get("Zapas_ID"),
			Home:     home,
			Away:     away,
			Overtime: scoredomain.ParseFlag(row.get("Tip_Prodlouzeni")),
		})
	}

	users, _, err := records(f, SheetUsers)
	if err != nil {
		return snap, err
	}
	for _, row := range users {
		id := row.get("Email")
		if id == "" {
			continue
		}
		u := scoredomain.User{
			ID:   id,
			Name: row.get("Jmeno"),
			Role: parseRole(row.get("Role")),
			Team: row.get("Tym"),
			LongTerm: scoredomain.LongTermBet{
				Winner: row.get("Tip_Vitez"),
				Medals: [3]string{row.get("Tip_Med1"), row.get("Tip_Med2"), row.get("Tip_Med3")},
			},
			Paid: scoredomain.ParseFlag(row.get("Zaplaceno")),
		}
		if u.Name == "" {
			u.Name = id
		}
		if registered, err := parseCellTime(parser, row.get("Registrace")); err == nil {
			u.RegisteredAt = registered
		}
		snap.Users = append(snap.Users, u)
	}

	settings, _, err := records(f, SheetSettings)
	if err != nil {
		return snap, err
	}
	for _, row := range settings {
		key := strings.ToLower(row.get("Klic"))
		value := row.get("Hodnota")
		switch {
		case key == keyWinner:
			snap.Settings.Official.Winner = value
		case key == keyDeadline:
			if deadline, err := parseCellTime(parser, value); err == nil {
				snap.Settings.LongTermDeadline = deadline
			}
		case strings.HasPrefix(key, keyMedal):
			n, err := strconv.Atoi(strings.TrimPrefix(key, keyMedal))
			if err == nil && n >= 1 && n <= len(snap.Settings.Official.Medals) {
				snap.Settings.Official.Medals[n-1] = value
			}
		}
	}

	return snap, nil
}

func parseRole(s string) scoredomain.Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return scoredomain.RoleAdmin
	case "moderator", "mod":
		return scoredomain.RoleModerator
	default:
		return scoredomain.RoleParticipant
	}
}

// parseCellTime reads a date column. Date-typed cells arrive as Excel serial
// numbers holding the wall clock of the tournament zone; text cells must match
// one of the fixed layouts.
func parseCellTime(parser *timeparse.Parser, cell string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(cell, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		t = t.Round(time.Second)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, parser.Location()), nil
	}
	return parser.ParseAbsolute(cell)
}

type record map[string]string

func (r record) get(column string) string {
	return strings.TrimSpace(r[column])
}

// records returns the data rows of sheet keyed by header. ok is false when the
// sheet does not exist.
func records(f *excelize.File, sheet string) ([]record, bool, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, false, nil
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, true, fmt.Errorf("workbook: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, true, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(record, len(header))
		empty := true
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			rec[header[i]] = cell
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out, true, nil
}
