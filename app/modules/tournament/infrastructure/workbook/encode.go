package workbook

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// Encode writes snap into a new workbook with the standard sheets. Times are
// rendered in loc.
func Encode(snap scoredomain.Snapshot, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetMatches); err != nil {
		f.Close()
		return nil, fmt.Errorf("workbook: rename sheet: %w", err)
	}
	for _, sheet := range []string{SheetPredictions, SheetUsers, SheetSettings} {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("workbook: add sheet %q: %w", sheet, err)
		}
	}

	w := sheetWriter{f: f}
	w.row(SheetMatches, matchHeader)
	for _, m := range snap.Matches {
		home, away, ot := "", "", ""
		if m.Played() {
			home, away = fmt.Sprint(*m.HomeScore), fmt.Sprint(*m.AwayScore)
			if m.Overtime {
				ot = "ANO"
			}
		}
		w.row(SheetMatches, []any{m.ID, formatTime(m.Kickoff, loc), m.HomeTeam, m.AwayTeam, m.Phase, home, away, ot})
	}

	w.row(SheetPredictions, predictionHeader)
	for _, p := range snap.Predictions {
		w.row(SheetPredictions, []any{p.UserID, p.MatchID, p.Home, p.Away, flag(p.Overtime, "")})
	}

	w.row(SheetUsers, userHeader)
	for _, u := range snap.Users {
		w.row(SheetUsers, []any{
			u.ID, u.Name, string(u.Role), u.Team,
			u.LongTerm.Winner, u.LongTerm.Medals[0], u.LongTerm.Medals[1], u.LongTerm.Medals[2],
			flag(u.Paid, "NE"), formatTime(u.RegisteredAt, loc),
		})
	}

	w.row(SheetSettings, settingsHeader)
	w.row(SheetSettings, []any{keyWinner, snap.Settings.Official.Winner})
	for i, m := range snap.Settings.Official.Medals {
		w.row(SheetSettings, []any{fmt.Sprintf("%s%d", keyMedal, i+1), m})
	}
	w.row(SheetSettings, []any{keyDeadline, formatTime(snap.Settings.LongTermDeadline, loc)})

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	next map[string]int
	err  error
}

func (w *sheetWriter) row(sheet string, values []any) {
	if w.err != nil {
		return
	}
	if w.next == nil {
		w.next = make(map[string]int)
	}
	w.next[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("workbook: write %s!%s: %w", sheet, cell, err)
	}
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

func flag(v bool, no string) string {
	if v {
		return "ANO"
	}
	return no
}
