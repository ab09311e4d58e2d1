package leaderboardservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
)

const (
	sheetStandings = "Poradi"
	sheetPayouts   = "Vyplaty"
)

var standingsHeader = []string{
	"Pořadí", "Jméno", "Tým", "Body celkem", "Zápasy", "Přesné tipy", "Ostrostřelec",
	"Nejlepší den", "Outsider", "Dlouhodobý tip", "Trend", "Ztráta na 1.", "Ztráta na 2.", "Ztráta na 3.",
}

// ExportStandings renders the current standings and payouts as an XLSX workbook.
func (s *LeaderboardService) ExportStandings(ctx context.Context) ([]byte, error) {
	return withTelemetry(s, ctx, "ExportStandings", func(ctx context.Context) ([]byte, error) {
		_, standings, err := s.compute(ctx)
		if err != nil {
			return nil, err
		}
		return EncodeStandings(standings, s.payouts(standings))
	})
}

// EncodeStandings writes the table and the prize split into a new workbook.
func EncodeStandings(st leaderboarddomain.Standings, payouts PayoutReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetStandings); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetPayouts); err != nil {
		return nil, fmt.Errorf("export: add sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: style: %w", err)
	}

	rows := [][]any{}
	for _, e := range st.Entries {
		b := e.Breakdown
		rows = append(rows, []any{
			e.Rank, e.Name, e.Team, b.Total, b.MatchPoints, e.ExactCount, b.Sharpshooter,
			b.DailyBest, b.Underdog, b.LongTerm, trendLabel(e.Trend),
			deficit(e.Deficits[0]), deficit(e.Deficits[1]), deficit(e.Deficits[2]),
		})
	}
	if err := writeSheet(f, sheetStandings, bold, standingsHeader, rows); err != nil {
		return nil, err
	}

	names := nameIndex(st)
	rows = [][]any{
		{"Bank", payouts.Split.Pool},
		{"Zaplaceno", payouts.Paid},
		{"Vklad", payouts.EntryFee},
	}
	for _, p := range payouts.Payouts {
		holders := make([]string, 0, len(p.UserIDs))
		for _, id := range p.UserIDs {
			holders = append(holders, names.of(id))
		}
		rows = append(rows, []any{fmt.Sprintf("%d. místo", p.Rank), p.Amount, strings.Join(holders, ", ")})
	}
	if err := writeSheet(f, sheetPayouts, bold, []string{"Položka", "Částka", "Výherci"}, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []string, rows [][]any) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("export: stream %s: %w", sheet, err)
	}
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", head); err != nil {
		return fmt.Errorf("export: %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("export: %s!%s: %w", sheet, cell, err)
		}
	}
	return sw.Flush()
}

func trendLabel(t leaderboarddomain.Trend) string {
	switch t.Kind {
	case leaderboarddomain.TrendUp:
		return fmt.Sprintf("▲ %d", t.Delta)
	case leaderboarddomain.TrendDown:
		return fmt.Sprintf("▼ %d", -t.Delta)
	case leaderboarddomain.TrendNew:
		return "nový"
	default:
		return "="
	}
}

func deficit(d *float64) any {
	if d == nil {
		return ""
	}
	return *d
}
