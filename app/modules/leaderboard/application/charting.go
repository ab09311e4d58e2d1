package leaderboardservice

import (
	"bytes"
	"context"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
)

// ChartPalette holds the colours used for rendered charts.
type ChartPalette struct {
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	Background  drawing.Color
	TextColor   drawing.Color
}

// DefaultPalette is ice blue on white.
var DefaultPalette = ChartPalette{
	PrimaryLine: drawing.ColorFromHex("1d4e89"),
	AccentLine:  drawing.ColorFromHex("c8102e"),
	Background:  drawing.ColorWhite,
	TextColor:   drawing.ColorFromHex("222222"),
}

// RankHistoryChart renders a PNG of the user's rank day by day.
func (s *LeaderboardService) RankHistoryChart(ctx context.Context, userID string) ([]byte, error) {
	return withTelemetry(s, ctx, "RankHistoryChart", func(ctx context.Context) ([]byte, error) {
		snap, err := s.reader.LoadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		history := s.engine.History(snap, s.now())
		return GenerateRankHistoryChart(history.Series[userID], s.palette)
	})
}

// GenerateRankHistoryChart produces a PNG line chart of a user's rank, with 1st at the top.
func GenerateRankHistoryChart(points []leaderboarddomain.HistoryPoint, palette ChartPalette) ([]byte, error) {
	if len(points) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	worst := 1
	for i, p := range points {
		xValues[i] = p.Date
		yValues[i] = float64(p.Rank)
		if p.Rank > worst {
			worst = p.Rank
		}
	}

	series := chart.TimeSeries{
		Name:    "Rank",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	// A single day would collapse the x range, so pad it by a day on both sides.
	var xRange chart.Range
	if len(points) == 1 {
		xRange = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(points[0].Date.AddDate(0, 0, -1)),
			Max: chart.TimeToFloat64(points[0].Date.AddDate(0, 0, 1)),
		}
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Den",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2.1."),
			Range:          xRange,
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: "Pořadí",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			Range: &chart.ContinuousRange{
				Min:        0.5,
				Max:        float64(worst) + 0.5,
				Descending: true,
			},
			ValueFormatter: chart.IntValueFormatter,
		},
		Series: []chart.Series{series},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws a centred message straight onto the canvas;
// chart.Chart refuses to render without a series.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "Zatím žádná historie"
	)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
