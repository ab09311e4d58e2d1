package scoredomain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMatchSheet(t *testing.T) {
	kickoff := time.Date(2026, 2, 14, 20, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Matches: []Match{{ID: "m1", HomeTeam: "Kanada", AwayTeam: "Švédsko", Phase: "Skupina A", Kickoff: kickoff}},
		Users:   []User{{ID: "a", Name: "Alena"}, {ID: "b", Name: "Bořek"}, {ID: "c", Name: "Cyril"}},
		Predictions: []Prediction{
			{UserID: "a", MatchID: "m1", Home: 3, Away: 1},
			{UserID: "b", MatchID: "m1", Home: 0, Away: 0},
		},
	}
	rules := DefaultRules()

	t.Run("hidden before kickoff", func(t *testing.T) {
		sheet, ok := rules.MatchSheet(snap, "m1", kickoff.Add(-time.Minute))
		if !ok {
			t.Fatal("match not found")
		}
		want := []TipRow{
			{UserID: "a", Name: "Alena", HasTip: true},
			{UserID: "b", Name: "Bořek", HasTip: true},
			{UserID: "c", Name: "Cyril"},
		}
		if sheet.Revealed {
			t.Error("sheet should stay hidden")
		}
		if diff := cmp.Diff(want, sheet.Rows); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("revealed at kickoff without result", func(t *testing.T) {
		sheet, _ := rules.MatchSheet(snap, "m1", kickoff)
		if !sheet.Revealed {
			t.Fatal("sheet should be revealed at kickoff")
		}
		row := sheet.Rows[0]
		if row.Prediction == nil || row.Prediction.Home != 3 || row.Score != nil {
			t.Errorf("row = %+v, want tip without score", row)
		}
	})

	t.Run("goalless tip is listed but left out of the split", func(t *testing.T) {
		sheet, _ := rules.MatchSheet(snap, "m1", kickoff)
		row := sheet.Rows[1]
		if !row.HasTip || row.Prediction == nil {
			t.Fatalf("row = %+v, want the 0:0 tip shown", row)
		}
		if row.Prediction.Home != 0 || row.Prediction.Away != 0 {
			t.Errorf("prediction = %+v, want 0:0", row.Prediction)
		}
		if sheet.Split.Total != 1 {
			t.Errorf("split total = %d, want 1", sheet.Split.Total)
		}
		if sheet.Rows[2].HasTip {
			t.Errorf("user without a tip row = %+v", sheet.Rows[2])
		}
	})

	t.Run("scored once played", func(t *testing.T) {
		played := snap
		played.Matches = []Match{snap.Matches[0]}
		played.Matches[0].HomeScore = Goals(3)
		played.Matches[0].AwayScore = Goals(1)

		sheet, _ := rules.MatchSheet(played, "m1", kickoff)
		score := sheet.Rows[0].Score
		if score == nil || score.Points != 9 || !score.Exact {
			t.Errorf("score = %+v, want exact 9 points", score)
		}
		if sheet.Split.Total != 1 || sheet.Split.Home != 1 {
			t.Errorf("split = %+v, want one home backer", sheet.Split)
		}
	})

	t.Run("unknown match", func(t *testing.T) {
		if _, ok := rules.MatchSheet(snap, "zz", kickoff); ok {
			t.Error("expected miss")
		}
	})
}
