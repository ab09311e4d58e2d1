package leaderboarddomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompetitionRanks(t *testing.T) {
	tests := []struct {
		name   string
		totals []float64
		want   []int
	}{
		{name: "tie at the top", totals: []float64{10, 10, 8}, want: []int{1, 1, 3}},
		{name: "distinct", totals: []float64{12, 9.5, 3}, want: []int{1, 2, 3}},
		{name: "tie in the middle", totals: []float64{12, 9.5, 9.5, 9.5, 1}, want: []int{1, 2, 2, 2, 5}},
		{name: "everyone zero", totals: []float64{0, 0, 0}, want: []int{1, 1, 1}},
		{name: "empty", totals: nil, want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, CompetitionRanks(tt.totals)); diff != "" {
				t.Errorf("CompetitionRanks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeficits(t *testing.T) {
	totals := []float64{20, 15.5, 15.5, 4}

	flatten := func(d [3]*float64) []any {
		out := make([]any, 3)
		for i, v := range d {
			if v != nil {
				out[i] = *v
			}
		}
		return out
	}

	tests := []struct {
		name  string
		total float64
		want  []any
	}{
		{name: "leader", total: 20, want: []any{nil, nil, nil}},
		{name: "tied second", total: 15.5, want: []any{4.5, nil, nil}},
		{name: "last", total: 4, want: []any{16.0, 11.5, 11.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, flatten(Deficits(totals, tt.total))); diff != "" {
				t.Errorf("Deficits() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("short table counts missing positions as zero", func(t *testing.T) {
		got := flatten(Deficits([]float64{7}, 7))
		if diff := cmp.Diff([]any{nil, nil, nil}, got); diff != "" {
			t.Errorf("Deficits() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSortEntries(t *testing.T) {
	entries := []Entry{
		{UserID: "3", Name: "Petr", Breakdown: Breakdown{Total: 5}},
		{UserID: "2", Name: "Anna", Breakdown: Breakdown{Total: 5}},
		{UserID: "1", Name: "Zdeněk", Breakdown: Breakdown{Total: 9}},
		{UserID: "0", Name: "Anna", Breakdown: Breakdown{Total: 5}},
	}
	assignRanks(entries)

	var order []string
	var ranks []int
	for _, e := range entries {
		order = append(order, e.UserID)
		ranks = append(ranks, e.Rank)
	}
	if diff := cmp.Diff([]string{"1", "0", "2", "3"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 2, 2}, ranks); diff != "" {
		t.Errorf("ranks mismatch (-want +got):\n%s", diff)
	}
}
