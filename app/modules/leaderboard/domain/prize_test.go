package leaderboarddomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitPrizePool(t *testing.T) {
	tests := []struct {
		name  string
		pool  int
		ranks []int
		want  [3]int
	}{
		{
			name:  "clear podium",
			pool:  1000,
			ranks: []int{1, 2, 3, 4},
			want:  [3]int{600, 200, 100},
		},
		{
			name:  "two tied leaders absorb the second tranche",
			pool:  1000,
			ranks: []int{1, 1, 3, 4},
			want:  [3]int{400, 0, 100},
		},
		{
			name:  "three tied leaders take everything",
			pool:  1000,
			ranks: []int{1, 1, 1, 4},
			want:  [3]int{300, 0, 0},
		},
		{
			name:  "tie for second absorbs the third tranche",
			pool:  1000,
			ranks: []int{1, 2, 2, 4},
			want:  [3]int{600, 150, 0},
		},
		{
			name:  "tie for third splits the third tranche",
			pool:  1000,
			ranks: []int{1, 2, 3, 3},
			want:  [3]int{600, 200, 50},
		},
		{
			name:  "amounts are truncated",
			pool:  150 * 7,
			ranks: []int{1, 1, 1},
			want:  [3]int{315, 0, 0},
		},
		{
			name:  "empty pool",
			pool:  0,
			ranks: []int{1, 2},
			want:  [3]int{0, 0, 0},
		},
		{
			name:  "nobody ranked",
			pool:  450,
			ranks: nil,
			want:  [3]int{0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitPrizePool(tt.pool, tt.ranks)
			if got.Prize != tt.want {
				t.Errorf("SplitPrizePool().Prize = %v, want %v", got.Prize, tt.want)
			}
		})
	}
}

func TestSplitPrizePool_Tranches(t *testing.T) {
	got := SplitPrizePool(BankTotal(10, DefaultEntryFee), []int{1})
	if got.Pool != 1500 || got.Tranches != [3]int{900, 300, 150} {
		t.Errorf("unexpected split %+v", got)
	}
}

func TestPrizesFor(t *testing.T) {
	s := Standings{Entries: []Entry{
		{UserID: "a", Rank: 1, Paid: true},
		{UserID: "b", Rank: 1, Paid: true},
		{UserID: "c", Rank: 3, Paid: true},
		{UserID: "d", Rank: 4},
	}}

	split := PrizesFor(s, 200)
	want := []Payout{
		{Rank: 1, Amount: 240, UserIDs: []string{"a", "b"}},
		{Rank: 3, Amount: 60, UserIDs: []string{"c"}},
	}
	if diff := cmp.Diff(want, split.Payouts(s.Entries)); diff != "" {
		t.Errorf("Payouts() mismatch (-want +got):\n%s", diff)
	}
}
