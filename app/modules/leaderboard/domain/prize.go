package leaderboarddomain

// DefaultEntryFee is the contest's entry fee per paid participant.
const DefaultEntryFee = 150

// TrancheShares are the percentages of the pool reserved for ranks 1, 2 and 3.
var TrancheShares = [3]int{60, 20, 10}

// PrizeSplit is the outcome of dividing the pool among the top ranks.
//
// Holders[i] is the number of users sharing rank i+1 and Prize[i] is what each of
// them receives. A rank whose tranche was absorbed by a tie above it pays nothing.
type PrizeSplit struct {
	Pool     int
	Tranches [3]int
	Holders  [3]int
	Prize    [3]int
}

// Payout lists who collects a prize for one rank.
type Payout struct {
	Rank    int
	Amount  int
	UserIDs []string
}

// BankTotal is the pool collected from paid entrants.
func BankTotal(paidEntrants, entryFee int) int {
	return paidEntrants * entryFee
}

// SplitPrizePool divides pool among the users holding competition ranks 1 to 3.
//
// Rules:
//   - A unique leader takes the first tranche.
//   - k > 1 users tied for first share the first two tranches, plus the third when k >= 3.
//   - The second tranche is paid only when the leader is unique; a tie for second
//     shares the second and third tranches.
//   - The third tranche goes to rank 3 while ranks 1 and 2 together hold fewer than three slots.
//
// Amounts per person are truncated to whole units.
func SplitPrizePool(pool int, ranks []int) PrizeSplit {
	out := PrizeSplit{Pool: pool}
	for i, share := range TrancheShares {
		out.Tranches[i] = pool * share / 100
	}
	for _, r := range ranks {
		if r >= 1 && r <= 3 {
			out.Holders[r-1]++
		}
	}

	t, c := out.Tranches, out.Holders
	switch {
	case c[0] == 1:
		out.Prize[0] = t[0]
	case c[0] > 1:
		sum := t[0] + t[1]
		if c[0] >= 3 {
			sum += t[2]
		}
		out.Prize[0] = sum / c[0]
	}

	slots := c[0]
	if c[0] == 1 {
		switch {
		case c[1] == 1:
			out.Prize[1] = t[1]
		case c[1] > 1:
			out.Prize[1] = (t[1] + t[2]) / c[1]
		}
		slots += c[1]
	}

	if slots < 3 && c[2] > 0 {
		out.Prize[2] = t[2] / c[2]
	}
	return out
}

// Payouts resolves the split against the table, listing the users paid per rank.
func (p PrizeSplit) Payouts(entries []Entry) []Payout {
	var out []Payout
	for i := 0; i < 3; i++ {
		if p.Prize[i] == 0 {
			continue
		}
		po := Payout{Rank: i + 1, Amount: p.Prize[i]}
		for _, e := range entries {
			if e.Rank == i+1 {
				po.UserIDs = append(po.UserIDs, e.UserID)
			}
		}
		out = append(out, po)
	}
	return out
}

// PrizesFor computes the split for the standings, funding the pool from the paid entrants.
func PrizesFor(s Standings, entryFee int) PrizeSplit {
	paid := 0
	for _, e := range s.Entries {
		if e.Paid {
			paid++
		}
	}
	return SplitPrizePool(BankTotal(paid, entryFee), s.Ranks())
}
