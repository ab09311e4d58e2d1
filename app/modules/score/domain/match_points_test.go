package scoredomain

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
)

func input(ph, pa, rh, ra int) MatchInput {
	return MatchInput{
		PredictedHome: ph,
		PredictedAway: pa,
		ActualHome:    Goals(rh),
		ActualAway:    Goals(ra),
		HomeTeam:      "Kanada",
		AwayTeam:      "Švédsko",
		Phase:         "Skupina A",
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		in   MatchInput
		want MatchScore
	}{
		{
			name: "wrong winner scores nothing",
			in:   input(1, 3, 3, 1),
			want: MatchScore{},
		},
		{
			name: "predicted draw never matches",
			in:   input(2, 2, 3, 2),
			want: MatchScore{},
		},
		{
			name: "correct winner one goal off",
			in:   input(2, 1, 3, 1),
			want: MatchScore{Points: 6, Scored: true, BasePoints: 6},
		},
		{
			name: "exact score",
			in:   input(3, 1, 3, 1),
			want: MatchScore{Points: 9, Exact: true, Scored: true, BasePoints: 9},
		},
		{
			name: "far off is floored",
			in:   input(10, 0, 1, 0),
			want: MatchScore{Points: 2, Scored: true, BasePoints: 2},
		},
		{
			name: "unplayed match",
			in:   MatchInput{PredictedHome: 2, PredictedAway: 1},
			want: MatchScore{},
		},
		{
			name: "playoff multiplier rounds up",
			in: MatchInput{
				PredictedHome: 4, PredictedAway: 2,
				ActualHome: Goals(3), ActualAway: Goals(1),
				HomeTeam: "Finsko", AwayTeam: "USA", Phase: "Čtvrtfinále",
			},
			want: MatchScore{Points: 8, Scored: true, BasePoints: 8},
		},
		{
			name: "overtime hit",
			in: MatchInput{
				PredictedHome: 3, PredictedAway: 2, PredictedOvertime: true,
				ActualHome: Goals(3), ActualAway: Goals(2), ActualOvertime: true,
				HomeTeam: "Finsko", AwayTeam: "USA", Phase: "Skupina B",
			},
			want: MatchScore{Points: 10, Exact: true, Scored: true, OvertimePoints: 1, BasePoints: 9},
		},
		{
			name: "wrong winner ignores the overtime bet",
			in: MatchInput{
				PredictedHome: 2, PredictedAway: 1, PredictedOvertime: true,
				ActualHome: Goals(1), ActualAway: Goals(4),
				HomeTeam: "Finsko", AwayTeam: "USA",
			},
			want: MatchScore{},
		},
		{
			name: "overtime flag ignored when margin is not one",
			in: MatchInput{
				PredictedHome: 3, PredictedAway: 1, PredictedOvertime: true,
				ActualHome: Goals(3), ActualAway: Goals(1),
				HomeTeam: "Finsko", AwayTeam: "USA",
			},
			want: MatchScore{Points: 9, Exact: true, Scored: true, BasePoints: 9},
		},
		{
			name: "czech semifinal",
			in: MatchInput{
				PredictedHome: 2, PredictedAway: 1,
				ActualHome: Goals(3), ActualAway: Goals(1),
				HomeTeam: "Česko", AwayTeam: "Kanada", Phase: "Semifinal",
			},
			want: MatchScore{Points: 11, Scored: true, BasePoints: 11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluate_OvertimeMissOnFlooredBase(t *testing.T) {
	in := MatchInput{
		PredictedHome: 1, PredictedAway: 0, PredictedOvertime: true,
		ActualHome: Goals(9), ActualAway: Goals(0),
		HomeTeam: "Finsko", AwayTeam: "USA",
	}
	got := Evaluate(in)
	// base 2 (floored), overtime -1
	if got.Points != 1 || got.OvertimePoints != -1 || !got.Scored {
		t.Fatalf("unexpected score %+v", got)
	}
}

func TestEvaluate_Properties(t *testing.T) {
	faker := gofakeit.New(42)
	rules := DefaultRules()

	for i := 0; i < 500; i++ {
		ph, pa := faker.IntRange(0, 9), faker.IntRange(0, 9)
		rh, ra := faker.IntRange(0, 9), faker.IntRange(0, 9)
		if rh == ra {
			continue
		}
		in := input(ph, pa, rh, ra)
		got := rules.Evaluate(in)

		if again := rules.Evaluate(in); again != got {
			t.Fatalf("evaluate not idempotent for %+v: %+v vs %+v", in, got, again)
		}

		if predictedWinner(ph, pa) != actualWinner(rh, ra) {
			if got != (MatchScore{}) {
				t.Fatalf("wrong winner %d:%d vs %d:%d scored %+v", ph, pa, rh, ra, got)
			}
			continue
		}

		exact := ph == rh && pa == ra
		if got.Exact != exact {
			t.Fatalf("exact flag %v for %d:%d vs %d:%d", got.Exact, ph, pa, rh, ra)
		}
		if exact && got.BasePoints != rules.MaxBasePoints+rules.ExactScoreBonus {
			t.Fatalf("exact hit base = %d", got.BasePoints)
		}
		if got.BasePoints < rules.MinWinnerPoints {
			t.Fatalf("base %d below floor for %d:%d vs %d:%d", got.BasePoints, ph, pa, rh, ra)
		}
	}
}

func TestEvaluate_Monotonic(t *testing.T) {
	prev := math.MaxInt
	for off := 0; off < 12; off++ {
		got := Evaluate(input(3+off, 1, 3, 1)).BasePoints
		if got > prev {
			t.Fatalf("base increased from %d to %d at offset %d", prev, got, off)
		}
		if got < 2 {
			t.Fatalf("base %d below floor at offset %d", got, off)
		}
		prev = got
	}
}

func TestEvaluate_PlayoffCeiling(t *testing.T) {
	rules := DefaultRules()
	for _, tc := range []struct{ ph, pa int }{{3, 1}, {2, 1}, {4, 1}, {5, 0}, {9, 0}} {
		group := rules.Evaluate(input(tc.ph, tc.pa, 3, 1)).BasePoints
		in := input(tc.ph, tc.pa, 3, 1)
		in.Phase = "Playoff"
		playoff := rules.Evaluate(in).BasePoints
		if want := int(math.Ceil(float64(group) * 1.5)); playoff != want {
			t.Errorf("%d:%d playoff base = %d, want ceil(%d*1.5) = %d", tc.ph, tc.pa, playoff, group, want)
		}
	}
}

func TestEvaluateRaw(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name                                 string
		predHome, predAway, actHome, actAway string
		predOT, actOT                        string
		want                                 int
	}{
		{name: "numeric", predHome: "2", predAway: "1", actHome: "3", actAway: "1", want: 6},
		{name: "padded", predHome: " 3 ", predAway: "1", actHome: "3", actAway: " 1", want: 9},
		{name: "unplayed", predHome: "2", predAway: "1", actHome: "", actAway: "", want: 0},
		{name: "garbage result", predHome: "2", predAway: "1", actHome: "x", actAway: "1", want: 0},
		{name: "garbage prediction", predHome: "dva", predAway: "1", actHome: "3", actAway: "1", want: 0},
		{name: "negative", predHome: "-1", predAway: "1", actHome: "3", actAway: "1", want: 0},
		{name: "overtime flag", predHome: "3", predAway: "2", actHome: "3", actAway: "2", predOT: "ANO", actOT: "ano", want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.EvaluateRaw(tt.predHome, tt.predAway, tt.actHome, tt.actAway, "Finsko", "USA", "Skupina", tt.predOT, tt.actOT)
			if got.Points != tt.want {
				t.Errorf("EvaluateRaw() points = %d, want %d", got.Points, tt.want)
			}
		})
	}
}

func TestRules_Keywords(t *testing.T) {
	rules := DefaultRules()
	for _, phase := range []string{"Playoff", "FINÁLE", "Zápas o 3. místo", "čtvrtfinále", "Semifinále", "Quarterfinal"} {
		if !rules.IsPlayoffPhase(phase) {
			t.Errorf("IsPlayoffPhase(%q) = false", phase)
		}
	}
	for _, phase := range []string{"", "Skupina A", "Group B"} {
		if rules.IsPlayoffPhase(phase) {
			t.Errorf("IsPlayoffPhase(%q) = true", phase)
		}
	}
	if !rules.InvolvesNationalTeam("Kanada", "ČESKO") {
		t.Error("expected national team match")
	}
	if rules.InvolvesNationalTeam("Kanada", "Slovensko") {
		t.Error("unexpected national team match")
	}
}
