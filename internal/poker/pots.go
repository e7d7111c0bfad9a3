package poker

import (
	"sort"

	"github.com/clawhouse/platform/internal/money"
)

// Contribution is one seat's money in the hand as pot-building input.
// Folded seats fund pots but cannot win them.
type Contribution struct {
	Invested money.Amount
	Folded   bool
}

// Pot is a main or side pot. Eligible lists the seat indexes that can win
// it, ascending. Pots are ordered main pot first, then side pots in
// creation order; equal eligibility sets are not merged.
type Pot struct {
	Amount   money.Amount `json:"amount"`
	Eligible []int        `json:"eligible"`
}

// BuildPots layers the hand's investments into pots. Let L1 < L2 < ... be
// the distinct positive investment totals; level j forms a pot of
// (Lj - Lj-1) chips from every seat that invested at least Lj, winnable
// by the non-folded among them. An uncalled overage becomes a pot only
// its contributor can win, which hands it straight back at distribution.
func BuildPots(contribs []Contribution) []Pot {
	invested := make([]money.Amount, len(contribs))
	var levels []money.Amount
	for i, c := range contribs {
		invested[i] = money.OrZero(c.Invested)
		if !invested[i].IsPositive() {
			continue
		}
		seen := false
		for _, l := range levels {
			if l.Equal(invested[i]) {
				seen = true
				break
			}
		}
		if !seen {
			levels = append(levels, invested[i])
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].LT(levels[j]) })

	pots := make([]Pot, 0, len(levels))
	prev := money.Zero()
	for _, level := range levels {
		slice := level.Sub(prev)
		pot := Pot{Amount: money.Zero()}
		for i := range contribs {
			if invested[i].LT(level) {
				continue
			}
			pot.Amount = pot.Amount.Add(slice)
			if !contribs[i].Folded {
				pot.Eligible = append(pot.Eligible, i)
			}
		}
		pots = append(pots, pot)
		prev = level
	}
	return pots
}

// PotAward is one pot's distribution. Shares carries the per-seat award
// including odd chips.
type PotAward struct {
	Amount   money.Amount         `json:"amount"`
	Eligible []int                `json:"eligible"`
	Winners  []int                `json:"winners"`
	Shares   map[int]money.Amount `json:"shares"`
}

// DistributePots finds each pot's best hand among its eligible seats and
// splits it. Ties split evenly; any remainder goes one chip at a time to
// the tied seats in order clockwise from the button.
func DistributePots(pots []Pot, ranks map[int]HandRank, button, numSeats int) []PotAward {
	awards := make([]PotAward, 0, len(pots))
	for _, pot := range pots {
		var winners []int
		var best uint32
		for _, seat := range pot.Eligible {
			rank, ok := ranks[seat]
			if !ok {
				continue
			}
			switch {
			case len(winners) == 0 || rank.Score > best:
				winners = []int{seat}
				best = rank.Score
			case rank.Score == best:
				winners = append(winners, seat)
			}
		}

		award := PotAward{
			Amount:   pot.Amount,
			Eligible: pot.Eligible,
			Winners:  winners,
			Shares:   make(map[int]money.Amount, len(winners)),
		}
		if len(winners) > 0 {
			n := int64(len(winners))
			share := pot.Amount.QuoRaw(n)
			remainder := pot.Amount.Sub(share.MulRaw(n)).Int64()

			ordered := append([]int(nil), winners...)
			sort.Slice(ordered, func(i, j int) bool {
				return clockwiseFrom(button, ordered[i], numSeats) <
					clockwiseFrom(button, ordered[j], numSeats)
			})
			for i, seat := range ordered {
				s := share
				if int64(i) < remainder {
					s = s.AddRaw(1)
				}
				award.Shares[seat] = s
			}
		}
		awards = append(awards, award)
	}
	return awards
}

// clockwiseFrom orders seats starting one past the button.
func clockwiseFrom(button, seat, numSeats int) int {
	return ((seat-button-1)%numSeats + numSeats) % numSeats
}

// TotalAwards folds pot shares into a per-seat total.
func TotalAwards(awards []PotAward) map[int]money.Amount {
	totals := make(map[int]money.Amount)
	for _, a := range awards {
		for seat, share := range a.Shares {
			totals[seat] = money.OrZero(totals[seat]).Add(share)
		}
	}
	return totals
}
