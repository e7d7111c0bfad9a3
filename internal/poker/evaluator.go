package poker

import (
	"fmt"
	"sort"

	"github.com/clawhouse/platform/internal/domain"
)

// Category of a five-card hand, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = map[Category]string{
	HighCard:      "high_card",
	Pair:          "pair",
	TwoPair:       "two_pair",
	ThreeOfAKind:  "three_of_a_kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full_house",
	FourOfAKind:   "four_of_a_kind",
	StraightFlush: "straight_flush",
}

func (c Category) String() string { return categoryNames[c] }

func (c Category) MarshalText() ([]byte, error) {
	s, ok := categoryNames[c]
	if !ok {
		return nil, fmt.Errorf("invalid hand category %d", int(c))
	}
	return []byte(s), nil
}

// HandRank is the value of a best five-card hand. Score totally orders
// all hands: category in the high bits, then the five tie-break ranks
// packed four bits each in conventional kicker order.
type HandRank struct {
	Category Category `json:"category"`
	Score    uint32   `json:"score"`
	Best     []Card   `json:"cards"`
	Name     string   `json:"name"`
}

// Beats reports whether h outranks other.
func (h HandRank) Beats(other HandRank) bool { return h.Score > other.Score }

// Ties reports whether h and other are of identical strength.
func (h HandRank) Ties(other HandRank) bool { return h.Score == other.Score }

// Evaluate returns the best five-card hand from 5 to 7 cards.
func Evaluate(cards []Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, domain.ErrValidation(
			fmt.Sprintf("evaluate needs 5 to 7 cards, got %d", len(cards)))
	}

	var best HandRank
	pick := make([]Card, 5)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == 5 {
			if hr := evalFive(pick); hr.Score > best.Score {
				best = hr
			}
			return
		}
		for i := start; i <= len(cards)-(5-depth); i++ {
			pick[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return best, nil
}

// evalFive scores exactly five cards.
func evalFive(five []Card) HandRank {
	cards := make([]Card, 5)
	copy(cards, five)
	sort.Slice(cards, func(i, j int) bool { return cards[i].Rank > cards[j].Rank })

	flush := true
	for i := 1; i < 5; i++ {
		if cards[i].Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straightHigh := straightHighCard(cards)
	if straightHigh == RankFive {
		// Wheel: show the ace low.
		cards = append(cards[1:], cards[0])
	}

	counts := map[Rank]int{}
	for _, c := range cards {
		counts[c.Rank]++
	}
	// Group ranks by multiplicity, highest count first, rank breaking ties.
	type group struct {
		rank  Rank
		count int
	}
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	var category Category
	var kickers []Rank
	var name string

	switch {
	case flush && straightHigh != 0:
		category = StraightFlush
		kickers = []Rank{straightHigh}
		if straightHigh == RankAce {
			name = "Royal Flush"
		} else {
			name = fmt.Sprintf("Straight Flush, %s high", straightHigh.Name())
		}
	case groups[0].count == 4:
		category = FourOfAKind
		kickers = []Rank{groups[0].rank, groups[1].rank}
		name = fmt.Sprintf("Four of a Kind, %s", plural(groups[0].rank))
	case groups[0].count == 3 && groups[1].count == 2:
		category = FullHouse
		kickers = []Rank{groups[0].rank, groups[1].rank}
		name = fmt.Sprintf("Full House, %s full of %s",
			plural(groups[0].rank), plural(groups[1].rank))
	case flush:
		category = Flush
		kickers = ranksOf(cards)
		name = fmt.Sprintf("Flush, %s high", cards[0].Rank.Name())
	case straightHigh != 0:
		category = Straight
		kickers = []Rank{straightHigh}
		name = fmt.Sprintf("Straight, %s high", straightHigh.Name())
	case groups[0].count == 3:
		category = ThreeOfAKind
		kickers = []Rank{groups[0].rank, groups[1].rank, groups[2].rank}
		name = fmt.Sprintf("Three of a Kind, %s", plural(groups[0].rank))
	case groups[0].count == 2 && groups[1].count == 2:
		category = TwoPair
		kickers = []Rank{groups[0].rank, groups[1].rank, groups[2].rank}
		name = fmt.Sprintf("Two Pair, %s and %s",
			plural(groups[0].rank), plural(groups[1].rank))
	case groups[0].count == 2:
		category = Pair
		kickers = []Rank{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}
		name = fmt.Sprintf("Pair of %s", plural(groups[0].rank))
	default:
		category = HighCard
		kickers = ranksOf(cards)
		name = fmt.Sprintf("%s High", cards[0].Rank.Name())
	}

	return HandRank{
		Category: category,
		Score:    packScore(category, kickers),
		Best:     cards,
		Name:     name,
	}
}

// straightHighCard returns the high card of a straight formed by five
// rank-descending cards, RankFive for the wheel, or zero when none.
func straightHighCard(desc []Card) Rank {
	run := true
	for i := 1; i < 5; i++ {
		if desc[i-1].Rank != desc[i].Rank+1 {
			run = false
			break
		}
	}
	if run {
		return desc[0].Rank
	}
	// A-2-3-4-5: descending order is A 5 4 3 2.
	if desc[0].Rank == RankAce && desc[1].Rank == RankFive &&
		desc[2].Rank == RankFour && desc[3].Rank == RankThree && desc[4].Rank == RankTwo {
		return RankFive
	}
	return 0
}

func ranksOf(cards []Card) []Rank {
	out := make([]Rank, len(cards))
	for i, c := range cards {
		out[i] = c.Rank
	}
	return out
}

func packScore(cat Category, kickers []Rank) uint32 {
	score := uint32(cat) << 20
	for i := 0; i < 5; i++ {
		var r Rank
		if i < len(kickers) {
			r = kickers[i]
		}
		score |= uint32(r) << (16 - 4*i)
	}
	return score
}

func plural(r Rank) string {
	if r == RankSix {
		return "Sixes"
	}
	return r.Name() + "s"
}
