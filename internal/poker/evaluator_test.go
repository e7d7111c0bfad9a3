package poker

import (
	"math/rand"
	"testing"

	oracle "github.com/chehsunliu/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(ss ...string) []Card {
	out := make([]Card, len(ss))
	for i, s := range ss {
		out[i] = MustCard(s)
	}
	return out
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name     string
		cards    []string
		category Category
		handName string
	}{
		{
			name:     "royal flush",
			cards:    []string{"Ah", "Kh", "Qh", "Jh", "Th", "3c", "4d"},
			category: StraightFlush,
			handName: "Royal Flush",
		},
		{
			name:     "straight flush king high",
			cards:    []string{"Kh", "Qh", "Jh", "Th", "9h", "2c", "2d"},
			category: StraightFlush,
			handName: "Straight Flush, King high",
		},
		{
			name:     "steel wheel",
			cards:    []string{"Ah", "2h", "3h", "4h", "5h", "9c", "8d"},
			category: StraightFlush,
			handName: "Straight Flush, Five high",
		},
		{
			name:     "four of a kind",
			cards:    []string{"8h", "8s", "8d", "8c", "Ah", "Kc", "Qs"},
			category: FourOfAKind,
			handName: "Four of a Kind, Eights",
		},
		{
			name:     "full house",
			cards:    []string{"Kh", "Ks", "Kd", "9c", "9h", "2s", "3d"},
			category: FullHouse,
			handName: "Full House, Kings full of Nines",
		},
		{
			name:     "flush",
			cards:    []string{"Ah", "Jh", "8h", "5h", "2h", "Kc", "Qd"},
			category: Flush,
			handName: "Flush, Ace high",
		},
		{
			name:     "straight over pair",
			cards:    []string{"9c", "8d", "7h", "6s", "5c", "Ah", "Ad"},
			category: Straight,
			handName: "Straight, Nine high",
		},
		{
			name:     "wheel",
			cards:    []string{"Ah", "2c", "3d", "4s", "5h", "Kd", "9c"},
			category: Straight,
			handName: "Straight, Five high",
		},
		{
			name:     "three of a kind",
			cards:    []string{"6h", "6s", "6d", "Ah", "Kc", "4s", "2d"},
			category: ThreeOfAKind,
			handName: "Three of a Kind, Sixes",
		},
		{
			name:     "two pair",
			cards:    []string{"Jh", "Js", "4d", "4c", "Ah", "9s", "2c"},
			category: TwoPair,
			handName: "Two Pair, Jacks and Fours",
		},
		{
			name:     "pair",
			cards:    []string{"Qh", "Qs", "9d", "7c", "5h", "3s", "2d"},
			category: Pair,
			handName: "Pair of Queens",
		},
		{
			name:     "high card",
			cards:    []string{"Ah", "Jd", "9s", "7c", "5h", "3d", "2c"},
			category: HighCard,
			handName: "Ace High",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hr, err := Evaluate(cards(tt.cards...))
			require.NoError(t, err)
			assert.Equal(t, tt.category, hr.Category)
			assert.Equal(t, tt.handName, hr.Name)
			assert.Len(t, hr.Best, 5)
		})
	}
}

func TestEvaluatePicksBestFive(t *testing.T) {
	// Three pairs on board: the best two plus the top kicker must win out.
	hr, err := Evaluate(cards("Ah", "As", "Kh", "Ks", "Qh", "Qd", "2c"))
	require.NoError(t, err)
	assert.Equal(t, TwoPair, hr.Category)
	assert.Equal(t, "Two Pair, Aces and Kings", hr.Name)
	for _, c := range hr.Best {
		assert.NotEqual(t, RankTwo, c.Rank)
	}

	// Six hearts: the flush drops the lowest one.
	hr, err = Evaluate(cards("Ah", "Kh", "9h", "7h", "3h", "2h", "2s"))
	require.NoError(t, err)
	assert.Equal(t, Flush, hr.Category)
	for _, c := range hr.Best {
		assert.NotEqual(t, RankTwo, c.Rank)
	}
}

func TestEvaluateWheelShowsAceLow(t *testing.T) {
	hr, err := Evaluate(cards("Ah", "5d", "4c", "3s", "2h"))
	require.NoError(t, err)
	assert.Equal(t, Straight, hr.Category)
	assert.Equal(t, "Straight, Five high", hr.Name)
	require.Len(t, hr.Best, 5)
	assert.Equal(t, RankFive, hr.Best[0].Rank)
	assert.Equal(t, RankAce, hr.Best[4].Rank)
}

func TestEvaluateOrdering(t *testing.T) {
	tests := []struct {
		name   string
		winner []string
		loser  []string
	}{
		{
			name:   "royal flush over king high straight flush",
			winner: []string{"Ah", "Kh", "Qh", "Jh", "Th"},
			loser:  []string{"Ks", "Qs", "Js", "Ts", "9s"},
		},
		{
			name:   "quad twos over aces full",
			winner: []string{"2h", "2s", "2d", "2c", "3h"},
			loser:  []string{"Ah", "As", "Ad", "Kh", "Ks"},
		},
		{
			name:   "aces full over kings full",
			winner: []string{"Ah", "As", "Ad", "2h", "2s"},
			loser:  []string{"Kh", "Ks", "Kd", "Qh", "Qs"},
		},
		{
			name:   "flush over straight",
			winner: []string{"Ah", "Jh", "8h", "5h", "2h"},
			loser:  []string{"Ts", "9d", "8c", "7h", "6s"},
		},
		{
			name:   "six high straight over wheel",
			winner: []string{"6h", "5d", "4c", "3s", "2h"},
			loser:  []string{"As", "5s", "4d", "3c", "2d"},
		},
		{
			name:   "wheel over three of a kind",
			winner: []string{"Ah", "5d", "4c", "3s", "2h"},
			loser:  []string{"Kh", "Ks", "Kd", "9c", "2s"},
		},
		{
			name:   "pair kicker decides",
			winner: []string{"Ah", "As", "Kd", "9c", "5s"},
			loser:  []string{"Ac", "Ad", "Qs", "9h", "5c"},
		},
		{
			name:   "second pair decides over kicker",
			winner: []string{"Ah", "As", "9d", "9c", "5s"},
			loser:  []string{"Ac", "Ad", "8s", "8h", "Kc"},
		},
		{
			name:   "high card cascade",
			winner: []string{"Ah", "Kd", "9s", "7c", "6h"},
			loser:  []string{"As", "Kc", "9d", "7h", "5d"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Evaluate(cards(tt.winner...))
			require.NoError(t, err)
			l, err := Evaluate(cards(tt.loser...))
			require.NoError(t, err)
			assert.True(t, w.Beats(l), "want %s (%d) to beat %s (%d)", w.Name, w.Score, l.Name, l.Score)
			assert.False(t, l.Beats(w))
		})
	}
}

func TestEvaluateTiesIgnoreSuits(t *testing.T) {
	a, err := Evaluate(cards("Ah", "Kd", "9s", "7c", "5h"))
	require.NoError(t, err)
	b, err := Evaluate(cards("As", "Kc", "9d", "7h", "5d"))
	require.NoError(t, err)
	assert.True(t, a.Ties(b))
	assert.False(t, a.Beats(b))
}

func TestEvaluateCardCount(t *testing.T) {
	_, err := Evaluate(cards("Ah", "Kd", "9s", "7c"))
	require.Error(t, err)
	_, err = Evaluate(cards("Ah", "Kd", "9s", "7c", "5h", "3d", "2c", "2d"))
	require.Error(t, err)
}

// TestEvaluateAgainstOracle replays random boards through the
// chehsunliu/poker lookup-table evaluator. Its rank classes run 1
// (straight flush) to 9 (high card), mirroring ours, and lower rank
// values win.
func TestEvaluateAgainstOracle(t *testing.T) {
	rnd := rand.New(rand.NewSource(20240817))
	for trial := 0; trial < 1500; trial++ {
		deck := NewDeck()
		deck.Shuffle(rnd.Shuffle)
		board := deck.Deal(5)
		holeA := deck.Deal(2)
		holeB := deck.Deal(2)

		sevenA := append(append([]Card(nil), holeA...), board...)
		sevenB := append(append([]Card(nil), holeB...), board...)
		mineA, err := Evaluate(sevenA)
		require.NoError(t, err)
		mineB, err := Evaluate(sevenB)
		require.NoError(t, err)

		oracleA := oracle.Evaluate(toOracle(sevenA))
		oracleB := oracle.Evaluate(toOracle(sevenB))

		assert.Equal(t, 10-int32(mineA.Category), oracle.RankClass(oracleA),
			"category mismatch for %v (got %s)", sevenA, mineA.Name)
		switch {
		case oracleA < oracleB:
			assert.True(t, mineA.Beats(mineB), "%v should beat %v", sevenA, sevenB)
		case oracleB < oracleA:
			assert.True(t, mineB.Beats(mineA), "%v should beat %v", sevenB, sevenA)
		default:
			assert.True(t, mineA.Ties(mineB), "%v should tie %v", sevenA, sevenB)
		}
	}
}

func toOracle(cs []Card) []oracle.Card {
	out := make([]oracle.Card, len(cs))
	for i, c := range cs {
		out[i] = oracle.NewCard(c.String())
	}
	return out
}
