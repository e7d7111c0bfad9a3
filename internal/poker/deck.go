package poker

import "github.com/clawhouse/platform/internal/rng"

// Deck is an ordered sequence of unseen cards dealt from the head.
type Deck struct {
	cards []Card
}

// NewDeck returns the 52 cards in suit-major order. Shuffle before play.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, s := range suits {
		for r := RankTwo; r <= RankAce; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle permutes the deck with the given swap-based shuffler, falling
// back to the crypto shuffler when nil.
func (d *Deck) Shuffle(shuffle func(n int, swap func(i, j int))) {
	if shuffle == nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top k cards.
func (d *Deck) Deal(k int) []Card {
	if k > len(d.cards) {
		panic("poker: dealing from an exhausted deck")
	}
	out := make([]Card, k)
	copy(out, d.cards[:k])
	d.cards = d.cards[k:]
	return out
}

// Burn discards the top card unseen.
func (d *Deck) Burn() {
	if len(d.cards) == 0 {
		panic("poker: burning from an exhausted deck")
	}
	d.cards = d.cards[1:]
}

// Remaining reports how many cards are left.
func (d *Deck) Remaining() int { return len(d.cards) }
