package poker

import (
	"fmt"

	"github.com/clawhouse/platform/internal/domain"
)

// Rank of a card, 2 through 14 with ace high. Aces play low only inside
// the wheel straight.
type Rank int

const (
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

var rankLetters = map[Rank]string{
	RankTwo: "2", RankThree: "3", RankFour: "4", RankFive: "5",
	RankSix: "6", RankSeven: "7", RankEight: "8", RankNine: "9",
	RankTen: "T", RankJack: "J", RankQueen: "Q", RankKing: "K", RankAce: "A",
}

var rankNames = map[Rank]string{
	RankTwo: "Two", RankThree: "Three", RankFour: "Four", RankFive: "Five",
	RankSix: "Six", RankSeven: "Seven", RankEight: "Eight", RankNine: "Nine",
	RankTen: "Ten", RankJack: "Jack", RankQueen: "Queen", RankKing: "King",
	RankAce: "Ace",
}

func (r Rank) String() string { return rankLetters[r] }

// Name returns the spelled-out rank, used in hand names.
func (r Rank) Name() string { return rankNames[r] }

func (r Rank) MarshalText() ([]byte, error) {
	s, ok := rankLetters[r]
	if !ok {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(s), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	for rank, letter := range rankLetters {
		if letter == string(b) {
			*r = rank
			return nil
		}
	}
	return fmt.Errorf("invalid rank %q", string(b))
}

// Suit of a card: h, d, c or s on the wire.
type Suit string

const (
	SuitHearts   Suit = "h"
	SuitDiamonds Suit = "d"
	SuitClubs    Suit = "c"
	SuitSpades   Suit = "s"
)

var suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Card is one of the 52. Encodes as {"rank":"A","suit":"h"}.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string { return c.Rank.String() + string(c.Suit) }

// ParseCard reads the two-character form, e.g. "Ah" or "Tc".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, domain.ErrValidation("card must be rank+suit, e.g. Ah")
	}
	var r Rank
	if err := r.UnmarshalText([]byte(s[:1])); err != nil {
		return Card{}, domain.ErrValidation("unknown card rank: " + s[:1])
	}
	suit := Suit(s[1:])
	switch suit {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
	default:
		return Card{}, domain.ErrValidation("unknown card suit: " + s[1:])
	}
	return Card{Rank: r, Suit: suit}, nil
}

// MustCard is ParseCard for literals in tests and fixtures.
func MustCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}
