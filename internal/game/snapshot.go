package game

import (
	"encoding/json"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/evaluator"
)

// StreetActions is the action log keyed the way snapshots expect.
type StreetActions struct {
	PreFlop []RoundAction `json:"pre_flop"`
	Flop    []RoundAction `json:"flop"`
	Turn    []RoundAction `json:"turn"`
	River   []RoundAction `json:"river"`
}

func (r *Round) streetActions() StreetActions {
	nonNil := func(actions []RoundAction) []RoundAction {
		if actions == nil {
			return []RoundAction{}
		}
		return append([]RoundAction(nil), actions...)
	}
	return StreetActions{
		PreFlop: nonNil(r.actions[Preflop]),
		Flop:    nonNil(r.actions[Flop]),
		Turn:    nonNil(r.actions[Turn]),
		River:   nonNil(r.actions[River]),
	}
}

type roundJSON struct {
	Actions StreetActions    `json:"actions"`
	Board   *evaluator.Board `json:"board"`
	Hand    deck.Hand        `json:"hand"`
	Blinds  Blinds           `json:"blinds"`
	Pot     int              `json:"pot"`
	Won     bool             `json:"won"`
	Winner  string           `json:"winner"`
}

// MarshalJSON encodes the round snapshot consumed by the transport layer.
func (r *Round) MarshalJSON() ([]byte, error) {
	return json.Marshal(roundJSON{
		Actions: r.streetActions(),
		Board:   r.Board(),
		Hand:    r.Hand(),
		Blinds:  r.blinds,
		Pot:     r.Pot(),
		Won:     r.Won(),
		Winner:  r.Winner(),
	})
}

// DetailedRound is the detailed snapshot of a round, adding board and hand
// properties and the per-player ledgers.
type DetailedRound struct {
	Actions  StreetActions          `json:"actions"`
	Board    evaluator.DetailedBoard `json:"board"`
	Hand     deck.DetailedHand       `json:"hand"`
	HandRank string                  `json:"hand_rank,omitempty"`
	Blinds   Blinds                  `json:"blinds"`
	Pot      int                     `json:"pot"`
	Won      bool                    `json:"won"`
	Winner   string                  `json:"winner"`
	Street   string                  `json:"street"`
	Dealer   int                     `json:"dealer"`
	ToAct    int                     `json:"to_act"`
	Players  []PlayerStatus          `json:"players"`
	Ended    bool                    `json:"ended"`
	Result   *Result                 `json:"result,omitempty"`
}

// Detailed returns the detailed snapshot.
func (r *Round) Detailed() DetailedRound {
	d := DetailedRound{
		Actions: r.streetActions(),
		Board:   r.board.Detailed(),
		Hand:    r.Hand().Detailed(),
		Blinds:  r.blinds,
		Pot:     r.Pot(),
		Won:     r.Won(),
		Winner:  r.Winner(),
		Street:  r.street.String(),
		Dealer:  r.dealer,
		ToAct:   r.toAct,
		Players: r.Statuses(),
		Ended:   r.ended,
	}
	if res, err := r.HeroRank(); err == nil {
		d.HandRank = res.Rank.String()
	}
	if r.ended {
		res := r.result.clone()
		d.Result = &res
	}
	return d
}

type gameJSON struct {
	ID         string   `json:"id"`
	BuyIn      int      `json:"buy_in"`
	Multiplier int      `json:"multiplier"`
	Players    []Player `json:"players"`
	Rounds     []*Round `json:"rounds"`
	Over       bool     `json:"over"`
	Won        bool     `json:"won"`
}

// MarshalJSON encodes the game snapshot.
func (g *Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameJSON{
		ID:         g.id,
		BuyIn:      g.buyIn,
		Multiplier: g.multiplier,
		Players:    nonNilPlayers(g.players),
		Rounds:     append([]*Round{}, g.rounds...),
		Over:       g.over,
		Won:        g.won,
	})
}

func nonNilPlayers(players []Player) []Player {
	if players == nil {
		return []Player{}
	}
	return append([]Player(nil), players...)
}

// DetailedGame is the detailed snapshot of a game.
type DetailedGame struct {
	ID         string          `json:"id"`
	BuyIn      int             `json:"buy_in"`
	Multiplier int             `json:"multiplier"`
	Players    []Player        `json:"players"`
	Rounds     []DetailedRound `json:"rounds"`
	Over       bool            `json:"over"`
	Won        bool            `json:"won"`
	Prize      int             `json:"prize"`
}

// Detailed returns the detailed snapshot.
func (g *Game) Detailed() DetailedGame {
	d := DetailedGame{
		ID:         g.id,
		BuyIn:      g.buyIn,
		Multiplier: g.multiplier,
		Players:    nonNilPlayers(g.players),
		Rounds:     make([]DetailedRound, 0, len(g.rounds)),
		Over:       g.over,
		Won:        g.won,
		Prize:      g.Prize(),
	}
	for _, r := range g.rounds {
		d.Rounds = append(d.Rounds, r.Detailed())
	}
	return d
}
