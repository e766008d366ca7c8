// Package tracker serializes access to one tracked game so that drivers
// and the snapshot transport can share it, and pushes a fresh snapshot to
// subscribers after every change.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/evaluator"
	"github.com/lox/holdemtracker/internal/game"
	"github.com/lox/holdemtracker/internal/gameid"
	"github.com/lox/holdemtracker/internal/phh"
)

// ErrNotStarted is returned before Start seats the players.
var ErrNotStarted = errors.New("no game has been started")

// Update is published to subscribers after every change to the game.
type Update struct {
	Event string          `json:"event"`
	Round int             `json:"round"`
	Game  json.RawMessage `json:"game"`
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger. The tracker logs under the "tracker" prefix.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithClock sets the clock handed to every game.
func WithClock(clock quartz.Clock) Option {
	return func(t *Tracker) {
		t.clock = clock
	}
}

// Tracker wraps a game.Game for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	buyIn      int
	multiplier int
	game       *game.Game

	clock  quartz.Clock
	logger *log.Logger

	subs    map[int]chan Update
	nextSub int
}

// New creates a tracker whose games default to the given buy-in and prize
// multiplier.
func New(buyIn, multiplier int, opts ...Option) *Tracker {
	t := &Tracker{
		buyIn:      buyIn,
		multiplier: multiplier,
		subs:       make(map[int]chan Update),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	t.logger = t.logger.WithPrefix("tracker")
	return t
}

// Start begins a new game, replacing any previous one. Zero buy-in or
// multiplier fall back to the tracker defaults.
func (t *Tracker) Start(names []string, stacks []int, buyIn, multiplier int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if buyIn == 0 {
		buyIn = t.buyIn
	}
	if multiplier == 0 {
		multiplier = t.multiplier
	}
	g := game.NewGame(buyIn, multiplier, game.WithClock(t.clock), game.WithLogger(t.logger))
	if err := g.Init(names, stacks); err != nil {
		return err
	}
	t.game = g
	t.publish("start_game")
	return nil
}

// NewRound starts the next round and returns its number, counting from 1.
func (t *Tracker) NewRound(blinds game.Blinds, hand deck.Hand, dealer int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.game == nil {
		return 0, ErrNotStarted
	}
	if _, err := t.game.NewRound(blinds, hand, dealer); err != nil {
		return 0, err
	}
	t.publish("new_round")
	return len(t.game.Rounds()), nil
}

// Act applies a player action to the current round.
func (t *Tracker) Act(player int, kind game.ActionKind, amount int) error {
	return t.withRound("action", func(r *game.Round) error {
		if err := r.Apply(player, kind, amount); err != nil {
			return err
		}
		t.logger.Debug("Action applied",
			"player", r.Name(player),
			"action", kind,
			"amount", amount,
			"street", r.Street(),
			"pot", r.Pot())
		return nil
	})
}

// Deal reveals the next board cards: three for the flop, then one each
// for the turn and the river.
func (t *Tracker) Deal(cards ...deck.Card) error {
	return t.withRound("board", func(r *game.Round) error {
		switch n := r.Board().Count(); {
		case n == 0 && len(cards) == 3:
			return r.SetFlop(cards[0], cards[1], cards[2])
		case n == 3 && len(cards) == 1:
			return r.SetTurn(cards[0])
		case n == 4 && len(cards) == 1:
			return r.SetRiver(cards[0])
		default:
			return fmt.Errorf("cannot deal %d cards onto a board of %d", len(cards), n)
		}
	})
}

// Reveal records a player's hole cards.
func (t *Tracker) Reveal(player int, hand deck.Hand) error {
	return t.withRound("reveal", func(r *game.Round) error {
		return r.RevealHand(player, hand)
	})
}

// EndStreet closes the current street of the current round.
func (t *Tracker) EndStreet() error {
	return t.withRound("end_street", func(r *game.Round) error {
		return r.EndStreet()
	})
}

// Showdown resolves the current round.
func (t *Tracker) Showdown() (game.Result, error) {
	var res game.Result
	err := t.withRound("showdown", func(r *game.Round) error {
		var err error
		res, err = r.Showdown()
		return err
	})
	return res, err
}

// EndGame stops the current game.
func (t *Tracker) EndGame() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.game == nil {
		return ErrNotStarted
	}
	t.game.End()
	t.publish("end_game")
	return nil
}

func (t *Tracker) withRound(event string, fn func(*game.Round) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.game == nil {
		return ErrNotStarted
	}
	r, err := t.game.CurrentRound()
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		return err
	}
	t.publish(event)
	return nil
}

// View calls fn with the game while holding the lock. fn must not keep
// references to the game or its rounds.
func (t *Tracker) View(fn func(*game.Game) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.game == nil {
		return ErrNotStarted
	}
	return fn(t.game)
}

// Snapshot returns the game snapshot JSON.
func (t *Tracker) Snapshot(detailed bool) ([]byte, error) {
	var data []byte
	err := t.View(func(g *game.Game) error {
		var err error
		if detailed {
			data, err = json.Marshal(g.Detailed())
		} else {
			data, err = json.Marshal(g)
		}
		return err
	})
	return data, err
}

// RoundSnapshot returns the snapshot JSON of round n, counting from 1.
func (t *Tracker) RoundSnapshot(n int, detailed bool) ([]byte, error) {
	var data []byte
	err := t.View(func(g *game.Game) error {
		r, err := g.Round(n)
		if err != nil {
			return err
		}
		if detailed {
			data, err = json.Marshal(r.Detailed())
		} else {
			data, err = json.Marshal(r)
		}
		return err
	})
	return data, err
}

// RoundHistory returns the PHH record of finished round n.
func (t *Tracker) RoundHistory(n int) (*phh.HandHistory, error) {
	var hh *phh.HandHistory
	err := t.View(func(g *game.Game) error {
		r, err := g.Round(n)
		if err != nil {
			return err
		}
		hh, err = phh.FromRound(r, phh.Options{
			Table:  "holdemtracker",
			HandID: gameid.RoundID(g.ID(), n),
		})
		return err
	})
	return hh, err
}

// RoundPHH returns the encoded PHH record of finished round n.
func (t *Tracker) RoundPHH(n int) ([]byte, error) {
	hh, err := t.RoundHistory(n)
	if err != nil {
		return nil, err
	}
	return phh.EncodeToBytes(hh)
}

// HeroEquity estimates the hero's share of the current round's pot against
// the opponents still in it. The simulation runs without holding the lock.
func (t *Tracker) HeroEquity(ctx context.Context, samples int, rng *rand.Rand) (evaluator.Equity, error) {
	var req evaluator.EquityRequest
	err := t.View(func(g *game.Game) error {
		r, err := g.CurrentRound()
		if err != nil {
			return err
		}
		req = evaluator.EquityRequest{
			Hand:    r.Hand(),
			Board:   r.Board().Cards(),
			Samples: samples,
		}
		for _, ps := range r.Statuses() {
			if ps.InRound && ps.Seat != game.HeroSeat {
				req.Opponents++
			}
		}
		return nil
	})
	if err != nil {
		return evaluator.Equity{}, err
	}
	return evaluator.EstimateEquity(ctx, req, rng)
}

// Subscribe registers for updates. Updates that do not fit in the buffer
// are dropped for that subscriber. Call the returned function to
// unsubscribe; it closes the channel.
func (t *Tracker) Subscribe(buffer int) (<-chan Update, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan Update, buffer)
	t.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs, id)
			close(ch)
		})
	}
}

// publish sends the current snapshot to every subscriber. Callers hold mu.
func (t *Tracker) publish(event string) {
	if len(t.subs) == 0 {
		return
	}
	data, err := json.Marshal(t.game)
	if err != nil {
		t.logger.Error("Failed to encode snapshot", "event", event, "error", err)
		return
	}
	update := Update{Event: event, Round: len(t.game.Rounds()), Game: data}
	for id, ch := range t.subs {
		select {
		case ch <- update:
		default:
			t.logger.Warn("Subscriber buffer full, dropping update", "subscriber", id, "event", event)
		}
	}
}
