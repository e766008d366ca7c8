package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/gameid"
)

// Option configures a Game, or a Round created on its own.
type Option func(*options)

type options struct {
	clock  quartz.Clock
	logger *log.Logger
	id     string
}

func newOptions(opts []Option) *options {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	return cfg
}

// WithClock sets the clock used to time actions.
func WithClock(clock quartz.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger for game lifecycle messages. Rounds never log.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithID sets the game ID instead of generating one.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// Game is a sit-and-go as seen from the hero's seat: three players, a
// sequence of rounds, and a prize of buy-in times multiplier for the winner.
type Game struct {
	id         string
	buyIn      int
	multiplier int

	players []Player
	rounds  []*Round
	over    bool
	won     bool

	clock  quartz.Clock
	logger *log.Logger
}

// NewGame creates a game. Call Init to seat the players.
func NewGame(buyIn, multiplier int, opts ...Option) *Game {
	cfg := newOptions(opts)
	id := cfg.id
	if id == "" {
		id = gameid.Generate()
	}
	return &Game{
		id:         id,
		buyIn:      buyIn,
		multiplier: multiplier,
		clock:      cfg.clock,
		logger:     cfg.logger,
	}
}

// Init seats the players with their starting stacks. The first name is
// the hero. Calling Init again starts the game over.
func (g *Game) Init(names []string, stacks []int) error {
	if len(names) != NumSeats || len(stacks) != NumSeats {
		return fmt.Errorf("game needs %d names and stacks, got %d and %d", NumSeats, len(names), len(stacks))
	}
	players := make([]Player, NumSeats)
	for i := range players {
		if stacks[i] <= 0 {
			return fmt.Errorf("starting stack for %s must be positive, got %d", names[i], stacks[i])
		}
		players[i] = Player{Name: names[i], Stack: stacks[i]}
	}

	g.players = players
	g.rounds = nil
	g.over = false
	g.won = false
	g.logger.Info("Game initialized", "id", g.id, "players", names, "buy_in", g.buyIn)
	return nil
}

// NewRound starts the next round. The previous round must have ended.
func (g *Game) NewRound(blinds Blinds, hand deck.Hand, dealer int) (*Round, error) {
	if g.over {
		return nil, ErrGameOver
	}
	if g.players == nil {
		return nil, fmt.Errorf("game %s has no players, call Init first", g.id)
	}
	if n := len(g.rounds); n > 0 && !g.rounds[n-1].Ended() {
		return nil, ErrRoundNotEnded
	}

	r, err := NewRound(g.players, blinds, hand, dealer, WithClock(g.clock))
	if err != nil {
		return nil, err
	}
	r.onEnd = g.roundEnded
	g.rounds = append(g.rounds, r)

	g.logger.Info("Round started",
		"round", len(g.rounds),
		"dealer", g.players[dealer-1].Name,
		"blinds", fmt.Sprintf("%d/%d", blinds.Small, blinds.Big),
		"hand", hand.String())
	return r, nil
}

func (g *Game) roundEnded(r *Round) {
	g.logger.Info("Round ended",
		"round", len(g.rounds),
		"winner", r.Winner(),
		"pot", r.Pot(),
		"won", r.Won())

	remaining := 0
	for i := range g.players {
		p := &g.players[i]
		if !p.Eliminated && p.Stack <= 0 {
			p.Eliminated = true
			g.logger.Info("Player eliminated", "player", p.Name, "round", len(g.rounds))
		}
		if !p.Eliminated {
			remaining++
		}
	}

	if g.players[HeroSeat-1].Eliminated || remaining <= 1 {
		g.finish()
	}
}

// End stops the game, for instance when the driver sees the table close.
func (g *Game) End() {
	if g.over {
		return
	}
	g.finish()
}

func (g *Game) finish() {
	remaining := 0
	for _, p := range g.players {
		if !p.Eliminated {
			remaining++
		}
	}
	g.over = true
	g.won = len(g.players) > 0 && !g.players[HeroSeat-1].Eliminated && remaining == 1
	g.logger.Info("Game over", "id", g.id, "won", g.won, "prize", g.Prize())
}

func (g *Game) ID() string      { return g.id }
func (g *Game) BuyIn() int      { return g.buyIn }
func (g *Game) Multiplier() int { return g.multiplier }
func (g *Game) IsOver() bool    { return g.over }
func (g *Game) Won() bool       { return g.won }

// Prize returns the buy-in times the multiplier if the hero won, else 0.
func (g *Game) Prize() int {
	if !g.won {
		return 0
	}
	return g.buyIn * g.multiplier
}

// Players returns a copy of the seated players.
func (g *Game) Players() []Player {
	return append([]Player(nil), g.players...)
}

// Rounds returns every round played so far, oldest first.
func (g *Game) Rounds() []*Round {
	return append([]*Round(nil), g.rounds...)
}

// CurrentRound returns the most recent round.
func (g *Game) CurrentRound() (*Round, error) {
	if len(g.rounds) == 0 {
		return nil, ErrNoRound
	}
	return g.rounds[len(g.rounds)-1], nil
}

// Round returns round n, counting from 1.
func (g *Game) Round(n int) (*Round, error) {
	if n < 1 || n > len(g.rounds) {
		return nil, fmt.Errorf("round %d: %w", n, ErrNoRound)
	}
	return g.rounds[n-1], nil
}
