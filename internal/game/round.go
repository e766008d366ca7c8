package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/evaluator"
)

// Round is one hand at a three-seat table, driven by observed actions.
//
// Action methods do not enforce turn order or bet sizing: the driver
// reports what happened at the table and the round keeps the books. They
// do reject actions from players who have folded or are all-in.
type Round struct {
	clock quartz.Clock

	// players is the Game's seat array, indexed by seat-1. Stacks are
	// written through to it as chips move.
	players []Player
	status  [NumSeats]PlayerStatus

	board   *evaluator.Board
	blinds  Blinds
	dealer  int
	street  Street
	actions [len(bettingStreets)][]RoundAction

	pot            int // chips committed on completed streets
	streetPot      int
	highestBet     int
	streetActions  int
	lastBetOrRaise *RoundAction
	toAct          int

	startedAt    time.Time
	lastActionAt time.Time

	ended  bool
	result *Result
	onEnd  func(*Round)
}

// NewRound seats the players around the dealer, posts the blinds and
// records the hero's hole cards. Eliminated players sit out. The players
// slice is borrowed: stacks are updated in place as the round plays out.
func NewRound(players []Player, blinds Blinds, hand deck.Hand, dealer int, opts ...Option) (*Round, error) {
	if len(players) != NumSeats {
		return nil, fmt.Errorf("round needs %d players, got %d", NumSeats, len(players))
	}
	if dealer < 1 || dealer > NumSeats {
		return nil, UnknownPlayerError{Player: dealer}
	}
	if blinds.Small < 0 || blinds.Big < blinds.Small {
		return nil, fmt.Errorf("invalid blinds %d/%d", blinds.Small, blinds.Big)
	}

	cfg := newOptions(opts)
	now := cfg.clock.Now()
	r := &Round{
		clock:        cfg.clock,
		players:      players,
		dealer:       dealer,
		blinds:       blinds,
		street:       Preflop,
		startedAt:    now,
		lastActionAt: now,
	}
	r.board, _ = evaluator.NewBoard()

	var seated []int
	for i := range r.status {
		seat := i + 1
		p := players[i]
		r.status[i] = PlayerStatus{Seat: seat}
		if p.Eliminated || p.Stack <= 0 {
			continue
		}
		r.status[i].InitialStack = p.Stack
		r.status[i].InRound = true
	}
	if !r.status[dealer-1].InRound {
		return nil, fmt.Errorf("dealer %s is eliminated", PlayerKey(dealer))
	}
	for _, seat := range r.seatsFrom(dealer) {
		if r.status[seat-1].InRound {
			seated = append(seated, seat)
		}
	}
	if len(seated) < 2 {
		return nil, fmt.Errorf("round needs at least 2 players with chips, got %d", len(seated))
	}

	r.status[HeroSeat-1].Hand = hand
	r.postBlinds(seated)
	return r, nil
}

// seatsFrom lists every seat starting with the one after from, ending with from.
func (r *Round) seatsFrom(from int) []int {
	seats := make([]int, 0, NumSeats)
	for i := 1; i <= NumSeats; i++ {
		seats = append(seats, (from+i-1)%NumSeats+1)
	}
	return seats
}

// postBlinds assigns positions and collects the blinds. seated starts with
// the first active seat after the dealer and ends with the dealer.
func (r *Round) postBlinds(seated []int) {
	var sb, bb int
	if len(seated) == 2 {
		// Heads-up: dealer posts the small blind
		sb, bb = r.dealer, seated[0]
	} else {
		sb, bb = seated[0], seated[1]
	}

	r.status[r.dealer-1].Position = Dealer
	if sb != r.dealer {
		r.status[sb-1].Position = SmallBlind
	}
	r.status[bb-1].Position = BigBlind

	r.post(sb, PaySmallBlind, r.blinds.Small)
	r.post(bb, PayBigBlind, r.blinds.Big)
	r.toAct = r.nextToAct(bb)
}

// post collects a blind, capped at the player's stack. Blinds do not count
// as the player's action for the street.
func (r *Round) post(seat int, kind ActionKind, amount int) {
	ps := &r.status[seat-1]
	r.commit(ps, amount)
	ps.LastAction = kind
	r.actions[Preflop] = append(r.actions[Preflop], RoundAction{
		Kind:   kind,
		Player: seat,
		Amount: ps.StreetBet,
	})
}

func (r *Round) commit(ps *PlayerStatus, amount int) {
	committed := ps.commit(amount)
	r.streetPot += committed
	r.highestBet = max(r.highestBet, ps.StreetBet)
	r.players[ps.Seat-1].Stack = ps.Remaining()
}

func (r *Round) playerStatus(seat int) (*PlayerStatus, error) {
	if seat < 1 || seat > NumSeats {
		return nil, UnknownPlayerError{Player: seat}
	}
	return &r.status[seat-1], nil
}

// Check records a check.
func (r *Round) Check(player int) error {
	return r.act(player, Check, 0)
}

// Call brings the player's street total to amount. An amount of zero calls
// the highest bet on the street.
func (r *Round) Call(player, amount int) error {
	return r.act(player, Call, amount)
}

// Bet records a bet bringing the player's street total to amount.
func (r *Round) Bet(player, amount int) error {
	return r.act(player, Bet, amount)
}

// RaiseTo records a raise bringing the player's street total to amount.
func (r *Round) RaiseTo(player, amount int) error {
	return r.act(player, Raise, amount)
}

// Fold takes the player out of the round.
func (r *Round) Fold(player int) error {
	return r.act(player, Fold, 0)
}

// AllIn commits the player's remaining stack.
func (r *Round) AllIn(player int) error {
	return r.act(player, AllIn, 0)
}

// Apply records an action by kind. It is the entry point for drivers that
// receive actions as data.
func (r *Round) Apply(player int, kind ActionKind, amount int) error {
	switch kind {
	case Check, Call, Bet, Raise, Fold, AllIn:
		return r.act(player, kind, amount)
	}
	return IllegalActionError{Player: player, Action: kind, Reason: "not a player action"}
}

func (r *Round) act(seat int, kind ActionKind, amount int) error {
	ps, err := r.playerStatus(seat)
	if err != nil {
		return err
	}
	if r.ended || r.street == Showdown {
		return ErrRoundEnded
	}
	if !ps.InRound {
		return IllegalActionError{Player: seat, Action: kind, Reason: "player is not in the round"}
	}
	if ps.IsAllIn {
		return IllegalActionError{Player: seat, Action: kind, Reason: "player is all-in"}
	}

	switch kind {
	case Fold:
		ps.InRound = false
	case Call, Bet, Raise:
		if amount <= 0 {
			if kind != Call {
				return IllegalActionError{Player: seat, Action: kind, Reason: "amount must be positive"}
			}
			amount = r.highestBet
		}
		if amount < ps.StreetBet {
			return IllegalActionError{
				Player: seat,
				Action: kind,
				Reason: fmt.Sprintf("amount %d is below the %d already bet this street", amount, ps.StreetBet),
			}
		}
		r.commit(ps, amount-ps.StreetBet)
	case AllIn:
		r.commit(ps, ps.Remaining())
	}

	now := r.clock.Now()
	action := RoundAction{
		Kind:    kind,
		Player:  seat,
		Elapsed: now.Sub(r.lastActionAt),
	}
	if kind.HasAmount() {
		action.Amount = ps.StreetBet
	}
	r.lastActionAt = now
	r.actions[r.street] = append(r.actions[r.street], action)

	ps.LastAction = kind
	ps.acted = true
	r.streetActions++
	if kind == Bet || kind == Raise || kind == AllIn {
		if ps.StreetBet == r.highestBet && ps.StreetBet > 0 {
			r.lastBetOrRaise = &action
		}
	}
	r.toAct = r.nextToAct(seat)

	r.advance()
	return nil
}

// nextToAct returns the first seat after from that can still act, or 0.
func (r *Round) nextToAct(from int) int {
	for _, seat := range r.seatsFrom(from) {
		if seat != from && r.status[seat-1].CanAct() {
			return seat
		}
	}
	return 0
}

func (r *Round) contesting() int {
	n := 0
	for i := range r.status {
		if r.status[i].InRound {
			n++
		}
	}
	return n
}

// streetOver reports whether every player who can still act has acted on
// this street and matched the highest bet.
func (r *Round) streetOver() bool {
	if r.streetActions == 0 {
		return false
	}
	for i := range r.status {
		ps := &r.status[i]
		if !ps.CanAct() {
			continue
		}
		if !ps.acted || ps.StreetBet != r.highestBet {
			return false
		}
	}
	return true
}

func (r *Round) advance() {
	if r.contesting() <= 1 {
		r.finish(false)
		return
	}
	if r.streetOver() {
		r.endStreet()
	}
}

// EndStreet closes the current street, for instance when the driver sees
// the next board card while all remaining players are all-in.
func (r *Round) EndStreet() error {
	if r.ended || r.street == Showdown {
		return ErrRoundEnded
	}
	r.endStreet()
	return nil
}

func (r *Round) endStreet() {
	r.pot += r.streetPot
	r.streetPot = 0
	r.highestBet = 0
	r.streetActions = 0
	r.lastBetOrRaise = nil
	for i := range r.status {
		r.status[i].StreetBet = 0
		r.status[i].LastAction = NoAction
		r.status[i].acted = false
	}
	r.street++
	r.toAct = r.nextToAct(r.dealer)

	if r.street == Showdown && r.handsKnown() {
		r.finish(true)
	}
}

// handsKnown reports whether every contesting player's hole cards are set.
func (r *Round) handsKnown() bool {
	for i := range r.status {
		if r.status[i].InRound && !r.status[i].Hand.IsSet() {
			return false
		}
	}
	return true
}

// Showdown resolves the round once betting is complete. Hands not revealed
// by then lose to revealed ones. Calling it again returns the same result
// without paying out twice.
func (r *Round) Showdown() (Result, error) {
	if r.street != Showdown {
		return Result{}, ErrNotShowdown
	}
	if r.result == nil {
		r.finish(true)
	}
	return r.result.clone(), nil
}

func (r *Round) finish(showdown bool) {
	r.pot += r.streetPot
	r.streetPot = 0
	r.toAct = 0

	result := r.resolve(showdown)
	for _, p := range result.Payouts {
		ps := &r.status[p.Seat-1]
		r.players[p.Seat-1].Stack = ps.Remaining() + p.Won + p.Refund
	}

	r.result = &result
	r.ended = true
	if r.onEnd != nil {
		r.onEnd(r)
	}
}

// RevealHand records a player's hole cards, typically at showdown.
func (r *Round) RevealHand(player int, hand deck.Hand) error {
	ps, err := r.playerStatus(player)
	if err != nil {
		return err
	}
	if r.ended {
		return ErrRoundEnded
	}

	previous := ps.Hand
	ps.Hand = hand
	if err := r.checkDuplicates(); err != nil {
		ps.Hand = previous
		return err
	}

	if r.street == Showdown && r.handsKnown() {
		r.finish(true)
	}
	return nil
}

// SetFlop reveals the three flop cards.
func (r *Round) SetFlop(first, second, third deck.Card) error {
	return r.setBoard(func(b *evaluator.Board) { b.SetFlop(first, second, third) })
}

// SetTurn reveals the turn card.
func (r *Round) SetTurn(c deck.Card) error {
	return r.setBoard(func(b *evaluator.Board) { b.SetTurn(c) })
}

// SetRiver reveals the river card.
func (r *Round) SetRiver(c deck.Card) error {
	return r.setBoard(func(b *evaluator.Board) { b.SetRiver(c) })
}

func (r *Round) setBoard(set func(*evaluator.Board)) error {
	if r.ended {
		return ErrRoundEnded
	}
	previous := *r.board
	set(r.board)
	if err := r.checkDuplicates(); err != nil {
		*r.board = previous
		return err
	}
	return nil
}

// checkDuplicates fails when a card appears twice across the board and
// the known hole cards.
func (r *Round) checkDuplicates() error {
	seen := make(map[deck.Card]bool, 11)
	cards := r.board.Cards()
	for i := range r.status {
		cards = append(cards, r.status[i].Hand.Cards()...)
	}
	for _, c := range cards {
		if seen[c] {
			return deck.DuplicateCardError{Card: c}
		}
		seen[c] = true
	}
	return nil
}

// Board returns a copy of the community cards.
func (r *Round) Board() *evaluator.Board {
	b := *r.board
	return &b
}

// Hand returns the hero's hole cards.
func (r *Round) Hand() deck.Hand { return r.status[HeroSeat-1].Hand }

func (r *Round) Blinds() Blinds { return r.blinds }
func (r *Round) Dealer() int    { return r.dealer }
func (r *Round) Street() Street { return r.street }
func (r *Round) Ended() bool    { return r.ended }

// StartedAt returns when the round was created, per the round's clock.
func (r *Round) StartedAt() time.Time { return r.startedAt }

// Pot returns every chip committed this round, including the current street.
func (r *Round) Pot() int { return r.pot + r.streetPot }

// HighestBet returns the largest street total on the current street.
func (r *Round) HighestBet() int { return r.highestBet }

// ToAct returns the next seat expected to act, or 0 when nobody can.
func (r *Round) ToAct() int { return r.toAct }

// LastBetOrRaise returns the action that set the current highest bet on
// this street, if any.
func (r *Round) LastBetOrRaise() (RoundAction, bool) {
	if r.lastBetOrRaise == nil || r.lastBetOrRaise.Amount != r.highestBet {
		return RoundAction{}, false
	}
	return *r.lastBetOrRaise, true
}

// Status returns a copy of a player's ledger.
func (r *Round) Status(player int) (PlayerStatus, error) {
	ps, err := r.playerStatus(player)
	if err != nil {
		return PlayerStatus{}, err
	}
	return *ps, nil
}

// Statuses returns a copy of every player's ledger in seat order.
func (r *Round) Statuses() []PlayerStatus {
	return append([]PlayerStatus(nil), r.status[:]...)
}

// Actions returns a copy of the action log for one street.
func (r *Round) Actions(street Street) []RoundAction {
	if street < Preflop || street > River {
		return nil
	}
	return append([]RoundAction(nil), r.actions[street]...)
}

// Result returns the outcome once the round has ended.
func (r *Round) Result() (Result, error) {
	if !r.ended {
		return Result{}, ErrRoundNotEnded
	}
	return r.result.clone(), nil
}

// Winners returns the seats that won chips, best hand first.
func (r *Round) Winners() ([]int, error) {
	res, err := r.Result()
	if err != nil {
		return nil, err
	}
	return res.Winners, nil
}

// Won reports whether the hero won chips in the finished round.
func (r *Round) Won() bool {
	if !r.ended {
		return false
	}
	for _, seat := range r.result.Winners {
		if seat == HeroSeat {
			return true
		}
	}
	return false
}

// Winner returns the name of the best-placed winner, or "" before the
// round ends.
func (r *Round) Winner() string {
	if !r.ended || len(r.result.Winners) == 0 {
		return ""
	}
	return r.players[r.result.Winners[0]-1].Name
}

// Name returns the name of the player in seat, or "" for an unknown seat.
func (r *Round) Name(seat int) string {
	if seat < 1 || seat > len(r.players) {
		return ""
	}
	return r.players[seat-1].Name
}

// HeroRank evaluates the hero's best hand on the current board.
func (r *Round) HeroRank() (evaluator.Result, error) {
	hand := r.Hand()
	if !hand.IsSet() {
		return evaluator.Result{}, errors.New("hero hand is unknown")
	}
	return r.board.Evaluate(hand)
}
