// Package game tracks a three-seat Texas Hold'em sit-and-go from the hero's
// point of view.
//
// The main type is Round, which keeps the books for a single hand: blinds,
// the per-street action log, each player's bets and stack, the board, and
// the showdown. Actions are reported as they are observed at the table,
// so Round does not enforce turn order or bet sizing.
//
// # Basic Usage
//
//	g := game.NewGame(5, 2)
//	g.Init([]string{"hero", "left", "right"}, []int{500, 500, 500})
//	r, _ := g.NewRound(game.Blinds{Small: 10, Big: 20}, hand, 3)
//	r.Check(1)
//	r.Bet(2, 20)
//	r.Fold(3)
//	r.Call(1, 20)
//	if r.Ended() {
//	    winners, _ := r.Winners()
//	}
//
// # Deterministic Testing
//
// Action timings come from a quartz.Clock. Tests inject a mock:
//
//	clock := quartz.NewMock(t)
//	g := game.NewGame(5, 2, game.WithClock(clock))
//
// # Architecture
//
// Game owns the seat array. Each Round borrows it and writes stack changes
// through as chips move; PlayerStatus is the round-local ledger for a seat.
// The pot is settled in layers by contender totals, so a short all-in can
// only win what it covered.
package game
