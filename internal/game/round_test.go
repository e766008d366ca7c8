package game

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtracker/internal/deck"
)

func seatPlayers(stacks ...int) []Player {
	names := []string{"hero", "left", "right"}
	players := make([]Player, NumSeats)
	for i := range players {
		players[i] = Player{Name: names[i], Stack: stacks[i]}
	}
	return players
}

func mustRound(t *testing.T, players []Player, blinds Blinds, hand string, dealer int, opts ...Option) *Round {
	t.Helper()
	var h deck.Hand
	if hand != "" {
		h = deck.MustParseHand(hand)
	}
	r, err := NewRound(players, blinds, h, dealer, opts...)
	require.NoError(t, err)
	return r
}

func checkDown(t *testing.T, r *Round, seats ...int) {
	t.Helper()
	for _, seat := range seats {
		require.NoError(t, r.Check(seat))
	}
}

func TestRoundBettingScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	players := seatPlayers(1500, 1500, 1500)
	r := mustRound(t, players, Blinds{Small: 50, Big: 100}, "AH KD", 3, WithClock(clock))

	sb, _ := r.Status(1)
	bb, _ := r.Status(2)
	dealer, _ := r.Status(3)
	assert.Equal(t, SmallBlind, sb.Position)
	assert.Equal(t, BigBlind, bb.Position)
	assert.Equal(t, Dealer, dealer.Position)
	assert.Equal(t, 150, r.Pot())

	step := func(f func() error) {
		t.Helper()
		clock.Advance(2 * time.Second).MustWait(ctx)
		require.NoError(t, f())
	}

	step(func() error { return r.Check(1) })
	step(func() error { return r.Bet(2, 100) })
	step(func() error { return r.Fold(3) })
	step(func() error { return r.Call(1, 100) })
	assert.Equal(t, Flop, r.Street())
	assert.Equal(t, 200, r.Pot())

	require.NoError(t, r.SetFlop(
		deck.NewCard(deck.Two, deck.Spades),
		deck.NewCard(deck.Seven, deck.Diamonds),
		deck.NewCard(deck.Nine, deck.Clubs),
	))

	step(func() error { return r.Check(1) })
	step(func() error { return r.Bet(2, 200) })
	step(func() error { return r.Bet(1, 600) })
	step(func() error { return r.Fold(2) })

	require.True(t, r.Ended())
	assert.Equal(t, 1000, r.Pot())
	assert.True(t, r.Won())
	assert.Equal(t, "hero", r.Winner())

	winners, err := r.Winners()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, winners)

	assert.Equal(t, 1800, players[0].Stack)
	assert.Equal(t, 1200, players[1].Stack)
	assert.Equal(t, 1500, players[2].Stack)

	preflop := r.Actions(Preflop)
	require.Len(t, preflop, 6)
	assert.Equal(t, RoundAction{Kind: PaySmallBlind, Player: 1, Amount: 50}, preflop[0])
	assert.Equal(t, RoundAction{Kind: PayBigBlind, Player: 2, Amount: 100}, preflop[1])
	assert.Equal(t, RoundAction{Kind: Check, Player: 1, Elapsed: 2 * time.Second}, preflop[2])
	assert.Equal(t, RoundAction{Kind: Call, Player: 1, Elapsed: 2 * time.Second, Amount: 100}, preflop[5])

	flop := r.Actions(Flop)
	require.Len(t, flop, 4)
	assert.Equal(t, RoundAction{Kind: Bet, Player: 1, Elapsed: 2 * time.Second, Amount: 600}, flop[2])
	assert.Empty(t, r.Actions(Turn))

	res, err := r.Result()
	require.NoError(t, err)
	assert.False(t, res.Showdown)
	assert.Contains(t, res.Payouts, Payout{Seat: 1, Won: 600, Refund: 400})
}

func TestRoundActionsAfterEnd(t *testing.T) {
	t.Parallel()

	r := mustRound(t, seatPlayers(500, 500, 500), Blinds{Small: 10, Big: 20}, "", 1)
	require.NoError(t, r.Fold(1))
	require.NoError(t, r.Fold(2))
	require.True(t, r.Ended())
	assert.Equal(t, "right", r.Winner())

	assert.ErrorIs(t, r.Check(3), ErrRoundEnded)
	assert.ErrorIs(t, r.EndStreet(), ErrRoundEnded)
	_, err := r.Showdown()
	assert.ErrorIs(t, err, ErrNotShowdown)
}

func TestRoundIllegalActions(t *testing.T) {
	t.Parallel()

	r := mustRound(t, seatPlayers(500, 500, 100), Blinds{Small: 10, Big: 20}, "", 1)

	var unknown UnknownPlayerError
	require.True(t, errors.As(r.Check(4), &unknown))
	assert.Equal(t, 4, unknown.Player)
	require.True(t, errors.As(r.Check(0), &unknown))

	require.NoError(t, r.AllIn(3))
	var illegal IllegalActionError
	require.True(t, errors.As(r.Call(3, 200), &illegal))
	assert.Equal(t, "player is all-in", illegal.Reason)

	require.NoError(t, r.Fold(1))
	require.True(t, errors.As(r.Check(1), &illegal))
	assert.Equal(t, Check, illegal.Action)
	assert.Contains(t, illegal.Error(), "player_1")

	require.True(t, errors.As(r.Bet(2, 0), &illegal))
	require.True(t, errors.As(r.RaiseTo(2, 5), &illegal), "below the blind already posted")
	require.True(t, errors.As(r.Apply(2, PayBigBlind, 20), &illegal))

	_, err := r.Winners()
	assert.ErrorIs(t, err, ErrRoundNotEnded)
}

func TestRoundSingleCheckDoesNotCloseStreet(t *testing.T) {
	t.Parallel()

	r := mustRound(t, seatPlayers(500, 500, 500), Blinds{Small: 10, Big: 20}, "", 3)
	require.NoError(t, r.Call(3, 20))
	require.NoError(t, r.Call(1, 20))
	assert.Equal(t, Preflop, r.Street(), "big blind still has the option")
	require.NoError(t, r.Check(2))
	assert.Equal(t, Flop, r.Street())

	require.NoError(t, r.Check(1))
	assert.Equal(t, Flop, r.Street())
	checkDown(t, r, 2, 3)
	assert.Equal(t, Turn, r.Street())
}

func TestRoundShowdown(t *testing.T) {
	t.Parallel()

	players := seatPlayers(500, 500, 500)
	r := mustRound(t, players, Blinds{Small: 10, Big: 20}, "AS AD", 3)
	require.NoError(t, r.Call(3, 0))
	require.NoError(t, r.Call(1, 0))
	require.NoError(t, r.Check(2))

	require.NoError(t, r.SetFlop(
		deck.NewCard(deck.Two, deck.Clubs),
		deck.NewCard(deck.Seven, deck.Diamonds),
		deck.NewCard(deck.Nine, deck.Hearts),
	))
	checkDown(t, r, 1, 2, 3)
	require.NoError(t, r.SetTurn(deck.NewCard(deck.Four, deck.Spades)))
	checkDown(t, r, 1, 2, 3)
	require.NoError(t, r.SetRiver(deck.NewCard(deck.Jack, deck.Clubs)))
	checkDown(t, r, 1, 2, 3)

	require.Equal(t, Showdown, r.Street())
	require.False(t, r.Ended(), "opponents have not shown")
	assert.ErrorIs(t, r.Check(1), ErrRoundEnded)

	require.NoError(t, r.RevealHand(2, deck.MustParseHand("KS KD")))
	require.NoError(t, r.RevealHand(3, deck.MustParseHand("QS QD")))
	require.True(t, r.Ended())

	res, err := r.Showdown()
	require.NoError(t, err)
	assert.True(t, res.Showdown)
	assert.Equal(t, []int{1}, res.Winners)
	assert.Equal(t, [][]int{{1}, {2}, {3}}, res.Ranking)
	assert.Equal(t, 540, players[0].Stack)

	again, err := r.Showdown()
	require.NoError(t, err)
	assert.Equal(t, res, again)
	assert.Equal(t, 540, players[0].Stack, "showdown pays once")
}

func TestRoundShowdownWithHiddenHands(t *testing.T) {
	t.Parallel()

	players := seatPlayers(500, 500, 500)
	r := mustRound(t, players, Blinds{Small: 10, Big: 20}, "", 3)
	require.NoError(t, r.Fold(3))
	require.NoError(t, r.Call(1, 20))
	require.NoError(t, r.Check(2))
	for range 3 {
		checkDown(t, r, 1, 2)
	}
	require.Equal(t, Showdown, r.Street())

	res, err := r.Showdown()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}}, res.Ranking, "nobody showed, the pot is split")
	assert.Equal(t, 500, players[0].Stack)
	assert.Equal(t, 500, players[1].Stack)
}

func TestRoundSplitPotOddChip(t *testing.T) {
	t.Parallel()

	players := seatPlayers(500, 500, 500)
	r := mustRound(t, players, Blinds{Small: 25, Big: 50}, "7S 8S", 3)
	require.NoError(t, r.Call(3, 50))
	require.NoError(t, r.Fold(1))
	require.NoError(t, r.Check(2))

	require.NoError(t, r.SetFlop(
		deck.NewCard(deck.Ace, deck.Spades),
		deck.NewCard(deck.King, deck.Spades),
		deck.NewCard(deck.Queen, deck.Diamonds),
	))
	checkDown(t, r, 2, 3)
	require.NoError(t, r.SetTurn(deck.NewCard(deck.Jack, deck.Clubs)))
	checkDown(t, r, 2, 3)
	require.NoError(t, r.SetRiver(deck.NewCard(deck.Ten, deck.Hearts)))
	checkDown(t, r, 2, 3)

	require.NoError(t, r.RevealHand(2, deck.MustParseHand("2C 3D")))
	require.NoError(t, r.RevealHand(3, deck.MustParseHand("4H 5C")))
	require.True(t, r.Ended())

	winners, err := r.Winners()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, winners)
	assert.Equal(t, 125, r.Pot())
	assert.Equal(t, 475, players[0].Stack)
	assert.Equal(t, 513, players[1].Stack, "odd chip goes to the first seat after the dealer")
	assert.Equal(t, 512, players[2].Stack)
}

func TestRoundSidePot(t *testing.T) {
	t.Parallel()

	players := seatPlayers(200, 1000, 1000)
	r := mustRound(t, players, Blinds{Small: 50, Big: 100}, "AS AD", 3)
	require.NoError(t, r.RaiseTo(3, 400))
	require.NoError(t, r.AllIn(1))
	require.NoError(t, r.Call(2, 0))
	require.Equal(t, Flop, r.Street())

	hero, err := r.Status(1)
	require.NoError(t, err)
	assert.True(t, hero.IsAllIn)
	assert.Equal(t, 0, hero.Remaining())

	require.NoError(t, r.SetFlop(
		deck.NewCard(deck.Two, deck.Clubs),
		deck.NewCard(deck.Seven, deck.Diamonds),
		deck.NewCard(deck.Nine, deck.Hearts),
	))
	checkDown(t, r, 2, 3)
	checkDown(t, r, 2, 3)
	checkDown(t, r, 2, 3)
	require.Equal(t, Showdown, r.Street())

	require.NoError(t, r.RevealHand(2, deck.MustParseHand("KS KD")))
	require.False(t, r.Ended())
	require.NoError(t, r.RevealHand(3, deck.MustParseHand("QS QD")))
	require.True(t, r.Ended())

	winners, err := r.Winners()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, winners)
	assert.Equal(t, 600, players[0].Stack)
	assert.Equal(t, 1000, players[1].Stack)
	assert.Equal(t, 600, players[2].Stack)

	hero, err = r.Status(1)
	require.NoError(t, err)
	assert.Equal(t, 600, hero.MaxWinnable)
}

func TestRoundAllInRunout(t *testing.T) {
	t.Parallel()

	players := seatPlayers(300, 300, 300)
	r := mustRound(t, players, Blinds{Small: 10, Big: 20}, "AS AD", 3)
	require.NoError(t, r.AllIn(3))
	require.NoError(t, r.AllIn(1))
	require.NoError(t, r.AllIn(2))
	require.Equal(t, Flop, r.Street())

	require.NoError(t, r.RevealHand(2, deck.MustParseHand("KS KD")))
	require.NoError(t, r.RevealHand(3, deck.MustParseHand("QS QD")))
	require.NoError(t, r.SetFlop(
		deck.NewCard(deck.Two, deck.Clubs),
		deck.NewCard(deck.Seven, deck.Diamonds),
		deck.NewCard(deck.Nine, deck.Hearts),
	))
	require.NoError(t, r.EndStreet())
	require.NoError(t, r.SetTurn(deck.NewCard(deck.Four, deck.Spades)))
	require.NoError(t, r.EndStreet())
	require.NoError(t, r.SetRiver(deck.NewCard(deck.Jack, deck.Clubs)))
	require.NoError(t, r.EndStreet())

	require.True(t, r.Ended(), "all hands known at showdown")
	assert.Equal(t, 900, players[0].Stack)
	assert.Equal(t, 0, players[1].Stack)
	assert.Equal(t, 0, players[2].Stack)
}

func TestRoundRejectsDuplicateCards(t *testing.T) {
	t.Parallel()

	r := mustRound(t, seatPlayers(500, 500, 500), Blinds{Small: 10, Big: 20}, "AS AD", 3)
	err := r.SetFlop(
		deck.NewCard(deck.Ace, deck.Spades),
		deck.NewCard(deck.Seven, deck.Diamonds),
		deck.NewCard(deck.Nine, deck.Hearts),
	)
	var dup deck.DuplicateCardError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 0, r.Board().Count(), "board is restored")

	err = r.RevealHand(2, deck.MustParseHand("AD KD"))
	require.True(t, errors.As(err, &dup))
	status, _ := r.Status(2)
	assert.False(t, status.Hand.IsSet())
}

func TestRoundShortBlind(t *testing.T) {
	t.Parallel()

	players := seatPlayers(500, 60, 500)
	r := mustRound(t, players, Blinds{Small: 50, Big: 100}, "", 3)
	bb, err := r.Status(2)
	require.NoError(t, err)
	assert.Equal(t, 60, bb.TotalBet)
	assert.True(t, bb.IsAllIn)
	assert.Equal(t, 0, players[1].Stack)
}

func TestRoundHeadsUpBlinds(t *testing.T) {
	t.Parallel()

	players := seatPlayers(500, 500, 0)
	players[2].Eliminated = true
	r := mustRound(t, players, Blinds{Small: 10, Big: 20}, "", 1)

	dealer, _ := r.Status(1)
	other, _ := r.Status(2)
	out, _ := r.Status(3)
	assert.Equal(t, 10, dealer.TotalBet, "dealer posts the small blind heads-up")
	assert.Equal(t, 20, other.TotalBet)
	assert.False(t, out.InRound)

	_, err := NewRound(players, Blinds{Small: 10, Big: 20}, deck.Hand{}, 3)
	assert.Error(t, err, "eliminated dealer")
}

func TestNewRoundValidation(t *testing.T) {
	t.Parallel()

	_, err := NewRound(seatPlayers(500, 500, 500)[:2], Blinds{Small: 10, Big: 20}, deck.Hand{}, 1)
	assert.Error(t, err)

	_, err = NewRound(seatPlayers(500, 500, 500), Blinds{Small: 10, Big: 20}, deck.Hand{}, 4)
	var unknown UnknownPlayerError
	assert.True(t, errors.As(err, &unknown))

	_, err = NewRound(seatPlayers(500, 500, 500), Blinds{Small: 30, Big: 20}, deck.Hand{}, 1)
	assert.Error(t, err)
}

func TestRoundJSON(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	r := mustRound(t, seatPlayers(500, 500, 500), Blinds{Small: 10, Big: 20}, "AH KD", 3, WithClock(clock))
	clock.Advance(1500 * time.Millisecond).MustWait(context.Background())
	require.NoError(t, r.Check(1))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"actions": {
			"pre_flop": [
				{"action": "PaySmallBlind", "player": "player_1", "elapsed_time": 0, "amount": 10},
				{"action": "PayBigBlind", "player": "player_2", "elapsed_time": 0, "amount": 20},
				{"action": "Check", "player": "player_1", "elapsed_time": 1.5}
			],
			"flop": [],
			"turn": [],
			"river": []
		},
		"board": [],
		"hand": [
			{"shortName": "AH", "rank": "Ace", "suit": "Heart"},
			{"shortName": "KD", "rank": "King", "suit": "Diamond"}
		],
		"blinds": {"small": 10, "big": 20},
		"pot": 30,
		"won": false,
		"winner": ""
	}`, string(data))

	detailed, err := json.Marshal(r.Detailed())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(detailed, &decoded))
	assert.Equal(t, "preflop", decoded["street"])
	assert.Equal(t, "High Card", decoded["hand_rank"])
	assert.Len(t, decoded["players"], NumSeats)
	assert.NotContains(t, decoded, "result")
}

func TestRoundActionJSONRoundTrip(t *testing.T) {
	t.Parallel()

	actions := []RoundAction{
		{Kind: Raise, Player: 2, Elapsed: 3 * time.Second, Amount: 400},
		{Kind: Fold, Player: 3, Elapsed: 250 * time.Millisecond},
		{Kind: PayBigBlind, Player: 1, Amount: 20},
	}
	for _, a := range actions {
		data, err := json.Marshal(a)
		require.NoError(t, err)
		var decoded RoundAction
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, a, decoded)
	}

	data, err := json.Marshal(actions[1])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "amount")
}
