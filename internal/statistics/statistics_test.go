package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/game"
)

func TestStatisticsEmpty(t *testing.T) {
	t.Parallel()

	s := &Statistics{}
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.Percentile(0.5))
	assert.Zero(t, s.VPIP())
	assert.Zero(t, s.PositionMean(game.Dealer))
	assert.NoError(t, s.Validate())
}

func TestStatisticsAdd(t *testing.T) {
	t.Parallel()

	s := &Statistics{}
	s.Add(RoundResult{NetBB: 3, NetChips: 300, Position: game.SmallBlind, Voluntary: true, Pot: 1000})
	s.Add(RoundResult{NetBB: -1, NetChips: -100, Position: game.BigBlind, WentToShowdown: true, Pot: 300})
	s.Add(RoundResult{NetBB: 1, NetChips: 100, Position: game.SmallBlind, WentToShowdown: true, Pot: 200})

	require.NoError(t, s.Validate())
	assert.Equal(t, 3, s.Rounds)
	assert.Equal(t, 300, s.NetChips)
	assert.InDelta(t, 1.0, s.Mean(), 1e-9)
	assert.InDelta(t, 4.0, s.Variance(), 1e-9)
	assert.InDelta(t, 2.0, s.StdDev(), 1e-9)
	assert.InDelta(t, 1.0, s.Median(), 1e-9)
	assert.InDelta(t, 3.0, s.Percentile(1), 1e-9)
	assert.InDelta(t, 0.0, s.Percentile(0.25), 1e-9)
	assert.InDelta(t, 2.0, s.PositionMean(game.SmallBlind), 1e-9)
	assert.InDelta(t, -1.0, s.PositionMean(game.BigBlind), 1e-9)
	assert.Equal(t, 1, s.ShowdownWins)
	assert.Equal(t, 1, s.NonShowdownWins)
	assert.InDelta(t, 0.0, s.ShowdownBB, 1e-9)
	assert.InDelta(t, 3.0, s.NonShowdownBB, 1e-9)
	assert.InDelta(t, 1.0/3, s.VPIP(), 1e-9)
	assert.Equal(t, 1000, s.MaxPot)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, s.Mean())
	assert.Greater(t, hi, s.Mean())

	s.Values = s.Values[:2]
	assert.ErrorContains(t, s.Validate(), "values length")
}

func TestFromRoundShowdown(t *testing.T) {
	t.Parallel()

	players := []game.Player{{Name: "hero", Stack: 100}, {Name: "left", Stack: 100}, {Name: "right", Stack: 100}}
	r, err := game.NewRound(players, game.Blinds{Small: 10, Big: 20}, deck.MustParseHand("AS AD"), 3)
	require.NoError(t, err)

	_, ok := FromRound(r)
	assert.False(t, ok, "round in progress")

	require.NoError(t, r.Fold(3))
	require.NoError(t, r.AllIn(1))
	require.NoError(t, r.AllIn(2))
	board := deck.MustParseCards("2C 7D 9H 4S JC")
	require.NoError(t, r.SetFlop(board[0], board[1], board[2]))
	require.NoError(t, r.EndStreet())
	require.NoError(t, r.SetTurn(board[3]))
	require.NoError(t, r.EndStreet())
	require.NoError(t, r.SetRiver(board[4]))
	require.NoError(t, r.EndStreet())
	_, err = r.Showdown()
	require.NoError(t, err)

	result, ok := FromRound(r)
	require.True(t, ok)
	assert.Equal(t, RoundResult{
		NetBB:          5,
		NetChips:       100,
		Position:       game.SmallBlind,
		WentToShowdown: true,
		Voluntary:      true,
		Pot:            200,
		StreetReached:  r.Street(),
	}, result)
}

func TestFromGame(t *testing.T) {
	t.Parallel()

	g := game.NewGame(5, 2)
	require.NoError(t, g.Init([]string{"hero", "left", "right"}, []int{1500, 1500, 1500}))

	r, err := g.NewRound(game.Blinds{Small: 50, Big: 100}, deck.MustParseHand("AH KD"), 3)
	require.NoError(t, err)
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Bet(2, 100))
	require.NoError(t, r.Fold(3))
	require.NoError(t, r.Call(1, 100))
	flop := deck.MustParseCards("2S 7D 9C")
	require.NoError(t, r.SetFlop(flop[0], flop[1], flop[2]))
	require.NoError(t, r.Check(1))
	require.NoError(t, r.Bet(2, 200))
	require.NoError(t, r.Bet(1, 600))
	require.NoError(t, r.Fold(2))

	r, err = g.NewRound(game.Blinds{Small: 50, Big: 100}, deck.MustParseHand("QS QD"), 1)
	require.NoError(t, err)
	require.NoError(t, r.RaiseTo(1, 300))
	require.NoError(t, r.Fold(2))
	require.NoError(t, r.Fold(3))

	// In progress, not counted
	_, err = g.NewRound(game.Blinds{Small: 50, Big: 100}, deck.MustParseHand("7S 2D"), 2)
	require.NoError(t, err)

	s := FromGame(g)
	require.NoError(t, s.Validate())
	assert.Equal(t, 2, s.Rounds)
	assert.Equal(t, []float64{3, 1.5}, s.Values)
	assert.Equal(t, 450, s.NetChips)
	assert.Equal(t, 2, s.NonShowdownWins)
	assert.Zero(t, s.ShowdownWins)
	assert.InDelta(t, 2.25, s.Median(), 1e-9)
	assert.InDelta(t, 3.0, s.PositionMean(game.SmallBlind), 1e-9)
	assert.InDelta(t, 1.5, s.PositionMean(game.Dealer), 1e-9)
	assert.InDelta(t, 1.0, s.VPIP(), 1e-9)
	assert.Equal(t, 1000, s.MaxPot)
}
