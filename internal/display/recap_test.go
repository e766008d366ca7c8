package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtracker/internal/deck"
	"github.com/lox/holdemtracker/internal/game"
)

func TestDescribeAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action game.RoundAction
		want   string
	}{
		{game.RoundAction{Kind: game.Check}, "hero checks"},
		{game.RoundAction{Kind: game.Call, Amount: 20}, "hero calls 20"},
		{game.RoundAction{Kind: game.Bet, Amount: 40}, "hero bets 40"},
		{game.RoundAction{Kind: game.Raise, Amount: 120}, "hero raises to 120"},
		{game.RoundAction{Kind: game.Fold}, "hero folds"},
		{game.RoundAction{Kind: game.AllIn, Amount: 500}, "hero is all-in for 500"},
		{game.RoundAction{Kind: game.PaySmallBlind, Amount: 10}, "hero posts small blind 10"},
		{game.RoundAction{Kind: game.PayBigBlind, Amount: 20}, "hero posts big blind 20"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DescribeAction("hero", tt.action))
	}
}

func TestRenderRound(t *testing.T) {
	t.Parallel()

	g := game.NewGame(5, 2, game.WithID("recap"))
	require.NoError(t, g.Init([]string{"hero", "left", "right"}, []int{1500, 1500, 1500}))
	r, err := g.NewRound(game.Blinds{Small: 50, Big: 100}, deck.MustParseHand("AH KD"), 3)
	require.NoError(t, err)

	out := RenderRound(r, 1)
	assert.Contains(t, out, "Round 1")
	assert.Contains(t, out, "50/100")
	assert.Contains(t, out, "AKo (94%)")
	assert.Contains(t, out, "in progress, preflop")

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

	out = RenderRound(r, 1)
	assert.Contains(t, out, "right")
	assert.Contains(t, out, "hero posts small blind 50")
	assert.Contains(t, out, "left bets 200")
	assert.Contains(t, out, "hero wins 600")
	assert.Contains(t, out, "hero gets 400 back")
	assert.Contains(t, out, "1000")
	assert.NotContains(t, out, "Shows")
}

func TestRenderShowdown(t *testing.T) {
	t.Parallel()

	players := []game.Player{{Name: "hero", Stack: 100}, {Name: "left", Stack: 100}, {Name: "right", Stack: 100}}
	r, err := game.NewRound(players, game.Blinds{Small: 10, Big: 20}, deck.MustParseHand("AS AD"), 3)
	require.NoError(t, err)
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

	out := RenderRound(r, 4)
	assert.Contains(t, out, "Round 4")
	assert.Contains(t, out, "left")
	assert.Contains(t, out, "mucked")
	assert.Contains(t, out, "hero wins 200")
}

func TestRenderGame(t *testing.T) {
	t.Parallel()

	g := game.NewGame(5, 2, game.WithID("sng-1"))
	require.NoError(t, g.Init([]string{"hero", "left", "right"}, []int{500, 500, 500}))

	out := RenderGame(g)
	assert.Contains(t, out, "Game sng-1")
	assert.Contains(t, out, "5 x2")
	assert.Contains(t, out, "in progress")
	assert.NotContains(t, out, "bb/round")

	r, err := g.NewRound(game.Blinds{Small: 10, Big: 20}, deck.MustParseHand("QS QD"), 1)
	require.NoError(t, err)
	require.NoError(t, r.RaiseTo(1, 60))
	require.NoError(t, r.Fold(2))
	require.NoError(t, r.Fold(3))
	assert.Contains(t, RenderGame(g), "+30 chips, 1.50 bb/round, VPIP 100%")

	g.End()
	assert.Contains(t, RenderGame(g), "over")
}

func TestFormatCards(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[]", FormatCards(nil))
	out := FormatCards(deck.MustParseCards("AH KS"))
	assert.Contains(t, out, "A♥")
	assert.Contains(t, out, "K♠")
}
