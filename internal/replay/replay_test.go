package replay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtracker/internal/game"
	"github.com/lox/holdemtracker/internal/tracker"
)

func TestLoadScript(t *testing.T) {
	t.Parallel()

	script, err := LoadScript("testdata/session.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"hero", "left", "right"}, script.Game.Players)
	require.Len(t, script.Rounds, 2)
	assert.True(t, script.EndGame)

	first := script.Rounds[0]
	assert.Equal(t, 3, first.Dealer)
	assert.Equal(t, "AH KD", first.Hand)
	require.Len(t, first.Events, 9)
	assert.Equal(t, EventBlock{Kind: "bet", Player: 2, Amount: 100}, first.Events[1])
	assert.Equal(t, EventBlock{Kind: "board", Cards: "2S 7D 9C"}, first.Events[4])

	events, err := script.Events()
	require.NoError(t, err)
	assert.Equal(t, StartGame, events[0].Type)
	assert.Equal(t, []int{1500, 1500, 1500}, events[0].Stacks)
	assert.Equal(t, Event{Type: NewRound, Dealer: 3, Blinds: &game.Blinds{Small: 50, Big: 100}, Hand: "AH KD"}, events[1])
	assert.Equal(t, Event{Type: Action, Player: 1, Action: "check"}, events[2])
	assert.Equal(t, EndGame, events[len(events)-1].Type)
}

func TestRunSession(t *testing.T) {
	t.Parallel()

	script, err := LoadScript("testdata/session.hcl")
	require.NoError(t, err)
	events, err := script.Events()
	require.NoError(t, err)

	tr := tracker.New(1, 1)
	require.NoError(t, Run(context.Background(), tr, events))

	err = tr.View(func(g *game.Game) error {
		assert.Equal(t, 5, g.BuyIn())
		assert.Equal(t, 2, g.Multiplier())
		assert.True(t, g.IsOver())
		assert.False(t, g.Won())

		stacks := make([]int, 0, 3)
		for _, p := range g.Players() {
			stacks = append(stacks, p.Stack)
		}
		assert.Equal(t, []int{2000, 1100, 1400}, stacks)

		rounds := g.Rounds()
		require.Len(t, rounds, 2)
		assert.Equal(t, 1000, rounds[0].Pot())
		assert.True(t, rounds[0].Won())

		res, err := rounds[1].Result()
		require.NoError(t, err)
		assert.True(t, res.Showdown)
		assert.Equal(t, [][]int{{1}, {2}, {3}}, res.Ranking)
		return nil
	})
	require.NoError(t, err)
}

func TestScriptErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax",
			src:     `game {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "missing game block",
			src:     `end_game = true`,
			wantErr: "failed to decode HCL",
		},
		{
			name: "unknown event",
			src: `
game {
  players        = ["a", "b", "c"]
  starting_stack = 100
}
round {
  dealer      = 1
  small_blind = 1
  big_blind   = 2
  event "limp" { player = 1 }
}`,
			wantErr: `round 1: unknown event "limp"`,
		},
		{
			name: "no stacks",
			src: `
game {
  players = ["a", "b", "c"]
}`,
			wantErr: "needs stacks or starting_stack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			script, err := ParseScript([]byte(tt.src), "test.hcl")
			if err == nil {
				_, err = script.Events()
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStartingStack(t *testing.T) {
	t.Parallel()

	script, err := ParseScript([]byte(`
game {
  players        = ["a", "b", "c"]
  starting_stack = 300
}`), "test.hcl")
	require.NoError(t, err)

	events, err := script.Events()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []int{300, 300, 300}, events[0].Stacks)
}

func TestRunReportsFailingEvent(t *testing.T) {
	t.Parallel()

	tr := tracker.New(5, 2)
	events := []Event{
		{Type: StartGame, Players: []string{"a", "b", "c"}, Stacks: []int{100, 100, 100}},
		{Type: NewRound, Dealer: 1, Blinds: &game.Blinds{Small: 1, Big: 2}},
		{Type: Action, Player: 2, Action: "fold"},
		{Type: Action, Player: 2, Action: "check"},
	}

	err := Run(context.Background(), tr, events)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 4 (player_2 check)")

	var illegal game.IllegalActionError
	assert.True(t, errors.As(err, &illegal))
}

func TestRunStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, tracker.New(5, 2), []Event{{Type: EndGame}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplyRejectsBadEvents(t *testing.T) {
	t.Parallel()

	tr := tracker.New(5, 2)
	require.NoError(t, Apply(tr, Event{Type: StartGame, Players: []string{"a", "b", "c"}, Stacks: []int{100, 100, 100}}))

	assert.ErrorContains(t, Apply(tr, Event{Type: NewRound, Dealer: 1}), "needs blinds")
	assert.Error(t, Apply(tr, Event{Type: NewRound, Dealer: 1, Blinds: &game.Blinds{Small: 1, Big: 2}, Hand: "AH"}))
	assert.ErrorContains(t, Apply(tr, Event{Type: "deal_hole_cards"}), "unknown event type")

	require.NoError(t, Apply(tr, Event{Type: NewRound, Dealer: 1, Blinds: &game.Blinds{Small: 1, Big: 2}}))
	assert.Error(t, Apply(tr, Event{Type: Action, Player: 1, Action: "limp"}))
	assert.Error(t, Apply(tr, Event{Type: Board, Cards: "2S 7D XX"}))
	assert.ErrorIs(t, Apply(tr, Event{Type: Showdown}), game.ErrNotShowdown)
}

func TestEventJSON(t *testing.T) {
	t.Parallel()

	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{"type":"action","player":2,"action":"raise","amount":60}`), &e))
	assert.Equal(t, Event{Type: Action, Player: 2, Action: "raise", Amount: 60}, e)
	assert.Equal(t, "player_2 raise 60", e.String())

	data, err := json.Marshal(Event{Type: NewRound, Dealer: 2, Blinds: &game.Blinds{Small: 5, Big: 10}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"new_round","dealer":2,"blinds":{"small":5,"big":10}}`, string(data))
}
