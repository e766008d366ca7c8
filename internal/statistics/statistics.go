// Package statistics summarises the hero's results across the rounds of a
// game, measured in big blinds.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/lox/holdemtracker/internal/game"
)

// RoundResult is the hero's outcome in one finished round.
type RoundResult struct {
	NetBB          float64       // chips collected minus chips committed, in big blinds
	NetChips       int           // the same in chips
	Position       game.Position // hero's role relative to the button
	WentToShowdown bool
	Voluntary      bool // hero put chips in pre-flop beyond the blinds
	Pot            int
	StreetReached  game.Street
}

// PositionStats tracks results for one table position
type PositionStats struct {
	Rounds int
	SumBB  float64
}

// Statistics accumulates round results
type Statistics struct {
	Rounds int
	SumBB  float64
	SumBB2 float64   // sum of squares for the variance
	Values []float64 // kept for median and percentiles

	NetChips        int
	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	Voluntary       int

	PositionResults [game.BigBlind + 1]PositionStats // indexed by game.Position

	MaxPot int
}

// Mean returns the mean result in big blinds per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumBB / float64(s.Rounds)
}

// Variance returns the sample variance of the results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of the results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// VPIP is the share of rounds the hero voluntarily entered
func (s *Statistics) VPIP() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Voluntary) / float64(s.Rounds)
}

// Add incorporates one round result
func (s *Statistics) Add(result RoundResult) {
	net := result.NetBB
	s.Rounds++
	s.SumBB += net
	s.SumBB2 += net * net
	s.Values = append(s.Values, net)
	s.NetChips += result.NetChips

	if net > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if result.WentToShowdown {
		s.ShowdownBB += net
	} else {
		s.NonShowdownBB += net
	}
	if result.Voluntary {
		s.Voluntary++
	}

	if pos := result.Position; pos >= 0 && int(pos) < len(s.PositionResults) {
		s.PositionResults[pos].Rounds++
		s.PositionResults[pos].SumBB += net
	}

	s.MaxPot = max(s.MaxPot, result.Pot)
}

func (s *Statistics) sorted() []float64 {
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)
	return sorted
}

// Median returns the median result
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the interpolated result at p, from 0.0 to 1.0
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// PositionMean returns the mean result from one position
func (s *Statistics) PositionMean(pos game.Position) float64 {
	if pos < 0 || int(pos) >= len(s.PositionResults) {
		return 0
	}
	ps := s.PositionResults[pos]
	if ps.Rounds == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Rounds)
}

// Validate checks the accumulated totals agree with each other
func (s *Statistics) Validate() error {
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total=%.6f, showdown=%.6f, non-showdown=%.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values length (%d) does not match rounds (%d)", len(s.Values), s.Rounds)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Rounds {
		return fmt.Errorf("wins (%d) exceed rounds (%d)", wins, s.Rounds)
	}
	total := 0
	for _, ps := range s.PositionResults {
		total += ps.Rounds
	}
	if total != s.Rounds {
		return fmt.Errorf("position rounds (%d) do not match rounds (%d)", total, s.Rounds)
	}
	return nil
}

// Summary is the JSON view of the statistics.
type Summary struct {
	Rounds          int     `json:"rounds"`
	NetChips        int     `json:"net_chips"`
	MeanBB          float64 `json:"mean_bb"`
	StdDevBB        float64 `json:"stddev_bb"`
	MedianBB        float64 `json:"median_bb"`
	VPIP            float64 `json:"vpip"`
	ShowdownWins    int     `json:"showdown_wins"`
	NonShowdownWins int     `json:"non_showdown_wins"`
	MaxPot          int     `json:"max_pot"`
}

// Summary returns the headline figures.
func (s *Statistics) Summary() Summary {
	return Summary{
		Rounds:          s.Rounds,
		NetChips:        s.NetChips,
		MeanBB:          s.Mean(),
		StdDevBB:        s.StdDev(),
		MedianBB:        s.Median(),
		VPIP:            s.VPIP(),
		ShowdownWins:    s.ShowdownWins,
		NonShowdownWins: s.NonShowdownWins,
		MaxPot:          s.MaxPot,
	}
}

// FromRound extracts the hero's result from a finished round. The second
// result is false while the round is in progress or when the hero was not
// seated.
func FromRound(r *game.Round) (RoundResult, bool) {
	res, err := r.Result()
	if err != nil {
		return RoundResult{}, false
	}
	hero, err := r.Status(game.HeroSeat)
	if err != nil || hero.InitialStack == 0 {
		return RoundResult{}, false
	}

	collected := 0
	for _, p := range res.Payouts {
		if p.Seat == game.HeroSeat {
			collected = p.Won + p.Refund
		}
	}
	net := collected - hero.TotalBet

	voluntary := false
	for _, a := range r.Actions(game.Preflop) {
		if a.Player != game.HeroSeat {
			continue
		}
		switch a.Kind {
		case game.Call, game.Bet, game.Raise, game.AllIn:
			voluntary = true
		}
	}

	out := RoundResult{
		NetChips:       net,
		Position:       hero.Position,
		WentToShowdown: res.Showdown && hero.InRound,
		Voluntary:      voluntary,
		Pot:            r.Pot(),
		StreetReached:  r.Street(),
	}
	if big := r.Blinds().Big; big > 0 {
		out.NetBB = float64(net) / float64(big)
	}
	return out, true
}

// FromGame accumulates the hero's results over every finished round.
func FromGame(g *game.Game) *Statistics {
	s := &Statistics{}
	for _, r := range g.Rounds() {
		if result, ok := FromRound(r); ok {
			s.Add(result)
		}
	}
	return s
}
