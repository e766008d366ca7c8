package evaluator

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	rand "math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemtracker/internal/deck"
)

// parallelThreshold is the sample count above which workers are used.
const parallelThreshold = 500

// Equity is the Monte Carlo outcome of a hand against random opponents.
type Equity struct {
	Win     float64 `json:"win"`
	Tie     float64 `json:"tie"`
	Share   float64 `json:"share"` // wins plus split shares of ties
	Samples int     `json:"samples"`
}

// EquityRequest describes one simulation.
type EquityRequest struct {
	Hand      deck.Hand
	Board     []deck.Card
	Opponents int
	Samples   int
}

// workerResult holds the results from a Monte Carlo worker
type workerResult struct {
	wins    int
	ties    int
	share   float64
	samples int
}

func (w *workerResult) merge(other workerResult) {
	w.wins += other.wins
	w.ties += other.ties
	w.share += other.share
	w.samples += other.samples
}

// EstimateEquity deals random opponent hands and board completions and
// counts how often the hand wins or splits at showdown.
func EstimateEquity(ctx context.Context, req EquityRequest, rng *rand.Rand) (Equity, error) {
	if !req.Hand.IsSet() {
		return Equity{}, errors.New("equity needs a hand with two known cards")
	}
	board := deck.KnownCards(req.Board)
	if len(board) > BoardSize {
		return Equity{}, fmt.Errorf("board holds at most %d cards, got %d", BoardSize, len(board))
	}
	if req.Opponents < 1 || req.Opponents > 9 {
		return Equity{}, fmt.Errorf("opponents must be between 1 and 9, got %d", req.Opponents)
	}
	if req.Samples <= 0 {
		return Equity{}, fmt.Errorf("samples must be positive, got %d", req.Samples)
	}

	workers := 1
	if req.Samples >= parallelThreshold {
		workers = min(runtime.NumCPU(), 8)
	}

	perWorker := req.Samples / workers
	remainder := req.Samples % workers
	results := make([]workerResult, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		samples := perWorker
		if w < remainder {
			samples++
		}
		// Independent RNG per worker to avoid contention.
		workerRng := rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))

		g.Go(func() error {
			res, err := runEquityWorker(ctx, req.Hand, board, req.Opponents, samples, workerRng)
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Equity{}, err
	}

	var total workerResult
	for _, r := range results {
		total.merge(r)
	}
	if total.samples == 0 {
		return Equity{}, nil
	}

	n := float64(total.samples)
	return Equity{
		Win:     float64(total.wins) / n,
		Tie:     float64(total.ties) / n,
		Share:   total.share / n,
		Samples: total.samples,
	}, nil
}

// runEquityWorker runs Monte Carlo simulation for a worker
func runEquityWorker(ctx context.Context, hand deck.Hand, board []deck.Card, opponents, samples int, rng *rand.Rand) (workerResult, error) {
	var res workerResult

	known := append(hand.Cards(), board...)
	d := deck.NewDeck(rng, known...)
	villains := make([]deck.Hand, opponents)

	for i := range samples {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		d.Reset(known...)
		for v := range villains {
			cards := d.DealN(2)
			h, err := deck.NewHand(cards[0], cards[1])
			if err != nil {
				return res, err
			}
			villains[v] = h
		}

		full := append(append([]deck.Card{}, board...), d.DealN(BoardSize-len(board))...)
		b, err := NewBoard(full...)
		if err != nil {
			return res, err
		}

		hero, err := b.Evaluate(hand)
		if err != nil {
			return res, err
		}

		beaten, tied := false, 0
		for _, v := range villains {
			opp, err := b.Evaluate(v)
			if err != nil {
				return res, err
			}
			switch hero.Compare(opp) {
			case -1:
				beaten = true
			case 0:
				tied++
			}
			if beaten {
				break
			}
		}

		switch {
		case beaten:
		case tied > 0:
			res.ties++
			res.share += 1 / float64(tied+1)
		default:
			res.wins++
			res.share++
		}
		res.samples++
	}
	return res, nil
}
