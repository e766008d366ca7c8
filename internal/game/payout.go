package game

import (
	"slices"
)

// Payout is what one seat collected when the round was resolved.
type Payout struct {
	Seat   int `json:"seat"`
	Won    int `json:"won"`
	Refund int `json:"refund"` // unmatched chips returned to the seat
}

// Result is the outcome of a finished round.
type Result struct {
	// Showdown is false when everyone but one player folded.
	Showdown bool `json:"showdown"`
	// Winners lists the seats that won chips, best hand first.
	Winners []int `json:"winners"`
	// Ranking groups the contesting seats by hand strength, best first.
	// Seats in one group tied.
	Ranking [][]int  `json:"ranking"`
	Payouts []Payout `json:"payouts"`
}

func (res *Result) clone() Result {
	out := Result{
		Showdown: res.Showdown,
		Winners:  slices.Clone(res.Winners),
		Payouts:  slices.Clone(res.Payouts),
	}
	for _, group := range res.Ranking {
		out.Ranking = append(out.Ranking, slices.Clone(group))
	}
	return out
}

// pot is one layer of the chips committed this round.
type pot struct {
	amount   int
	eligible []int
}

// buildPots layers the committed chips by each contender's total bet, the
// way side pots form around all-in players. The unmatched part of the
// largest bet, and any chips above every contender's total, are returned
// per seat as refunds.
func buildPots(status []PlayerStatus, contenders []int) ([]pot, map[int]int) {
	refunds := make(map[int]int)
	totals := make([]int, len(status))
	top, second := -1, 0
	for i := range status {
		totals[i] = status[i].TotalBet
		switch {
		case top < 0 || totals[i] > totals[top]:
			if top >= 0 {
				second = totals[top]
			}
			top = i
		case totals[i] > second:
			second = totals[i]
		}
	}
	if top >= 0 && totals[top] > second {
		refunds[status[top].Seat] = totals[top] - second
		totals[top] = second
	}

	var limits []int
	for _, seat := range contenders {
		if bet := totals[seat-1]; bet > 0 && !slices.Contains(limits, bet) {
			limits = append(limits, bet)
		}
	}
	slices.Sort(limits)

	var pots []pot
	previous := 0
	for _, limit := range limits {
		var p pot
		for i := range totals {
			contribution := min(totals[i], limit) - previous
			if contribution > 0 {
				p.amount += contribution
			}
		}
		for _, seat := range contenders {
			if totals[seat-1] >= limit {
				p.eligible = append(p.eligible, seat)
			}
		}
		if p.amount > 0 {
			pots = append(pots, p)
		}
		previous = limit
	}

	for i := range totals {
		if excess := totals[i] - previous; excess > 0 {
			refunds[status[i].Seat] += excess
		}
	}
	return pots, refunds
}

// maxWinnable is the most a contender can take from the pot: their own
// total plus at most that much from everyone else.
func maxWinnable(status []PlayerStatus, seat int) int {
	limit := status[seat-1].TotalBet
	total := 0
	for i := range status {
		total += min(status[i].TotalBet, limit)
	}
	return total
}

// compareSeats orders two contenders by their hands on the board. Hands
// that were never revealed lose to revealed ones and tie with each other.
func (r *Round) compareSeats(a, b int) int {
	cmp, err := r.board.CompareHands(r.status[a-1].Hand, r.status[b-1].Hand)
	if err != nil {
		// neither hand was revealed
		return 0
	}
	return cmp
}

// rank groups the contenders by hand strength, best first. Within a group
// seats keep their order after the dealer.
func (r *Round) rank(contenders []int) [][]int {
	sorted := slices.Clone(contenders)
	slices.SortStableFunc(sorted, func(a, b int) int {
		return r.compareSeats(b, a)
	})

	var groups [][]int
	for i, seat := range sorted {
		if i > 0 && r.compareSeats(sorted[i-1], seat) == 0 {
			groups[len(groups)-1] = append(groups[len(groups)-1], seat)
			continue
		}
		groups = append(groups, []int{seat})
	}
	return groups
}

// resolve settles the pot. Each pot goes to the best-ranked group with an
// eligible member, split evenly with odd chips to the first seats after
// the dealer.
func (r *Round) resolve(showdown bool) Result {
	var contenders []int
	for _, seat := range r.seatsFrom(r.dealer) {
		if r.status[seat-1].InRound {
			contenders = append(contenders, seat)
		}
	}

	status := r.status[:]
	for _, seat := range contenders {
		r.status[seat-1].MaxWinnable = maxWinnable(status, seat)
	}

	ranking := [][]int{contenders}
	if showdown && len(contenders) > 1 {
		ranking = r.rank(contenders)
	}

	won := make(map[int]int)
	pots, refunds := buildPots(status, contenders)
	for _, p := range pots {
		for _, group := range ranking {
			var winners []int
			for _, seat := range group {
				if slices.Contains(p.eligible, seat) {
					winners = append(winners, seat)
				}
			}
			if len(winners) == 0 {
				continue
			}
			share, odd := p.amount/len(winners), p.amount%len(winners)
			for i, seat := range winners {
				won[seat] += share
				if i < odd {
					won[seat]++
				}
			}
			break
		}
	}

	res := Result{Showdown: showdown, Ranking: ranking}
	for _, group := range ranking {
		for _, seat := range group {
			if won[seat] > 0 {
				res.Winners = append(res.Winners, seat)
			}
		}
	}
	for i := range r.status {
		ps := &r.status[i]
		if ps.InitialStack == 0 {
			continue
		}
		res.Payouts = append(res.Payouts, Payout{
			Seat:   ps.Seat,
			Won:    won[ps.Seat],
			Refund: refunds[ps.Seat],
		})
	}
	return res
}
