package phh

// HandHistory is a single round encoded in PHH (Poker Hand History) format.
// Per-player arrays are indexed by PHH player number: p1 is the first seat
// after the dealer and the dealer is last.
type HandHistory struct {
	Variant           string         `toml:"variant"`
	Table             string         `toml:"table,omitempty"`
	SeatCount         int            `toml:"seat_count"`
	Seats             []int          `toml:"seats"`
	Antes             []int          `toml:"antes"`
	BlindsOrStraddles []int          `toml:"blinds_or_straddles"`
	MinBet            int            `toml:"min_bet"`
	StartingStacks    []int          `toml:"starting_stacks"`
	FinishingStacks   []int          `toml:"finishing_stacks"`
	Winnings          []int          `toml:"winnings"`
	Actions           []string       `toml:"actions"`
	Players           []string       `toml:"players"`
	HandID            string         `toml:"hand,omitempty"`
	Time              string         `toml:"time,omitempty"`
	TimeZone          string         `toml:"time_zone,omitempty"`
	Day               int            `toml:"day,omitempty"`
	Month             int            `toml:"month,omitempty"`
	Year              int            `toml:"year,omitempty"`
	Metadata          map[string]any `toml:"metadata,omitempty"`
}

// Options carries the details a round does not know about itself.
type Options struct {
	Table  string
	HandID string
}
