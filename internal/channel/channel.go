// Package channel holds the timeline dataset: named channels, each with the
// history of commits it advanced to, and the loaders that read it from disk.
package channel

import "time"

// Event is one advancement of a channel to a commit.
type Event struct {
	// ID identifies the event; for nixpkgs channels it is the commit hash.
	ID   string
	Time time.Time
}

// Channel is a named row of the timeline.
type Channel struct {
	Name    string
	History []Event
}

// Names returns the channel names in dataset order.
func Names(channels []Channel) []string {
	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.Name
	}
	return names
}

// Extent returns the earliest and latest event time across all channels.
// ok is false when there are no events at all.
func Extent(channels []Channel) (lo, hi time.Time, ok bool) {
	for _, c := range channels {
		for _, e := range c.History {
			if !ok || e.Time.Before(lo) {
				lo = e.Time
			}
			if !ok || e.Time.After(hi) {
				hi = e.Time
			}
			ok = true
		}
	}
	return lo, hi, ok
}

// EventCount returns the number of events across all channels.
func EventCount(channels []Channel) int {
	n := 0
	for _, c := range channels {
		n += len(c.History)
	}
	return n
}
