// Package sequencer orders a fixed set of tracks into the playlist with the lowest
// cumulative transition cost from a given start track.
//
// The transition cost between two tracks is a weighted sum of five normalized
// distances (tempo, energy, danceability, circular pitch class, mode). Ordering is a
// shortest Hamiltonian path problem from a fixed source, solved with a best-first
// (A*) search over partial orderings:
//
//	engine, err := sequencer.New(tracks)
//	if err != nil {
//	    return err
//	}
//	order, err := engine.Optimize(ctx, tracks[0])
//
// Frontier entries are ordered by f = g + h, then by prefix length (shorter first),
// then lexicographically by the prefix's track IDs, so results are reproducible.
//
// Two lower-bound estimators are available. MinEdge (default) multiplies the number of
// remaining transitions by the cheapest edge among the current and remaining tracks; it
// never overestimates and is consistent. MinHop uses only edges leaving the current
// track, which can overestimate, so searches using it are not guaranteed optimal.
//
// Visited states are keyed by the current track and the unordered remaining set by
// default, discarding any state whose accumulated cost is not lower than an already
// expanded equivalent. VisitByPrefix keys on the exact ordered prefix instead, which
// never prunes and explores up to (n-1)! orderings; bound it with WithMaxExpansions.
//
// An Engine is immutable after New and safe for concurrent Search calls.
package sequencer
