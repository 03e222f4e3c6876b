// Package feed produces the demo dataset stream: every tick, one JSON array
// of [label, value] pairs, each value drawn from its label's inclusive
// range.
//
//	data: [["0..10",7],["0..5",2],["0..16",11],["4..7",4],["5..20",13],["8..16",9]]
package feed
