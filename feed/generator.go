package feed

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Generator draws datasets from a fixed set of ranges. It is safe for
// concurrent use.
type Generator struct {
	ranges []Range
	mu     sync.Mutex
	rnd    *rand.Rand
}

// NewGenerator creates a generator over ranges (DefaultRanges when empty).
// A nil src uses a randomly seeded PCG source.
func NewGenerator(src rand.Source, ranges ...Range) (*Generator, error) {
	if len(ranges) == 0 {
		ranges = DefaultRanges
	}
	for _, r := range ranges {
		if r.Max < r.Min {
			return nil, fmt.Errorf("feed: invalid range %s", r.Label())
		}
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{
		ranges: append([]Range(nil), ranges...),
		rnd:    rand.New(src),
	}, nil
}

// Ranges returns a copy of the generator's ranges.
func (g *Generator) Ranges() []Range {
	return append([]Range(nil), g.ranges...)
}

// Next returns one sample per range, each value uniform in [Min, Max].
func (g *Generator) Next() Dataset {
	g.mu.Lock()
	defer g.mu.Unlock()

	ds := make(Dataset, len(g.ranges))
	for i, r := range g.ranges {
		ds[i] = Sample{Label: r.Label(), Value: r.Min + g.rnd.IntN(r.Max-r.Min+1)}
	}
	return ds
}
