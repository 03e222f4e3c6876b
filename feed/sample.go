package feed

import (
	"encoding/json"
	"fmt"
)

// Range is an inclusive integer range. Its label is "min..max".
type Range struct {
	Min int
	Max int
}

// Label returns the range's display label.
func (r Range) Label() string {
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

// DefaultRanges are the six ranges of the demo chart, in display order.
var DefaultRanges = []Range{
	{0, 10}, {0, 5}, {0, 16}, {4, 7}, {5, 20}, {8, 16},
}

// Sample is one labelled value. It encodes as the pair [label, value].
type Sample struct {
	Label string
	Value int
}

// MarshalJSON encodes the sample as a two-element array.
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Label, s.Value})
}

// UnmarshalJSON decodes a [label, value] pair.
func (s *Sample) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("feed: sample must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &s.Label); err != nil {
		return fmt.Errorf("feed: sample label: %w", err)
	}
	if err := json.Unmarshal(pair[1], &s.Value); err != nil {
		return fmt.Errorf("feed: sample value: %w", err)
	}
	return nil
}

// Dataset is one tick's worth of samples.
type Dataset []Sample

// Encode returns the dataset's JSON form, used as the data payload.
func (d Dataset) Encode() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
