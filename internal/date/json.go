package date

import "encoding/json"

type wireDate struct {
	Kind  string  `json:"kind"`
	Start RawDate `json:"start"`
	End   RawDate `json:"end"`
}

// MarshalJSON writes a single day as a span that starts and ends on the same day,
// so consumers can read start/end without branching on kind.
func (s Single) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireDate{Kind: "single", Start: s.RawDate, End: s.RawDate})
}

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireDate{Kind: "range", Start: r.Start, End: r.End})
}
