package health

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RepKind discriminates the two encodings of a RepSpec.
type RepKind int

const (
	// RepUniform means a single integer applied to every set.
	RepUniform RepKind = iota

	// RepPerSet means a comma-separated list with one integer per set.
	RepPerSet
)

// RepSpec is the reps field of a workout entry. The upstream log encodes
// it either as a bare integer (every set hit the same count) or as a
// delimited text list like "10, 10, 6" (one count per set). The variant
// is fixed at decode time; downstream code resolves it to a concrete
// per-set sequence via Values and never re-inspects the encoding.
type RepSpec struct {
	Kind    RepKind
	Uniform int    // set when Kind == RepUniform
	Raw     string // original text for a per-set list, preserved for display
}

// UniformReps constructs a RepSpec for a single integer applied to every set.
func UniformReps(n int) RepSpec {
	return RepSpec{Kind: RepUniform, Uniform: n}
}

// PerSetReps constructs a RepSpec from a delimited per-set list.
func PerSetReps(raw string) RepSpec {
	return RepSpec{Kind: RepPerSet, Raw: raw}
}

// ParseRepSpec interprets free text as a RepSpec: a bare integer becomes
// uniform, anything else is kept as a per-set list.
func ParseRepSpec(s string) RepSpec {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return UniformReps(n)
	}
	return PerSetReps(s)
}

// Values resolves the spec to a per-set rep sequence. A uniform spec
// expands to sets copies of the value. A per-set list parses each
// comma-separated token, discarding tokens that are not integers.
// The result may be empty when every token is unparsable.
func (r RepSpec) Values(sets int) []int {
	if r.Kind == RepUniform {
		if sets <= 0 {
			return nil
		}
		vals := make([]int, sets)
		for i := range vals {
			vals[i] = r.Uniform
		}
		return vals
	}

	var vals []int
	for _, tok := range strings.Split(r.Raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			continue // data-quality condition, not an error
		}
		vals = append(vals, n)
	}
	return vals
}

// Total resolves the spec to the total rep count across all sets.
func (r RepSpec) Total(sets int) int {
	total := 0
	for _, v := range r.Values(sets) {
		total += v
	}
	return total
}

// Display returns the spec as it should appear to the user: the original
// list text for per-set specs, the bare integer otherwise.
func (r RepSpec) Display() string {
	if r.Kind == RepPerSet {
		return strings.TrimSpace(r.Raw)
	}
	return strconv.Itoa(r.Uniform)
}

// UnmarshalJSON accepts either a JSON number (uniform) or a JSON string
// (per-set list). A string holding a bare integer is treated as uniform,
// matching how the upstream updater writes single-count sessions.
func (r *RepSpec) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = UniformReps(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRepSpec(s)
	return nil
}

// MarshalJSON writes the uniform variant as a number and the per-set
// variant as its original string, round-tripping the upstream encoding.
func (r RepSpec) MarshalJSON() ([]byte, error) {
	if r.Kind == RepUniform {
		return json.Marshal(r.Uniform)
	}
	return json.Marshal(r.Raw)
}
