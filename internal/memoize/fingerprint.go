// Package memoize implements the adapter described in spec.md §4.2: a thin
// wrapper that turns a plain function into a cached one by routing its
// results through a cache core's get/put/update/contains surface.
package memoize

import (
	"bytes"
	"encoding/gob"
	"sort"

	"github.com/opencontainers/go-digest"
)

// kwarg is one keyword argument, used instead of a bare map so kwargs can
// be sorted by key before encoding. encoding/gob's map support iterates via
// reflect.Value.MapRange with no ordering guarantee, so two logically equal
// kwargs maps can otherwise gob-encode to different byte sequences.
type kwarg struct {
	K string
	V any
}

// call bundles one invocation's positional and keyword arguments into a
// single value with a stable gob encoding, so equal argument tuples always
// produce byte-identical encodings regardless of how the caller built the
// keyword map or what order its keys happened to iterate in.
type call struct {
	Args   []any
	Kwargs []kwarg
}

// fingerprint derives a stable identifier for fn's argument-keyed cache
// entry by combining name with a canonical digest of args and kwargs, per
// spec.md §4.2.2. Structural contents are captured by gob-encoding the call
// tuple before hashing, so two calls with equal (but distinctly allocated)
// composite arguments fingerprint identically.
func fingerprint(name string, args []any, kwargs map[string]any) (string, error) {
	pairs := make([]kwarg, 0, len(kwargs))
	for k, v := range kwargs {
		pairs = append(pairs, kwarg{K: k, V: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].K < pairs[j].K })

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(call{Args: args, Kwargs: pairs}); err != nil {
		return "", err
	}
	d := digest.FromBytes(buf.Bytes())
	return name + "#" + d.String(), nil
}
