// Package valuemap implements the bidirectional translation between raw
// register byte strings and human-friendly keywords or numbers,
// including an "any" wildcard fallback entry.
package valuemap

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sensorfs/sensorfs/sensorerr"
)

// Kind distinguishes the three shapes a ValueMap can take.
type Kind int

const (
	// Keywords maps raw byte values to arbitrary strings, bijectively.
	Keywords Kind = iota
	// Fixed maps raw byte values to integers.
	Fixed
	// Floating maps raw byte values to floating point numbers.
	Floating
)

// entry pairs a concrete byte key (or the wildcard, when Any is true)
// with its mapped value. Values are stored pre-rendered as strings for
// Keywords maps and as their native numeric type for Fixed/Floating,
// matched against by Key.
type entry struct {
	Any     bool
	Key     string // string(Bytes), only meaningful when !Any
	Bytes   []byte
	Keyword string
	Fixed   uint64
	Float   float64
}

// ValueMap is one of Keywords, Fixed or Floating, preserving the
// insertion order of its entries (so ties in Encode's nearest-float
// search resolve toward the first seen).
type ValueMap struct {
	Kind    Kind
	entries []entry
}

// New builds an empty ValueMap of the given kind.
func New(kind Kind) *ValueMap {
	return &ValueMap{Kind: kind}
}

// AddKeyword registers a concrete byte value with its keyword.
func (vm *ValueMap) AddKeyword(value []byte, keyword string) {
	vm.entries = append(vm.entries, entry{Key: string(value), Bytes: value, Keyword: keyword})
}

// AddKeywordAny registers the wildcard entry for a Keywords map.
func (vm *ValueMap) AddKeywordAny(keyword string) {
	vm.entries = append(vm.entries, entry{Any: true, Keyword: keyword})
}

// AddFixed registers a concrete byte value with its integer.
func (vm *ValueMap) AddFixed(value []byte, n uint64) {
	vm.entries = append(vm.entries, entry{Key: string(value), Bytes: value, Fixed: n})
}

// AddFixedAny registers the wildcard entry for a Fixed map.
func (vm *ValueMap) AddFixedAny(n uint64) {
	vm.entries = append(vm.entries, entry{Any: true, Fixed: n})
}

// AddFloat registers a concrete byte value with its float.
func (vm *ValueMap) AddFloat(value []byte, f float64) {
	vm.entries = append(vm.entries, entry{Key: string(value), Bytes: value, Float: f})
}

// AddFloatAny registers the wildcard entry for a Floating map.
func (vm *ValueMap) AddFloatAny(f float64) {
	vm.entries = append(vm.entries, entry{Any: true, Float: f})
}

func (vm *ValueMap) findConcrete(value []byte) (entry, bool) {
	key := string(value)
	for _, e := range vm.entries {
		if !e.Any && e.Key == key {
			return e, true
		}
	}
	return entry{}, false
}

func (vm *ValueMap) findAny() (entry, bool) {
	for _, e := range vm.entries {
		if e.Any {
			return e, true
		}
	}
	return entry{}, false
}

// Lookup translates a raw byte value to its human-readable string,
// trying an exact match first and falling back to the wildcard entry.
func (vm *ValueMap) Lookup(value []byte) (string, error) {
	e, ok := vm.findConcrete(value)
	if !ok {
		e, ok = vm.findAny()
	}
	if !ok {
		return "", &sensorerr.UnknownValue{Value: value}
	}
	switch vm.Kind {
	case Keywords:
		return e.Keyword, nil
	case Fixed:
		return strconv.FormatUint(e.Fixed, 10), nil
	case Floating:
		return strconv.FormatFloat(e.Float, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("sensorfs: unknown value map kind %d", vm.Kind)
	}
}

// Encode translates a human-readable string back to a raw byte value.
// If the winning entry is the wildcard, a fresh byte value not already
// present as a concrete key is synthesized.
func (vm *ValueMap) Encode(s string) ([]byte, error) {
	if len(vm.entries) == 0 {
		return nil, &sensorerr.NoEntries{}
	}

	var winner entry
	var found bool

	switch vm.Kind {
	case Keywords:
		for _, e := range vm.entries {
			if e.Keyword == s {
				winner, found = e, true
				break
			}
		}
		if !found {
			return nil, &sensorerr.UnknownKey{Key: s}
		}
	case Fixed:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sensorfs: %q is not an integer: %w", s, err)
		}
		for _, e := range vm.entries {
			if e.Fixed == n {
				winner, found = e, true
				break
			}
		}
		if !found {
			return nil, &sensorerr.UnknownValue{Value: []byte(s)}
		}
	case Floating:
		target, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("sensorfs: %q is not a number: %w", s, err)
		}
		best := math.Inf(1)
		for _, e := range vm.entries {
			d := math.Abs(target - e.Float)
			if d < best {
				best = d
				winner, found = e, true
			}
		}
		if !found {
			return nil, &sensorerr.UnknownValue{Value: []byte(s)}
		}
	default:
		return nil, fmt.Errorf("sensorfs: unknown value map kind %d", vm.Kind)
	}

	if !winner.Any {
		return winner.Bytes, nil
	}
	return vm.synthesize(), nil
}

// synthesize returns the first big-endian byte value, starting from [0]
// and incrementing with carry into a new most-significant byte, that is
// not already a concrete key.
func (vm *ValueMap) synthesize() []byte {
	candidate := []byte{0}
	for {
		if _, taken := vm.findConcrete(candidate); !taken {
			return append([]byte(nil), candidate...)
		}
		candidate = increment(candidate)
	}
}

func increment(b []byte) []byte {
	out := append([]byte(nil), b...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return out
		}
		out[i] = 0
	}
	return append([]byte{1}, out...)
}

// KeyFor parses a YAML-mapping key into either the wildcard sentinel
// ("_") or the raw bytes of a numeric literal, falling back to the
// UTF-8 bytes of the key when it does not parse as a number.
func KeyFor(raw string, parseNum func(string) ([]byte, error)) (any bool, bytes []byte) {
	if raw == "_" {
		return true, nil
	}
	if b, err := parseNum(raw); err == nil {
		return false, b
	}
	return false, []byte(raw)
}
