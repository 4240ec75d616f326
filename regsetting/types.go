// Package regsetting implements the typed leaves of a device's
// register map (Register, Function) and the RegisterSetting that owns
// a channel plus both leaf collections.
package regsetting

import (
	"encoding/binary"

	"github.com/sensorfs/sensorfs/numeral"
)

// Description is either a single string or a {long, short} pair. YAML
// may supply either shape.
type Description struct {
	Simple string
	Long   string
	Short  string
	isPair bool
}

// UnmarshalYAML accepts either a bare scalar or a mapping with long/short
// keys.
func (d *Description) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var simple string
	if err := unmarshal(&simple); err == nil {
		d.Simple = simple
		d.isPair = false
		return nil
	}
	var pair struct {
		Long  string `yaml:"long"`
		Short string `yaml:"short"`
	}
	if err := unmarshal(&pair); err != nil {
		return err
	}
	d.Long = pair.Long
	d.Short = pair.Short
	d.isPair = true
	return nil
}

// String renders the description the way it should appear as a leaf's
// file content in the path-reflection layer: the simple string, or the
// long form when only the pair shape was given.
func (d Description) String() string {
	if d.isPair {
		return d.Long
	}
	return d.Simple
}

// Range is an inclusive {min, max} bound on a register or function's
// numeric value.
type Range struct {
	Min uint64 `yaml:"min"`
	Max uint64 `yaml:"max"`
}

// ParseDefault turns a YAML scalar for a `default:` field into a u64:
// a radix-prefixed string consumed by the same grammar as any other
// number literal, truncated or zero-extended to 8 bytes.
func ParseDefault(s string) (uint64, error) {
	b, err := numeral.ParseNum(s)
	if err != nil {
		return 0, err
	}
	padded := make([]byte, 8)
	if len(b) > 8 {
		b = b[len(b)-8:]
	}
	copy(padded[8-len(b):], b)
	return binary.BigEndian.Uint64(padded), nil
}
