// Package bitslice implements the address/slicing model: parsing
// human-written addresses such as "0x1234[3:10]" or "reg_name[1]" into
// a base byte vector plus a half-open bit range, per the grammar
//
//	addr  := base ( '[' slice ']' )?
//	slice := (start? ':' end?) | single
package bitslice

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sensorfs/sensorfs/numeral"
	"github.com/sensorfs/sensorfs/sensorerr"
)

// Address is the triple (base, slice_start, slice_end): base is the
// big-endian byte representation of the device-level address number,
// and [slice_start, slice_end) is the half-open bit range within the
// value stored there.
type Address struct {
	Base       []byte
	SliceStart uint8
	SliceEnd   uint8
}

var addrRe = regexp.MustCompile(`^([^\[\]]+)(\[(?:([^\[\]]+)?:([^\[\]]+)?|([^:\[\]]+))\])?$`)

// RegisterLike is the minimal view of a register needed to resolve a
// symbolic base (register name) in an address literal. regsetting.Register
// satisfies it.
type RegisterLike interface {
	BaseAddress() Address
}

// Parse parses addr with no register map available; widthHint, if non
// nil, gives the byte width used to size a missing slice end.
func Parse(addr string, widthHint *uint8) (Address, error) {
	return parse(addr, nil, widthHint)
}

// ParseNamed parses addr against a register map, allowing the base to
// name a register (optionally re-sliced) and the slice to be inherited
// from it when absent.
func ParseNamed(addr string, registers map[string]RegisterLike) (Address, error) {
	return parse(addr, registers, nil)
}

// ParseWithRegistry combines Parse and ParseNamed: addr may have a
// numeric base sized by widthHint, or name a register in registers. Used
// by config loading, where a register's address may be either shape.
func ParseWithRegistry(addr string, registers map[string]RegisterLike, widthHint *uint8) (Address, error) {
	return parse(addr, registers, widthHint)
}

func parse(addr string, registers map[string]RegisterLike, widthHint *uint8) (Address, error) {
	m := addrRe.FindStringSubmatch(addr)
	if m == nil {
		return Address{}, &sensorerr.BadAddress{Input: addr}
	}
	baseStr := m[1]
	singleStr := m[5]
	startStr := m[3]
	endStr := m[4]
	hasBrackets := m[2] != ""

	var base []byte
	var ref *Address
	if widthHint != nil {
		if b, err := numeral.ParseNumPadded(baseStr, int(*widthHint)); err == nil {
			base = b
		}
	} else {
		if b, err := numeral.ParseNum(baseStr); err == nil {
			base = b
		}
	}
	if base == nil {
		// parse_num(_padded) failed: fall back to a register lookup, and
		// failing that to the raw name bytes (the address may be nested
		// inside a function and re-resolved later against the owning
		// register map).
		if regs, ok := registers[baseStr]; ok {
			a := regs.BaseAddress()
			ref = &a
			base = a.Base
		} else {
			base = []byte(baseStr)
		}
	}

	var start, end uint8

	switch {
	case !hasBrackets:
		start, end = defaultSlice(ref, widthHint, addr)
	case singleStr != "":
		b, err := parseSliceNum(singleStr)
		if err != nil {
			return Address{}, &sensorerr.BadAddress{Input: addr}
		}
		start, end = b, b+1
	default:
		if startStr != "" {
			b, err := parseSliceNum(startStr)
			if err != nil {
				return Address{}, &sensorerr.BadAddress{Input: addr}
			}
			start = b
		} else if ref != nil {
			start = ref.SliceStart
		} else {
			start = 0
		}
		if endStr != "" {
			b, err := parseSliceNum(endStr)
			if err != nil {
				return Address{}, &sensorerr.BadAddress{Input: addr}
			}
			end = b
		} else if ref != nil {
			end = ref.SliceEnd
		} else if widthHint != nil {
			end = start + 8*(*widthHint) - 1
		} else {
			return Address{}, &sensorerr.BadAddress{Input: addr}
		}
	}

	return Address{Base: base, SliceStart: start, SliceEnd: end}, nil
}

func defaultSlice(ref *Address, widthHint *uint8, addr string) (start, end uint8) {
	if ref != nil {
		return ref.SliceStart, ref.SliceEnd
	}
	if widthHint != nil {
		return 0, 8*(*widthHint) - 1
	}
	return 0, 0
}

func parseSliceNum(s string) (uint8, error) {
	b, err := numeral.ParseNum(s)
	if err != nil {
		return 0, err
	}
	switch len(b) {
	case 0:
		return 0, nil
	case 1:
		return b[0], nil
	default:
		return 0, &sensorerr.BadAddress{Input: s}
	}
}

// AsU64 interprets Base as a big-endian unsigned integer. Base must be
// at most 8 bytes.
func (a Address) AsU64() (uint64, error) {
	if len(a.Base) > 8 {
		return 0, &sensorerr.BadAddress{Input: strconv.Itoa(len(a.Base)) + " byte base"}
	}
	var v uint64
	for _, b := range a.Base {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// ByteCount returns the number of bytes needed to hold the addressed
// bit slice: ceil((SliceEnd - SliceStart) / 8).
func (a Address) ByteCount() int {
	bits := int(a.SliceEnd) - int(a.SliceStart)
	if bits <= 0 {
		return 0
	}
	return (bits + 7) / 8
}

// String renders an Address as "0x" + uppercase hex of Base, with a
// [start:end] slice suffix unless the slice is exactly [0, 8*len(Base)).
// The default slice sized from a width hint, [0, 8*width-1), is
// therefore rendered with its suffix.
func (a Address) String() string {
	s := "0x" + strings.ToUpper(hex.EncodeToString(a.Base))
	if a.SliceStart == 0 && a.SliceEnd == 8*uint8(len(a.Base)) {
		return s
	}
	return fmt.Sprintf("%s[%d:%d]", s, a.SliceStart, a.SliceEnd)
}
