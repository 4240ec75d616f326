package regsetting

import (
	"encoding/hex"
	"strings"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/channel"
	"github.com/sensorfs/sensorfs/numeral"
	"github.com/sensorfs/sensorfs/sensorerr"
)

// Register is a direct, primitive addressable field on a device. It
// owns no channel: the enclosing RegisterSetting supplies one as a
// parameter at access time.
type Register struct {
	Address     bitslice.Address `pathfs:"address,ro"`
	Width       *uint8           `pathfs:"width,ro"`
	Mask        string           `pathfs:"mask,ro"`
	Range       *Range           `pathfs:"range,ro"`
	Default     *uint64          `pathfs:"default,ro"`
	Description Description      `pathfs:"description,ro"`
}

// BaseAddress satisfies bitslice.RegisterLike, letting other addresses
// in the same document reference this register symbolically.
func (r *Register) BaseAddress() bitslice.Address {
	return r.Address
}

// VirtualFieldNames satisfies pathfs.VirtualFielder: a register's
// directory listing includes "value" even though it is not a struct
// field.
func (r *Register) VirtualFieldNames() []string { return []string{"value"} }

// ReadValue requires a configured width, delegates to the channel, and
// renders the result as an uppercase hex string prefixed with "0x" (or
// "" when empty).
func (r *Register) ReadValue(ctx cancel.Context, ch channel.Channel) (string, error) {
	if r.Width == nil {
		return "", &sensorerr.MissingWidth{Register: "<register>"}
	}
	raw, err := ch.ReadValue(ctx, r.Address)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}
	return "0x" + strings.ToUpper(hex.EncodeToString(raw)), nil
}

// WriteValue parses a possibly masked literal, left-pads it to width,
// and either writes the value directly or read-modify-writes it
// against the mask.
func (r *Register) WriteValue(ctx cancel.Context, ch channel.Channel, data []byte) error {
	if r.Width == nil {
		return &sensorerr.MissingWidth{Register: "<register>"}
	}
	width := int(*r.Width)

	mask, value, err := numeral.ParseNumMask(string(data))
	if err != nil {
		return err
	}
	if len(value) > width {
		return &sensorerr.OverlongValue{Register: "<register>", Got: len(value), Width: width}
	}
	value = leftPad(value, width)

	if mask == nil {
		return ch.WriteValue(ctx, r.Address, value)
	}
	mask = leftPad(mask, width)

	current, err := ch.ReadValue(ctx, r.Address)
	if err != nil {
		return err
	}
	current = leftPad(current, width)

	merged := make([]byte, width)
	for i := 0; i < width; i++ {
		merged[i] = (value[i] & mask[i]) | (current[i] &^ mask[i])
	}
	return ch.WriteValue(ctx, r.Address, merged)
}

// leftPad left-pads b with zero bytes to length n. It never truncates;
// callers must already have checked b fits.
func leftPad(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}
