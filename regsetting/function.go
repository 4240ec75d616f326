package regsetting

import (
	"encoding/hex"
	"strings"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/channel"
	"github.com/sensorfs/sensorfs/sensorerr"
	"github.com/sensorfs/sensorfs/valuemap"
)

// Function is a named logical field layered over the register map,
// optionally translating raw bytes through a ValueMap. Like Register it
// owns no channel.
type Function struct {
	Addr        bitslice.Address   `pathfs:"addr,ro"`
	Description Description        `pathfs:"description,ro"`
	Map         *valuemap.ValueMap `pathfs:"map,skip"`
	Writable    bool               `pathfs:"writable,ro"`
	Default     *uint64            `pathfs:"default,ro"`
}

// VirtualFieldNames satisfies pathfs.VirtualFielder: a function's
// directory listing includes a synthetic "value" leaf.
func (f *Function) VirtualFieldNames() []string { return []string{"value"} }

// ReadValue reads the function's underlying address and, if a value
// map is configured, translates the raw bytes through it.
func (f *Function) ReadValue(ctx cancel.Context, ch channel.Channel) (string, error) {
	raw, err := ch.ReadValue(ctx, f.Addr)
	if err != nil {
		return "", err
	}
	if f.Map != nil {
		return f.Map.Lookup(raw)
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}

// WriteValue translates data through the value map (if configured)
// and writes the result to the function's underlying address.
func (f *Function) WriteValue(ctx cancel.Context, ch channel.Channel, data []byte) error {
	if !f.Writable {
		return &sensorerr.ReadOnly{Name: "function"}
	}
	var value []byte
	if f.Map != nil {
		v, err := f.Map.Encode(string(data))
		if err != nil {
			return err
		}
		value = v
	} else {
		value = data
	}
	return ch.WriteValue(ctx, f.Addr, value)
}
