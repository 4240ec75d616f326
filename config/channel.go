package config

import (
	"github.com/sensorfs/sensorfs/channel"
	"github.com/sensorfs/sensorfs/sensorerr"
)

// ChannelDoc is the discriminated channel shape read from YAML: mode
// selects which of the other fields apply.
type ChannelDoc struct {
	Mode    string `yaml:"mode"`
	Bus     uint8  `yaml:"bus"`
	Address uint8  `yaml:"address"`
	Base    uint64 `yaml:"base"`
	Len     uint64 `yaml:"len"`
}

// Verify checks that Mode names a known channel variant.
func (c ChannelDoc) Verify() error {
	switch c.Mode {
	case "i2c-cdev", "mmaped-gpio":
		return nil
	default:
		return &sensorerr.ConfigParse{Path: "channel.mode", Err: errUnknownMode(c.Mode)}
	}
}

// Build constructs the concrete channel.Channel this document describes.
func (c ChannelDoc) Build() (channel.Channel, error) {
	switch c.Mode {
	case "i2c-cdev":
		return channel.NewI2CDev(c.Bus, c.Address), nil
	case "mmaped-gpio":
		return channel.NewMMapGPIO(c.Base, c.Len), nil
	default:
		return nil, &sensorerr.ConfigParse{Path: "channel.mode", Err: errUnknownMode(c.Mode)}
	}
}

type errUnknownMode string

func (e errUnknownMode) Error() string { return "unknown channel mode " + string(e) }
