package regsetting

import (
	"github.com/sensorfs/sensorfs/channel"
)

// RegisterSetting bundles one channel with a device's register and
// function maps. It is the exclusive owner of the channel; Register and
// Function values never hold one themselves, so RegisterSetting passes
// its channel down as a parameter whenever a `value` leaf is reached.
type RegisterSetting struct {
	Channel   channel.Channel
	Map       map[string]*Register
	Functions map[string]*Function
}

// Register looks up a named register, reporting ok=false when absent.
func (s *RegisterSetting) Register(name string) (*Register, bool) {
	r, ok := s.Map[name]
	return r, ok
}

// Function looks up a named function, reporting ok=false when absent.
func (s *RegisterSetting) Function(name string) (*Function, bool) {
	f, ok := s.Functions[name]
	return f, ok
}
