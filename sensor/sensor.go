// Package sensor holds the top-level container tying a device model
// name to its named RegisterSettings.
package sensor

import (
	"sort"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/pathfs"
	"github.com/sensorfs/sensorfs/regsetting"
	"github.com/sensorfs/sensorfs/sensorerr"
)

// Sensor is the root of the configured object graph: a model name plus
// a named set of Register Settings, one per physical device sharing
// this process.
type Sensor struct {
	Model     string
	Registers map[string]*regsetting.RegisterSetting
}

// Mocked toggles mock mode on every channel owned by this sensor's
// Register Settings. It is meant to run once at startup, before
// concurrent traffic begins.
func (s *Sensor) Mocked(mock bool) {
	for _, setting := range s.Registers {
		setting.Channel.SetMock(mock)
	}
}

func (s *Sensor) deviceNames() []string {
	names := make([]string, 0, len(s.Registers))
	for k := range s.Registers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsDir implements the root of the path-reflection tree: the empty path
// and any single device name are directories; everything past the
// device name is delegated to its RegisterSetting.
func (s *Sensor) IsDir(path []string) (bool, error) {
	if len(path) == 0 {
		return true, nil
	}
	setting, ok := s.Registers[path[0]]
	if !ok {
		return false, &sensorerr.NotFound{Name: path[0]}
	}
	return setting.IsDir(path[1:])
}

// Read implements the root of the path-reflection tree.
func (s *Sensor) Read(ctx cancel.Context, path []string) (pathfs.Result, error) {
	if len(path) == 0 {
		return pathfs.Dir(s.deviceNames()), nil
	}
	setting, ok := s.Registers[path[0]]
	if !ok {
		return pathfs.Result{}, &sensorerr.NotFound{Name: path[0]}
	}
	return setting.Read(ctx, path[1:])
}

// Write implements the root of the path-reflection tree.
func (s *Sensor) Write(ctx cancel.Context, path []string, data []byte) error {
	if len(path) == 0 {
		return &sensorerr.Unsupported{Op: "write", Type: "directory"}
	}
	setting, ok := s.Registers[path[0]]
	if !ok {
		return &sensorerr.NotFound{Name: path[0]}
	}
	return setting.Write(ctx, path[1:], data)
}
