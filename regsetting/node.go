package regsetting

import (
	"sort"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/pathfs"
	"github.com/sensorfs/sensorfs/sensorerr"
)

// IsDir reports whether path addresses a directory within a
// RegisterSetting: {} and {map}, {functions} are directories;
// everything below routes structurally, except a "value" segment
// which is always a file.
func (s *RegisterSetting) IsDir(path []string) (bool, error) {
	if len(path) == 0 {
		return true, nil
	}
	switch path[0] {
	case "map":
		return s.isDirMap(path[1:])
	case "functions":
		return s.isDirFunctions(path[1:])
	}
	return false, &sensorerr.NotFound{Name: path[0]}
}

func (s *RegisterSetting) isDirMap(path []string) (bool, error) {
	if len(path) == 0 {
		return true, nil
	}
	reg, ok := s.Map[path[0]]
	if !ok {
		return false, &sensorerr.NotFound{Name: path[0]}
	}
	rest := path[1:]
	if len(rest) == 0 {
		return true, nil
	}
	if rest[0] == "value" {
		if len(rest) != 1 {
			return false, &sensorerr.NotADirectory{Parent: "value", Child: rest[1]}
		}
		return false, nil
	}
	return pathfs.ReflectIsDir(reg, rest)
}

func (s *RegisterSetting) isDirFunctions(path []string) (bool, error) {
	if len(path) == 0 {
		return true, nil
	}
	fn, ok := s.Functions[path[0]]
	if !ok {
		return false, &sensorerr.NotFound{Name: path[0]}
	}
	rest := path[1:]
	if len(rest) == 0 {
		return true, nil
	}
	if rest[0] == "value" {
		if len(rest) != 1 {
			return false, &sensorerr.NotADirectory{Parent: "value", Child: rest[1]}
		}
		return false, nil
	}
	return pathfs.ReflectIsDir(fn, rest)
}

// Read dispatches a path into map or functions, intercepting a trailing
// "value" segment under a register or function to pass the channel
// down to it.
func (s *RegisterSetting) Read(ctx cancel.Context, path []string) (pathfs.Result, error) {
	if len(path) == 0 {
		return pathfs.Dir([]string{"map", "functions"}), nil
	}
	switch path[0] {
	case "map":
		return s.readMap(ctx, path[1:])
	case "functions":
		return s.readFunctions(ctx, path[1:])
	}
	return pathfs.Result{}, &sensorerr.NotFound{Name: path[0]}
}

func registerNames(m map[string]*Register) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func functionNames(m map[string]*Function) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s *RegisterSetting) readMap(ctx cancel.Context, path []string) (pathfs.Result, error) {
	if len(path) == 0 {
		return pathfs.Dir(registerNames(s.Map)), nil
	}
	reg, ok := s.Map[path[0]]
	if !ok {
		return pathfs.Result{}, &sensorerr.NotFound{Name: path[0]}
	}
	rest := path[1:]
	if len(rest) > 0 && rest[0] == "value" {
		if len(rest) != 1 {
			return pathfs.Result{}, &sensorerr.NotADirectory{Parent: "value", Child: rest[1]}
		}
		content, err := reg.ReadValue(ctx, s.Channel)
		if err != nil {
			return pathfs.Result{}, err
		}
		return pathfs.File(content), nil
	}
	return pathfs.ReflectRead(reg, rest)
}

func (s *RegisterSetting) readFunctions(ctx cancel.Context, path []string) (pathfs.Result, error) {
	if len(path) == 0 {
		return pathfs.Dir(functionNames(s.Functions)), nil
	}
	fn, ok := s.Functions[path[0]]
	if !ok {
		return pathfs.Result{}, &sensorerr.NotFound{Name: path[0]}
	}
	rest := path[1:]
	if len(rest) > 0 && rest[0] == "value" {
		if len(rest) != 1 {
			return pathfs.Result{}, &sensorerr.NotADirectory{Parent: "value", Child: rest[1]}
		}
		content, err := fn.ReadValue(ctx, s.Channel)
		if err != nil {
			return pathfs.Result{}, err
		}
		return pathfs.File(content), nil
	}
	return pathfs.ReflectRead(fn, rest)
}

// Write dispatches a path the same way Read does, with the same
// "value" interception.
func (s *RegisterSetting) Write(ctx cancel.Context, path []string, data []byte) error {
	if len(path) == 0 {
		return &sensorerr.Unsupported{Op: "write", Type: "directory"}
	}
	switch path[0] {
	case "map":
		return s.writeMap(ctx, path[1:], data)
	case "functions":
		return s.writeFunctions(ctx, path[1:], data)
	}
	return &sensorerr.NotFound{Name: path[0]}
}

func (s *RegisterSetting) writeMap(ctx cancel.Context, path []string, data []byte) error {
	if len(path) == 0 {
		return &sensorerr.Unsupported{Op: "write", Type: "directory"}
	}
	reg, ok := s.Map[path[0]]
	if !ok {
		return &sensorerr.NotFound{Name: path[0]}
	}
	rest := path[1:]
	if len(rest) == 1 && rest[0] == "value" {
		return reg.WriteValue(ctx, s.Channel, data)
	}
	return pathfs.ReflectWrite(reg, rest, data)
}

func (s *RegisterSetting) writeFunctions(ctx cancel.Context, path []string, data []byte) error {
	if len(path) == 0 {
		return &sensorerr.Unsupported{Op: "write", Type: "directory"}
	}
	fn, ok := s.Functions[path[0]]
	if !ok {
		return &sensorerr.NotFound{Name: path[0]}
	}
	rest := path[1:]
	if len(rest) == 1 && rest[0] == "value" {
		return fn.WriteValue(ctx, s.Channel, data)
	}
	return pathfs.ReflectWrite(fn, rest, data)
}
