package config

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/numeral"
	"github.com/sensorfs/sensorfs/regsetting"
	"github.com/sensorfs/sensorfs/sensor"
	"github.com/sensorfs/sensorfs/sensorerr"
	"github.com/sensorfs/sensorfs/valuemap"
)

// PathResolver roots the relative map/functions paths a RegisterSettingDoc
// names against the directory of the top-level YAML file. Load builds
// one per call and never mutates it afterward.
type PathResolver struct {
	root string
}

// NewPathResolver builds a PathResolver rooted at topLevelFile's directory.
func NewPathResolver(topLevelFile string) PathResolver {
	return PathResolver{root: filepath.Dir(topLevelFile)}
}

// Resolve joins a side-file path against the resolver's root, passing
// absolute paths through unchanged.
func (p PathResolver) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, path)
}

// Load reads the top-level YAML file, resolves its map/functions side
// files relative to it, and cross-links everything into a sensor.Sensor.
func Load(topLevelFile string) (*sensor.Sensor, error) {
	data, err := os.ReadFile(topLevelFile)
	if err != nil {
		return nil, &sensorerr.ConfigParse{Path: topLevelFile, Err: err}
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, &sensorerr.ConfigParse{Path: topLevelFile, Err: err}
	}

	resolver := NewPathResolver(topLevelFile)
	sen := &sensor.Sensor{Model: doc.Model, Registers: make(map[string]*regsetting.RegisterSetting, len(doc.Registers))}

	for name, settingDoc := range doc.Registers {
		setting, err := buildSetting(resolver, settingDoc)
		if err != nil {
			return nil, &sensorerr.ConfigParse{Path: name, Err: err}
		}
		sen.Registers[name] = setting
	}
	return sen, nil
}

func buildSetting(resolver PathResolver, doc RegisterSettingDoc) (*regsetting.RegisterSetting, error) {
	if err := doc.Channel.Verify(); err != nil {
		return nil, err
	}
	ch, err := doc.Channel.Build()
	if err != nil {
		return nil, err
	}

	regDocs, err := loadRegisterMap(resolver, doc.Map)
	if err != nil {
		return nil, err
	}
	registers, err := buildRegisters(regDocs)
	if err != nil {
		return nil, err
	}

	var functions map[string]*regsetting.Function
	if doc.Functions != "" {
		fnDocs, err := loadFunctionMap(resolver, doc.Functions)
		if err != nil {
			return nil, err
		}
		functions, err = buildFunctions(fnDocs, registers)
		if err != nil {
			return nil, err
		}
	}

	return &regsetting.RegisterSetting{Channel: ch, Map: registers, Functions: functions}, nil
}

func loadRegisterMap(resolver PathResolver, path string) (map[string]RegisterDoc, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(resolver.Resolve(path))
	if err != nil {
		return nil, err
	}
	return ParseRegisterMap(data)
}

func loadFunctionMap(resolver PathResolver, path string) (map[string]FunctionDoc, error) {
	data, err := os.ReadFile(resolver.Resolve(path))
	if err != nil {
		return nil, err
	}
	return ParseFunctionMap(data)
}

// buildRegisters resolves every declared register's address, allowing
// one register's address to name another register declared in the same
// file as its symbolic base. Resolution proceeds in passes over the
// remaining unresolved set until a pass makes no progress.
func buildRegisters(docs map[string]RegisterDoc) (map[string]*regsetting.Register, error) {
	registers := make(map[string]*regsetting.Register, len(docs))
	registry := make(map[string]bitslice.RegisterLike, len(docs))

	pending := make([]string, 0, len(docs))
	for name := range docs {
		pending = append(pending, name)
	}
	sort.Strings(pending)

	for len(pending) > 0 {
		var next []string
		progressed := false
		for _, name := range pending {
			rd := docs[name]
			base := rd.Address
			if i := strings.IndexByte(base, '['); i >= 0 {
				base = base[:i]
			}
			if _, declared := docs[base]; declared {
				if _, built := registry[base]; !built {
					next = append(next, name)
					continue
				}
			}
			addr, err := bitslice.ParseWithRegistry(rd.Address, registry, rd.Width)
			if err != nil {
				next = append(next, name)
				continue
			}
			reg, err := buildRegister(rd, addr)
			if err != nil {
				return nil, err
			}
			registers[name] = reg
			registry[name] = reg
			progressed = true
		}
		if !progressed {
			return nil, &sensorerr.BadAddress{Input: next[0]}
		}
		pending = next
	}
	return registers, nil
}

func buildRegister(rd RegisterDoc, addr bitslice.Address) (*regsetting.Register, error) {
	reg := &regsetting.Register{Address: addr, Width: rd.Width, Mask: rd.Mask, Description: rd.Description}
	if rd.Min != nil || rd.Max != nil {
		r := regsetting.Range{}
		if rd.Min != nil {
			r.Min = *rd.Min
		}
		if rd.Max != nil {
			r.Max = *rd.Max
		}
		reg.Range = &r
	}
	if rd.Default != nil {
		v, err := regsetting.ParseDefault(*rd.Default)
		if err != nil {
			return nil, err
		}
		reg.Default = &v
	}
	return reg, nil
}

func buildFunctions(docs map[string]FunctionDoc, registers map[string]*regsetting.Register) (map[string]*regsetting.Function, error) {
	registry := make(map[string]bitslice.RegisterLike, len(registers))
	for name, r := range registers {
		registry[name] = r
	}

	functions := make(map[string]*regsetting.Function, len(docs))
	for name, fd := range docs {
		addr, err := bitslice.ParseNamed(fd.Addr, registry)
		if err != nil {
			return nil, err
		}

		fn := &regsetting.Function{Addr: addr, Description: fd.Description, Writable: fd.Writable}
		if len(fd.Map) > 0 {
			vm, err := buildValueMap(fd.Map)
			if err != nil {
				return nil, err
			}
			fn.Map = vm
		}
		if fd.Default != nil {
			v, err := regsetting.ParseDefault(*fd.Default)
			if err != nil {
				return nil, err
			}
			fn.Default = &v
		}
		functions[name] = fn
	}
	return functions, nil
}

// buildValueMap classifies a YAML map<key,value> into Keywords, Fixed,
// or Floating by inspecting its values: all unsigned decimal integers
// becomes Fixed, otherwise all parseable as floats becomes Floating,
// anything else falls back to Keywords.
func buildValueMap(raw map[string]string) (*valuemap.ValueMap, error) {
	kind := valuemap.Fixed
	for _, v := range raw {
		if v == "" {
			continue
		}
		if _, err := strconv.ParseUint(v, 10, 64); err == nil {
			continue
		}
		kind = valuemap.Floating
		break
	}
	if kind == valuemap.Fixed {
		for _, v := range raw {
			if _, err := strconv.ParseUint(v, 10, 64); err != nil {
				kind = valuemap.Keywords
				break
			}
		}
	}
	if kind == valuemap.Floating {
		for _, v := range raw {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				kind = valuemap.Keywords
				break
			}
		}
	}

	vm := valuemap.New(kind)
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := raw[k]
		any, bytes := valuemap.KeyFor(k, numeral.ParseNum)
		switch kind {
		case valuemap.Keywords:
			if any {
				vm.AddKeywordAny(v)
			} else {
				vm.AddKeyword(bytes, v)
			}
		case valuemap.Fixed:
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, err
			}
			if any {
				vm.AddFixedAny(n)
			} else {
				vm.AddFixed(bytes, n)
			}
		case valuemap.Floating:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, err
			}
			if any {
				vm.AddFloatAny(f)
			} else {
				vm.AddFloat(bytes, f)
			}
		}
	}
	return vm, nil
}
