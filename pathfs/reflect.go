package pathfs

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/sensorfs/sensorfs/sensorerr"
)

// asStringer reports whether rv presents itself as a leaf via
// fmt.Stringer, used for value types like bitslice.Address that are
// structs internally but a single opaque string externally.
func asStringer(rv reflect.Value) (string, bool) {
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String(), true
	}
	if rv.CanAddr() {
		if s, ok := rv.Addr().Interface().(fmt.Stringer); ok {
			return s.String(), true
		}
	}
	return "", false
}

// tagInfo is the parsed form of a `pathfs:"name,opt,opt"` struct tag,
// loosely following encoding/json's tag grammar.
type tagInfo struct {
	name string
	ro   bool
	skip bool
}

func parseTag(f reflect.StructField) tagInfo {
	info := tagInfo{name: strings.ToLower(f.Name)}
	tag, ok := f.Tag.Lookup("pathfs")
	if !ok {
		return info
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		info.name = parts[0]
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "ro":
			info.ro = true
		case "skip":
			info.skip = true
		}
	}
	return info
}

// deref follows pointer indirection (the Option<T> encoding) down to
// the first non-pointer value. It reports isNone when it bottoms out on
// a nil pointer, since a None value is a leaf with content "None" and
// no children regardless of what *T would otherwise be.
func deref(rv reflect.Value) (_ reflect.Value, isNone bool) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return rv, true
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Interface && !rv.IsNil() {
		return deref(rv.Elem())
	}
	return rv, false
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func formatScalar(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}
	return ""
}

// setScalar parses s into rv's underlying type and assigns it. rv must
// be addressable and settable.
func setScalar(rv reflect.Value, s string) error {
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		rv.SetFloat(f)
	default:
		return &sensorerr.Unsupported{Op: "write", Type: rv.Kind().String()}
	}
	return nil
}

// fieldNames lists a struct's non-skip field names in declaration
// order, followed by any virtual field names it declares.
func fieldNames(rv reflect.Value) []string {
	rt := rv.Type()
	names := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		info := parseTag(f)
		if info.skip {
			continue
		}
		names = append(names, info.name)
	}
	if vf, ok := rv.Interface().(VirtualFielder); ok {
		names = append(names, vf.VirtualFieldNames()...)
	} else if rv.CanAddr() {
		if vf, ok := rv.Addr().Interface().(VirtualFielder); ok {
			names = append(names, vf.VirtualFieldNames()...)
		}
	}
	return names
}

func structField(rv reflect.Value, name string) (reflect.Value, tagInfo, error) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		info := parseTag(f)
		if info.skip {
			continue
		}
		if info.name == name {
			return rv.Field(i), info, nil
		}
	}
	return reflect.Value{}, tagInfo{}, &sensorerr.NotFound{Name: name}
}

// ReflectIsDir reports whether path resolves to a directory (struct or
// map) or a leaf (scalar, nil Option).
func ReflectIsDir(v interface{}, path []string) (bool, error) {
	return isDir(reflect.ValueOf(v), path)
}

func isDir(rv reflect.Value, path []string) (bool, error) {
	rv, isNone := deref(rv)
	if isNone {
		if len(path) == 0 {
			return false, nil
		}
		return false, &sensorerr.NotADirectory{Parent: "None", Child: path[0]}
	}
	if s, ok := asStringer(rv); ok {
		if len(path) == 0 {
			return false, nil
		}
		return false, &sensorerr.NotADirectory{Parent: s, Child: path[0]}
	}
	switch {
	case rv.Kind() == reflect.Struct:
		if len(path) == 0 {
			return true, nil
		}
		fv, _, err := structField(rv, path[0])
		if err != nil {
			return false, err
		}
		return isDir(fv, path[1:])
	case rv.Kind() == reflect.Map:
		if len(path) == 0 {
			return true, nil
		}
		mv := rv.MapIndex(reflect.ValueOf(path[0]))
		if !mv.IsValid() {
			return false, &sensorerr.NotFound{Name: path[0]}
		}
		return isDir(mv, path[1:])
	case isScalarKind(rv.Kind()):
		if len(path) == 0 {
			return false, nil
		}
		return false, &sensorerr.NotADirectory{Parent: formatScalar(rv), Child: path[0]}
	default:
		return false, &sensorerr.Unsupported{Op: "is_dir", Type: rv.Kind().String()}
	}
}

// ReflectRead resolves path against v via reflection, producing a
// directory listing or a file's content.
func ReflectRead(v interface{}, path []string) (Result, error) {
	return readValue(reflect.ValueOf(v), path)
}

func readValue(rv reflect.Value, path []string) (Result, error) {
	rv, isNone := deref(rv)
	if isNone {
		if len(path) != 0 {
			return Result{}, &sensorerr.NotADirectory{Parent: "None", Child: path[0]}
		}
		return File("None"), nil
	}
	if s, ok := asStringer(rv); ok {
		if len(path) != 0 {
			return Result{}, &sensorerr.NotADirectory{Parent: s, Child: path[0]}
		}
		return File(s), nil
	}
	switch {
	case rv.Kind() == reflect.Struct:
		if len(path) == 0 {
			return Dir(fieldNames(rv)), nil
		}
		fv, _, err := structField(rv, path[0])
		if err != nil {
			return Result{}, err
		}
		return readValue(fv, path[1:])
	case rv.Kind() == reflect.Map:
		if len(path) == 0 {
			keys := make([]string, 0, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				keys = append(keys, iter.Key().String())
			}
			sort.Strings(keys)
			return Dir(keys), nil
		}
		mv := rv.MapIndex(reflect.ValueOf(path[0]))
		if !mv.IsValid() {
			return Result{}, &sensorerr.NotFound{Name: path[0]}
		}
		return readValue(mv, path[1:])
	case isScalarKind(rv.Kind()):
		if len(path) != 0 {
			return Result{}, &sensorerr.NotADirectory{Parent: formatScalar(rv), Child: path[0]}
		}
		return File(formatScalar(rv)), nil
	default:
		return Result{}, &sensorerr.Unsupported{Op: "read", Type: rv.Kind().String()}
	}
}

// ReflectWrite resolves path against v via reflection and assigns data
// to the addressed scalar field, honoring the `pathfs:"ro"` tag.
func ReflectWrite(v interface{}, path []string, data []byte) error {
	return writeValue(reflect.ValueOf(v), path, data, false)
}

func writeValue(rv reflect.Value, path []string, data []byte, ro bool) error {
	rv, isNone := deref(rv)
	if isNone {
		return &sensorerr.Unsupported{Op: "write", Type: "None"}
	}
	if s, ok := asStringer(rv); ok {
		if len(path) != 0 {
			return &sensorerr.NotADirectory{Parent: s, Child: path[0]}
		}
		return &sensorerr.ReadOnly{Name: s}
	}
	switch {
	case rv.Kind() == reflect.Struct:
		if len(path) == 0 {
			return &sensorerr.Unsupported{Op: "write", Type: "directory"}
		}
		fv, info, err := structField(rv, path[0])
		if err != nil {
			return err
		}
		return writeValue(fv, path[1:], data, ro || info.ro)
	case rv.Kind() == reflect.Map:
		if len(path) == 0 {
			return &sensorerr.Unsupported{Op: "write", Type: "directory"}
		}
		mv := rv.MapIndex(reflect.ValueOf(path[0]))
		if !mv.IsValid() {
			return &sensorerr.NotFound{Name: path[0]}
		}
		return writeValue(mv, path[1:], data, ro)
	case isScalarKind(rv.Kind()):
		if len(path) != 0 {
			return &sensorerr.NotADirectory{Parent: formatScalar(rv), Child: path[0]}
		}
		if ro {
			return &sensorerr.ReadOnly{Name: formatScalar(rv)}
		}
		if !rv.CanSet() {
			return &sensorerr.Unsupported{Op: "write", Type: rv.Kind().String()}
		}
		return setScalar(rv, string(data))
	default:
		return &sensorerr.Unsupported{Op: "write", Type: rv.Kind().String()}
	}
}
