package regsetting_test

import (
	"errors"
	"testing"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/regsetting"
	"github.com/sensorfs/sensorfs/sensorerr"
	"github.com/sensorfs/sensorfs/valuemap"
)

func TestFunctionReadWithMap(t *testing.T) {
	addr, err := bitslice.Parse("0x10", width(1))
	if err != nil {
		t.Fatal(err)
	}
	vm := valuemap.New(valuemap.Keywords)
	vm.AddKeyword([]byte{0x00}, "idle")

	f := &regsetting.Function{Addr: addr, Map: vm}
	rec := &recordingChannel{readReturn: []byte{0x00}}

	got, err := f.ReadValue(cancel.New(), rec)
	if err != nil {
		t.Fatal(err)
	}
	if got != "idle" {
		t.Errorf("ReadValue() = %q, want idle", got)
	}
}

func TestFunctionWriteNotWritable(t *testing.T) {
	addr, err := bitslice.Parse("0x10", width(1))
	if err != nil {
		t.Fatal(err)
	}
	f := &regsetting.Function{Addr: addr, Writable: false}
	rec := &recordingChannel{}

	err = f.WriteValue(cancel.New(), rec, []byte("1"))
	var ro *sensorerr.ReadOnly
	if !errors.As(err, &ro) {
		t.Fatalf("WriteValue on non-writable function: got %v, want ReadOnly", err)
	}
}

func TestFunctionWriteThroughMap(t *testing.T) {
	addr, err := bitslice.Parse("0x10", width(1))
	if err != nil {
		t.Fatal(err)
	}
	vm := valuemap.New(valuemap.Fixed)
	vm.AddFixed([]byte{0x05}, 5)

	f := &regsetting.Function{Addr: addr, Map: vm, Writable: true}
	rec := &recordingChannel{}

	if err := f.WriteValue(cancel.New(), rec, []byte("5")); err != nil {
		t.Fatal(err)
	}
	if len(rec.lastWrite) != 1 || rec.lastWrite[0] != 0x05 {
		t.Errorf("write = %x, want 05", rec.lastWrite)
	}
}
