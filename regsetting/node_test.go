package regsetting_test

import (
	"testing"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/regsetting"
)

func newTestSetting(t *testing.T) *regsetting.RegisterSetting {
	t.Helper()
	addr, err := bitslice.Parse("0x10", width(1))
	if err != nil {
		t.Fatal(err)
	}
	reg := &regsetting.Register{Address: addr, Width: width(1)}
	return &regsetting.RegisterSetting{
		Channel: &recordingChannel{},
		Map:     map[string]*regsetting.Register{"gain": reg},
	}
}

func TestRegisterSettingRootListing(t *testing.T) {
	s := newTestSetting(t)
	res, err := s.Read(cancel.New(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsDir || len(res.Listing) != 2 {
		t.Fatalf("root listing = %+v, want [map functions]", res)
	}
}

func TestRegisterSettingMapListing(t *testing.T) {
	s := newTestSetting(t)
	res, err := s.Read(cancel.New(), []string{"map"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsDir || len(res.Listing) != 1 || res.Listing[0] != "gain" {
		t.Fatalf("map listing = %+v, want [gain]", res)
	}
}

func TestRegisterSettingRegisterFields(t *testing.T) {
	s := newTestSetting(t)
	res, err := s.Read(cancel.New(), []string{"map", "gain"})
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, n := range res.Listing {
		found[n] = true
	}
	for _, want := range []string{"address", "width", "mask", "range", "default", "description", "value"} {
		if !found[want] {
			t.Errorf("register listing missing %q, got %v", want, res.Listing)
		}
	}
}

func TestRegisterSettingValueRoutesToChannel(t *testing.T) {
	s := newTestSetting(t)
	res, err := s.Read(cancel.New(), []string{"map", "gain", "value"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsDir {
		t.Fatal("value should be a file")
	}
}

func TestRegisterSettingWriteValue(t *testing.T) {
	s := newTestSetting(t)
	if err := s.Write(cancel.New(), []string{"map", "gain", "value"}, []byte("0x7F")); err != nil {
		t.Fatal(err)
	}
	rec := s.Channel.(*recordingChannel)
	if len(rec.lastWrite) != 1 || rec.lastWrite[0] != 0x7F {
		t.Errorf("write = %x, want 7F", rec.lastWrite)
	}
}
