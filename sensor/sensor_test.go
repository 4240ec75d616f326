package sensor_test

import (
	"testing"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/channel"
	"github.com/sensorfs/sensorfs/regsetting"
	"github.com/sensorfs/sensorfs/sensor"
)

func width(w uint8) *uint8 { return &w }

func TestSensorRootListing(t *testing.T) {
	addr, err := bitslice.Parse("0x10", width(1))
	if err != nil {
		t.Fatal(err)
	}
	ch := channel.NewI2CDev(1, 0x36)
	ch.SetMock(true)
	s := &sensor.Sensor{
		Model: "imx219",
		Registers: map[string]*regsetting.RegisterSetting{
			"main": {
				Channel: ch,
				Map:     map[string]*regsetting.Register{"gain": {Address: addr, Width: width(1)}},
			},
		},
	}

	res, err := s.Read(cancel.New(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsDir || len(res.Listing) != 1 || res.Listing[0] != "main" {
		t.Fatalf("root listing = %+v, want [main]", res)
	}

	res, err = s.Read(cancel.New(), []string{"main", "map", "gain", "value"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsDir {
		t.Fatal("value should be a file")
	}
}

func TestSensorMockedPropagates(t *testing.T) {
	ch := channel.NewI2CDev(1, 0x36)
	s := &sensor.Sensor{Registers: map[string]*regsetting.RegisterSetting{"main": {Channel: ch}}}
	s.Mocked(true)
	if !ch.GetMock() {
		t.Fatal("Mocked(true) did not propagate to channel")
	}
}
