package channel_test

import (
	"testing"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/channel"
)

func TestI2CDevMock(t *testing.T) {
	dev := channel.NewI2CDev(1, 0x36)
	dev.SetMock(true)
	if !dev.GetMock() {
		t.Fatal("GetMock() = false after SetMock(true)")
	}

	ctx := cancel.New()
	addr, err := bitslice.Parse("0x0010", width(1))
	if err != nil {
		t.Fatal(err)
	}

	got, err := dev.ReadValue(ctx, addr)
	if err != nil {
		t.Fatalf("ReadValue in mock mode: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("mock ReadValue returned %d bytes, want 0 (mock reads return empty byte vectors)", len(got))
	}

	if err := dev.WriteValue(ctx, addr, []byte{0xAB}); err != nil {
		t.Fatalf("WriteValue in mock mode: %v", err)
	}
}

func TestMMapGPIOMock(t *testing.T) {
	g := channel.NewMMapGPIO(0x3f200000, 0x40)
	g.SetMock(true)

	ctx := cancel.New()
	addr, err := bitslice.Parse("0x04", width(1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := g.ReadValue(ctx, addr); err != nil {
		t.Fatalf("ReadValue in mock mode: %v", err)
	}
	if err := g.WriteValue(ctx, addr, []byte{0x01}); err != nil {
		t.Fatalf("WriteValue in mock mode: %v", err)
	}
}

func width(w uint8) *uint8 { return &w }
