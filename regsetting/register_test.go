package regsetting_test

import (
	"testing"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/channel"
	"github.com/sensorfs/sensorfs/regsetting"
)

func width(w uint8) *uint8 { return &w }

func TestRegisterReadRequiresWidth(t *testing.T) {
	addr, err := bitslice.Parse("0x10", width(1))
	if err != nil {
		t.Fatal(err)
	}
	r := &regsetting.Register{Address: addr}
	ch := channel.NewI2CDev(0, 0x36)
	ch.SetMock(true)

	_, err = r.ReadValue(cancel.New(), ch)
	if err == nil {
		t.Fatal("ReadValue without width: want error, got nil")
	}
}

func TestRegisterReadHexFormat(t *testing.T) {
	addr, err := bitslice.Parse("0x10", width(1))
	if err != nil {
		t.Fatal(err)
	}
	r := &regsetting.Register{Address: addr, Width: width(1)}
	ch := channel.NewI2CDev(0, 0x36)
	ch.SetMock(true)

	got, err := r.ReadValue(cancel.New(), ch)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("ReadValue() = %q, want \"\" (mock reads return empty bytes)", got)
	}
}

func TestRegisterWriteLeftPads(t *testing.T) {
	addr, err := bitslice.Parse("0x10", width(2))
	if err != nil {
		t.Fatal(err)
	}
	r := &regsetting.Register{Address: addr, Width: width(2)}

	rec := &recordingChannel{}
	if err := r.WriteValue(cancel.New(), rec, []byte("0xFF")); err != nil {
		t.Fatal(err)
	}
	if rec.lastWrite[0] != 0x00 || rec.lastWrite[1] != 0xFF {
		t.Errorf("write = %x, want left-padded 00FF", rec.lastWrite)
	}
}

func TestRegisterWriteMaskedMergesWithCurrent(t *testing.T) {
	addr, err := bitslice.Parse("0x10", width(1))
	if err != nil {
		t.Fatal(err)
	}
	r := &regsetting.Register{Address: addr, Width: width(1)}

	rec := &recordingChannel{readReturn: []byte{0b11110000}}
	// In binary each z is one bit: "0b1z1z" gives mask 0b1010 and value
	// 0b1010, so bits 3 and 1 are written as 1 and the rest are kept.
	if err := r.WriteValue(cancel.New(), rec, []byte("0b1z1z")); err != nil {
		t.Fatal(err)
	}
	// (0b1010 & 0b1010) | (0b11110000 &^ 0b1010) = 0b11111010
	if len(rec.lastWrite) != 1 {
		t.Fatalf("write len = %d, want 1", len(rec.lastWrite))
	}
	if rec.lastWrite[0] != 0b11111010 {
		t.Errorf("write = %08b, want 11111010", rec.lastWrite[0])
	}
}

type recordingChannel struct {
	lastWrite  []byte
	readReturn []byte
}

func (c *recordingChannel) ReadValue(ctx cancel.Context, addr bitslice.Address) ([]byte, error) {
	return c.readReturn, nil
}

func (c *recordingChannel) WriteValue(ctx cancel.Context, addr bitslice.Address, value []byte) error {
	c.lastWrite = append([]byte(nil), value...)
	return nil
}

func (c *recordingChannel) SetMock(bool) {}
func (c *recordingChannel) GetMock() bool { return false }
