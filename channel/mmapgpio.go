package channel

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/sensorerr"
)

// pageSize is the mmap granularity /dev/mem offsets are rounded down
// to; an mmap'd window must start on a page boundary.
const pageSize = 4096

// MMapGPIO gives register-style access to a physical address range by
// mapping /dev/mem, as is customary for SoC GPIO/peripheral blocks that
// have no bus protocol of their own. Base and Len describe the window
// in physical address space; addresses handed to ReadValue/WriteValue
// are byte offsets from Base.
type MMapGPIO struct {
	mockState

	Base uint64
	Len  uint64

	mu     sync.Mutex
	lock   mutex
	file   *os.File
	region []byte
}

// NewMMapGPIO builds an MMapGPIO over the physical window [base, base+len).
// /dev/mem is not opened or mapped until the first ReadValue or
// WriteValue call.
func NewMMapGPIO(base, length uint64) *MMapGPIO {
	return &MMapGPIO{Base: base, Len: length, lock: newMutex()}
}

func (g *MMapGPIO) open() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.region != nil {
		return g.region, nil
	}
	logOpen("mmap", "/dev/mem")
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, &sensorerr.ChannelIO{Op: "open /dev/mem", Err: err}
	}

	pageBase := g.Base &^ (pageSize - 1)
	offset := g.Base - pageBase
	mapLen := int(offset + g.Len)
	if rem := mapLen % pageSize; rem != 0 {
		mapLen += pageSize - rem
	}

	region, err := unix.Mmap(int(f.Fd()), int64(pageBase), mapLen, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, &sensorerr.ChannelIO{Op: "mmap", Err: err}
	}
	g.file = f
	g.region = region[offset : offset+g.Len]
	return g.region, nil
}

// ReadValue reads addr.ByteCount() bytes starting at addr's base offset
// within the mapped window.
func (g *MMapGPIO) ReadValue(ctx cancel.Context, addr bitslice.Address) ([]byte, error) {
	if g.GetMock() {
		logMock("read", addr)
		return []byte{}, nil
	}
	if err := g.lock.lock(ctx); err != nil {
		return nil, err
	}
	defer g.lock.unlock()

	region, err := g.open()
	if err != nil {
		return nil, err
	}
	off, err := addr.AsU64()
	if err != nil {
		return nil, err
	}
	n := addr.ByteCount()
	if off+uint64(n) > uint64(len(region)) {
		return nil, &sensorerr.ChannelIO{Op: "read", Err: os.ErrInvalid}
	}
	out := make([]byte, n)
	copy(out, region[off:off+uint64(n)])
	return out, nil
}

// WriteValue writes value at addr's base offset within the mapped
// window.
func (g *MMapGPIO) WriteValue(ctx cancel.Context, addr bitslice.Address, value []byte) error {
	if g.GetMock() {
		logMock("write", addr)
		return nil
	}
	if err := g.lock.lock(ctx); err != nil {
		return err
	}
	defer g.lock.unlock()

	region, err := g.open()
	if err != nil {
		return err
	}
	off, err := addr.AsU64()
	if err != nil {
		return err
	}
	if off+uint64(len(value)) > uint64(len(region)) {
		return &sensorerr.ChannelIO{Op: "write", Err: os.ErrInvalid}
	}
	copy(region[off:], value)
	return nil
}
