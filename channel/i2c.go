package channel

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
	"github.com/sensorfs/sensorfs/sensorerr"
)

// i2cSlave is the I2C_SLAVE ioctl request number, as defined by
// linux/i2c-dev.h. golang.org/x/sys/unix does not export it directly.
const i2cSlave = 0x0703

// I2CDev talks to a register-addressed device on a Linux I2C bus
// through the i2c-dev character device. The device file is opened
// lazily on first use and the I2C_SLAVE address is latched once.
type I2CDev struct {
	mockState

	Bus     uint8
	Address uint8

	mu   sync.Mutex
	lock mutex
	file *os.File
}

// NewI2CDev builds an I2CDev for the given bus number and 7 bit slave
// address. The bus's character device is not opened until the first
// ReadValue or WriteValue call.
func NewI2CDev(bus, address uint8) *I2CDev {
	return &I2CDev{Bus: bus, Address: address, lock: newMutex()}
}

func (d *I2CDev) open() (*os.File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file != nil {
		return d.file, nil
	}
	path := fmt.Sprintf("/dev/i2c-%d", d.Bus)
	logOpen("i2c", path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, &sensorerr.ChannelIO{Op: "open " + path, Err: err}
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, int(d.Address)); err != nil {
		f.Close()
		return nil, &sensorerr.ChannelIO{Op: "I2C_SLAVE ioctl", Err: err}
	}
	d.file = f
	return f, nil
}

// ReadValue writes addr's base (the register pointer) and then reads
// addr.ByteCount() bytes back.
func (d *I2CDev) ReadValue(ctx cancel.Context, addr bitslice.Address) ([]byte, error) {
	if d.GetMock() {
		logMock("read", addr)
		return []byte{}, nil
	}
	if err := d.lock.lock(ctx); err != nil {
		return nil, err
	}
	defer d.lock.unlock()

	f, err := d.open()
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(addr.Base); err != nil {
		return nil, &sensorerr.ChannelIO{Op: "write register pointer", Err: err}
	}
	buf := make([]byte, addr.ByteCount())
	if len(buf) > 0 {
		if _, err := f.Read(buf); err != nil {
			return nil, &sensorerr.ChannelIO{Op: "read", Err: err}
		}
	}
	return buf, nil
}

// WriteValue writes addr.Base followed by value in a single transfer.
func (d *I2CDev) WriteValue(ctx cancel.Context, addr bitslice.Address, value []byte) error {
	if d.GetMock() {
		logMock("write", addr)
		return nil
	}
	if err := d.lock.lock(ctx); err != nil {
		return err
	}
	defer d.lock.unlock()

	f, err := d.open()
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(addr.Base)+len(value))
	buf = append(buf, addr.Base...)
	buf = append(buf, value...)
	if _, err := f.Write(buf); err != nil {
		return &sensorerr.ChannelIO{Op: "write", Err: err}
	}
	return nil
}
