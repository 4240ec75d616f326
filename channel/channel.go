// Package channel implements the uniform read/write interface to a
// physical device (an I²C character device or memory-mapped GPIO
// range), including a mock mode that short-circuits hardware access.
// Locking is a channel-of-struct{} guarded by a cancellable context.
package channel

import (
	"log/slog"

	"github.com/GoAethereal/cancel"
	"github.com/sensorfs/sensorfs/bitslice"
)

// Channel is a uniform handle to a physical device. Implementations
// lazily open their OS resource on first use and serialize access to it
// behind a single-writer lock.
type Channel interface {
	ReadValue(ctx cancel.Context, addr bitslice.Address) ([]byte, error)
	WriteValue(ctx cancel.Context, addr bitslice.Address, value []byte) error
	SetMock(mock bool)
	GetMock() bool
}

// mutex is a channel-of-struct{} that must be seeded once, supporting
// context-cancelable locking.
type mutex chan struct{}

func newMutex() mutex {
	m := make(mutex, 1)
	m <- struct{}{}
	return m
}

func (m mutex) lock(ctx cancel.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m:
		return nil
	}
}

func (m mutex) unlock() {
	m <- struct{}{}
}

// mockState is embedded by both channel variants to share the mock
// flag. The flag is not guarded by a lock.
type mockState struct {
	mock bool
}

func (s *mockState) SetMock(mock bool) { s.mock = mock }
func (s *mockState) GetMock() bool     { return s.mock }

func logOpen(kind, detail string) {
	slog.Debug("opening device", "kind", kind, "detail", detail)
}

func logMock(op string, addr bitslice.Address) {
	slog.Debug("mock channel op", "op", op, "bytes", addr.ByteCount())
}
