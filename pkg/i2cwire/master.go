package i2cwire

import (
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/yunginnanet/ftdi-ad7147/pkg/ad7147"
)

// Master is a bit-level I2C controller.
type Master interface {
	// Start generates a START, or a repeated START while the bus is held.
	Start() error
	// Stop generates a STOP and releases the bus.
	Stop() error
	// SendByte clocks out b MSB first and samples the acknowledge bit,
	// returning [ErrNACK] if the target did not acknowledge.
	SendByte(b byte) error
	// ReceiveByte clocks in one byte, then acknowledges it if ack is set.
	ReceiveByte(ack bool) (byte, error)
}

// MasterWire drives a [Master] one condition and byte at a time, so End(true)
// really leaves the bus held and the following Request begins with a
// repeated start.
type MasterWire struct {
	m   Master
	log zerolog.Logger

	tx  frame
	rx  rxBuffer
	err error
}

// NewMaster wraps m.
func NewMaster(m Master) *MasterWire {
	return &MasterWire{m: m, log: zerolog.Nop()}
}

// SetLogger sets the logger for failed transactions.
func (mw *MasterWire) SetLogger(l zerolog.Logger) {
	mw.log = l.With().Str("caller", "i2cwire").Logger()
}

// Err returns the controller error behind the last failed End or Request.
func (mw *MasterWire) Err() error {
	return mw.err
}

func (mw *MasterWire) Begin(addr uint8) {
	mw.err = nil
	mw.tx.begin(addr)
}

func (mw *MasterWire) Queue(b byte) {
	mw.tx.queue(b)
}

func (mw *MasterWire) End(hold bool) ad7147.Status {
	if mw.tx.over {
		mw.err = fmt.Errorf("frame exceeds %d bytes", BufferSize)
		mw.release()
		return ad7147.StatusTooLong
	}

	if err := mw.m.Start(); err != nil {
		return mw.fail(ad7147.StatusOther, err)
	}
	if err := mw.m.SendByte(mw.tx.addr << 1); err != nil {
		return mw.fail(ad7147.StatusAddressNACK, err)
	}
	for _, b := range mw.tx.buf {
		if err := mw.m.SendByte(b); err != nil {
			return mw.fail(ad7147.StatusDataNACK, err)
		}
	}

	if hold {
		return ad7147.StatusOK
	}
	if err := mw.m.Stop(); err != nil {
		mw.err = err
		return ad7147.StatusOther
	}
	return ad7147.StatusOK
}

func (mw *MasterWire) Request(addr uint8, count int) int {
	mw.rx.reset()
	if count <= 0 {
		return 0
	}

	if err := mw.m.Start(); err != nil {
		mw.fail(ad7147.StatusOther, err)
		return 0
	}
	if err := mw.m.SendByte(addr<<1 | 0x01); err != nil {
		mw.fail(ad7147.StatusAddressNACK, err)
		return 0
	}

	in := make([]byte, 0, count)
	for i := 0; i < count; i++ {
		// the last byte is NACKed to end the read
		b, err := mw.m.ReceiveByte(i < count-1)
		if err != nil {
			mw.fail(ad7147.StatusOther, err)
			mw.rx.load(in)
			return len(in)
		}
		in = append(in, b)
	}

	if err := mw.m.Stop(); err != nil {
		mw.err = err
	}
	mw.rx.load(in)
	return len(in)
}

func (mw *MasterWire) Available() int {
	return mw.rx.available()
}

func (mw *MasterWire) Receive() byte {
	return mw.rx.next()
}

// fail records err, releases the bus and maps a non-NACK error to StatusOther.
func (mw *MasterWire) fail(status ad7147.Status, err error) ad7147.Status {
	mw.err = err
	mw.log.Debug().Err(err).Uint8("addr", mw.tx.addr).Msg("transfer failed")
	mw.release()
	if status != ad7147.StatusOther && !errors.Is(err, ErrNACK) {
		return ad7147.StatusOther
	}
	return status
}

func (mw *MasterWire) release() {
	if err := mw.m.Stop(); err != nil && mw.err == nil {
		mw.err = err
	}
}
