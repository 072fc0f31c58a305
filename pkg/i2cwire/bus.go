package i2cwire

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/yunginnanet/ftdi-ad7147/pkg/ad7147"
	"periph.io/x/conn/v3/i2c"
)

// Bus drives a periph.io [i2c.Bus].
//
// periph performs whole transactions, so End(true) only parks the frame; the
// parked frame becomes the write half of the next Request's Tx, which the
// controller joins to the read with a repeated start. An address NACK on a
// held frame therefore surfaces at Request time as zero bytes received.
type Bus struct {
	bus i2c.Bus
	log zerolog.Logger

	tx   frame
	held *frame
	rx   rxBuffer
	err  error
}

// NewBus wraps bus. The bus stays owned by the caller.
func NewBus(bus i2c.Bus) *Bus {
	return &Bus{bus: bus, log: zerolog.Nop()}
}

// SetLogger sets the logger for failed transactions.
func (b *Bus) SetLogger(l zerolog.Logger) {
	b.log = l.With().Str("caller", "i2cwire").Stringer("bus", b.bus).Logger()
}

func (b *Bus) String() string {
	return fmt.Sprintf("i2cwire.Bus{%s}", b.bus)
}

// Err returns the controller error behind the last failed End or Request.
func (b *Bus) Err() error {
	return b.err
}

func (b *Bus) Begin(addr uint8) {
	b.err = nil
	b.tx.begin(addr)
}

func (b *Bus) Queue(v byte) {
	b.tx.queue(v)
}

func (b *Bus) End(hold bool) ad7147.Status {
	if b.tx.over {
		b.err = fmt.Errorf("frame exceeds %d bytes", BufferSize)
		return ad7147.StatusTooLong
	}
	b.flushHeld()
	if hold {
		held := frame{addr: b.tx.addr, buf: append([]byte(nil), b.tx.buf...)}
		b.held = &held
		return ad7147.StatusOK
	}
	if err := b.tx16(b.tx.addr, b.tx.buf, nil); err != nil {
		return ad7147.StatusOther
	}
	return ad7147.StatusOK
}

func (b *Bus) Request(addr uint8, count int) int {
	b.rx.reset()

	var w []byte
	if b.held != nil && b.held.addr == addr {
		w = b.held.buf
		b.held = nil
	} else {
		b.flushHeld()
	}

	r := make([]byte, count)
	if err := b.tx16(addr, w, r); err != nil {
		return 0
	}
	b.rx.load(r)
	return count
}

func (b *Bus) Available() int {
	return b.rx.available()
}

func (b *Bus) Receive() byte {
	return b.rx.next()
}

// flushHeld sends a parked frame that no Request picked up. The End that
// parked it already returned, so a failure here is logged and kept out of the
// status and Err of the transaction in progress.
func (b *Bus) flushHeld() {
	if b.held == nil {
		return
	}
	h := b.held
	b.held = nil
	if err := b.bus.Tx(uint16(h.addr), h.buf, nil); err != nil {
		b.log.Warn().Err(err).Uint8("addr", h.addr).Hex("w", h.buf).Msg("unclaimed held frame failed")
	}
}

func (b *Bus) tx16(addr uint8, w, r []byte) error {
	if err := b.bus.Tx(uint16(addr), w, r); err != nil {
		b.err = err
		b.log.Debug().Err(err).Uint8("addr", addr).Hex("w", w).Int("r", len(r)).Msg("tx failed")
		return err
	}
	return nil
}
