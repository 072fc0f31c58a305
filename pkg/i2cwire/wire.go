// Package i2cwire adapts real I2C controllers to the begin/queue/end/request
// transport used by the ad7147 driver.
//
// Two adapters are provided: [Bus] for any periph.io [i2c.Bus] (Linux i2c-dev,
// USB bridges, ...), where a repeated-start write is merged with the following
// read into a single Tx, and [MasterWire] for bit-level controllers that expose
// start/stop/byte primitives, such as a bit-banged FT232H.
package i2cwire

import (
	"errors"
	"github.com/yunginnanet/ftdi-ad7147/pkg/ad7147"
)

// BufferSize is the largest frame that can be queued between Begin and End.
const BufferSize = 32

// ErrNACK is returned by a [Master] when a byte it sent was not acknowledged.
var ErrNACK = errors.New("i2c: byte not acknowledged")

var (
	_ ad7147.Wire = (*Bus)(nil)
	_ ad7147.Wire = (*MasterWire)(nil)
)

// frame is the outgoing side shared by both adapters.
type frame struct {
	addr uint8
	buf  []byte
	over bool
}

func (f *frame) begin(addr uint8) {
	f.addr = addr
	f.buf = f.buf[:0]
	f.over = false
}

func (f *frame) queue(b byte) {
	if len(f.buf) >= BufferSize {
		f.over = true
		return
	}
	f.buf = append(f.buf, b)
}

// rxBuffer holds received bytes until they are consumed.
type rxBuffer struct {
	buf []byte
	pos int
}

func (r *rxBuffer) load(b []byte) {
	r.buf = append(r.buf[:0], b...)
	r.pos = 0
}

func (r *rxBuffer) reset() {
	r.buf = r.buf[:0]
	r.pos = 0
}

func (r *rxBuffer) available() int {
	return len(r.buf) - r.pos
}

// next returns 0xFF once the buffer is drained, like an idle bus.
func (r *rxBuffer) next() byte {
	if r.pos >= len(r.buf) {
		return 0xFF
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}
