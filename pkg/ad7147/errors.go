package ad7147

import (
	"errors"
	"fmt"
	"strconv"
)

// Status is the end-of-transaction status reported by a [Wire].
// The codes follow the Arduino Wire library.
type Status uint8

const (
	StatusOK          Status = 0
	StatusTooLong     Status = 1 // frame exceeded the transmit buffer
	StatusAddressNACK Status = 2 // NACK on the address byte
	StatusDataNACK    Status = 3 // NACK on a data byte
	StatusOther       Status = 4 // any other bus error
)

var (
	ErrTooLong          = errors.New("frame too long for transmit buffer")
	ErrAddressNACK      = errors.New("NACK on transmit of address")
	ErrDataNACK         = errors.New("NACK on transmit of data")
	ErrBus              = errors.New("bus error")
	ErrShortRead        = errors.New("short read: fewer than 2 bytes available")
	ErrUnexpectedDevice = errors.New("unexpected device")
)

func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTooLong:
		return ErrTooLong.Error()
	case StatusAddressNACK:
		return ErrAddressNACK.Error()
	case StatusDataNACK:
		return ErrDataNACK.Error()
	default:
		return ErrBus.Error() + " (status " + strconv.Itoa(int(s)) + ")"
	}
}

// Is lets errors.Is match a Status against the sentinel errors above.
func (s Status) Is(target error) bool {
	switch s {
	case StatusTooLong:
		return target == ErrTooLong
	case StatusAddressNACK:
		return target == ErrAddressNACK
	case StatusDataNACK:
		return target == ErrDataNACK
	case StatusOK:
		return false
	default:
		return target == ErrBus
	}
}

// TransportError is returned by register transactions that the bus did not complete.
type TransportError struct {
	Op       string // "write" or "read"
	Register Register
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ad7147: %s %s (0x%03X): %v", e.Op, e.Register, uint16(e.Register), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one register read.
type Result struct {
	Register Register
	Value    uint16
	Err      error
}

// OK reports whether the read succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Int returns the value, or -1 if the read failed.
func (r Result) Int() int32 {
	if r.Err != nil {
		return -1
	}
	return int32(r.Value)
}

func (r Result) String() string {
	return strconv.Itoa(int(r.Int()))
}

// lastErrorer is implemented by transports that keep the error behind their last Status.
type lastErrorer interface {
	Err() error
}

func (dev *AD7147) transportErr(op string, reg Register, cause error) error {
	if le, ok := dev.wire.(lastErrorer); ok {
		if werr := le.Err(); werr != nil {
			cause = errors.Join(cause, werr)
		}
	}
	return &TransportError{Op: op, Register: reg, Err: cause}
}
