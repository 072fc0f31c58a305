package ft232h

import (
	"errors"
	"fmt"
	"github.com/yunginnanet/ft232h"
	"github.com/yunginnanet/ftdi-ad7147/pkg/i2cwire"
	"periph.io/x/conn/v3/physic"
	"time"
)

// DefaultClock is the nominal SCL rate. USB round trips per pin change keep
// the real rate far below it.
const DefaultClock = 100 * physic.KiloHertz

// stretchTries bounds how long a target may hold SCL low.
const stretchTries = 1000

var (
	ErrPinsNotSet   = errors.New("SCL/SDA pins not set")
	ErrClockStretch = errors.New("SCL held low by target")
)

var _ i2cwire.Master = (*FT232H)(nil)

// SetPins assigns the ACBUS pin masks used for SCL and SDA and releases both lines.
// Both lines need external pull-ups.
func (ft *FT232H) SetPins(scl, sda uint) error {
	if scl == 0 || sda == 0 || scl == sda {
		return fmt.Errorf("%w: scl=0x%02X sda=0x%02X", ErrPinsNotSet, scl, sda)
	}
	ft.scl, ft.sda = ft232h.CPin(scl), ft232h.CPin(sda)
	if err := ft.release(ft.sda); err != nil {
		return err
	}
	return ft.release(ft.scl)
}

// SCLPin returns the pin used for SCL.
func (ft *FT232H) SCLPin() ft232h.CPin {
	return ft.scl
}

// SDAPin returns the pin used for SDA.
func (ft *FT232H) SDAPin() ft232h.CPin {
	return ft.sda
}

// SetClock sets the nominal SCL frequency.
func (ft *FT232H) SetClock(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("invalid SCL frequency %s", f)
	}
	ft.half = f.Period() / 2
	return nil
}

// The lines are open-drain: a high level is produced by switching the pin to
// an input and letting the pull-up win, a low level by driving the output low.

func (ft *FT232H) release(pin ft232h.CPin) error {
	if err := ft.GPIO.ConfigPin(pin, ft232h.Input, true); err != nil {
		return fmt.Errorf("failed to release pin %v: %w", pin, err)
	}
	return nil
}

func (ft *FT232H) pull(pin ft232h.CPin) error {
	if err := ft.GPIO.ConfigPin(pin, ft232h.Output, false); err != nil {
		return fmt.Errorf("failed to drive pin %v low: %w", pin, err)
	}
	return nil
}

func (ft *FT232H) wait() {
	time.Sleep(ft.half)
}

// sclHigh releases SCL and waits out clock stretching.
func (ft *FT232H) sclHigh() error {
	if err := ft.release(ft.scl); err != nil {
		return err
	}
	for i := 0; i < stretchTries; i++ {
		hl, err := ft.GPIO.Get(ft.scl)
		if err != nil {
			return fmt.Errorf("failed to read SCL: %w", err)
		}
		if hl {
			ft.wait()
			return nil
		}
		time.Sleep(10 * time.Microsecond)
	}
	return ErrClockStretch
}

func (ft *FT232H) writeBit(bit bool) error {
	var err error
	if bit {
		err = ft.release(ft.sda)
	} else {
		err = ft.pull(ft.sda)
	}
	if err != nil {
		return err
	}
	ft.wait()
	if err = ft.sclHigh(); err != nil {
		return err
	}
	return ft.pull(ft.scl)
}

func (ft *FT232H) readBit() (bool, error) {
	if err := ft.release(ft.sda); err != nil {
		return false, err
	}
	ft.wait()
	if err := ft.sclHigh(); err != nil {
		return false, err
	}
	hl, err := ft.GPIO.Get(ft.sda)
	if err != nil {
		return false, fmt.Errorf("failed to read SDA: %w", err)
	}
	return hl, ft.pull(ft.scl)
}

// Start generates a START condition, or a repeated START if the bus is held.
func (ft *FT232H) Start() error {
	if ft.scl == 0 || ft.sda == 0 {
		return ErrPinsNotSet
	}
	if ft.started {
		if err := ft.release(ft.sda); err != nil {
			return err
		}
		ft.wait()
		if err := ft.sclHigh(); err != nil {
			return err
		}
	}
	// SDA falls while SCL is high
	if err := ft.pull(ft.sda); err != nil {
		return err
	}
	ft.wait()
	if err := ft.pull(ft.scl); err != nil {
		return err
	}
	ft.started = true
	return nil
}

// Stop generates a STOP condition: SDA rises while SCL is high.
func (ft *FT232H) Stop() error {
	if ft.scl == 0 || ft.sda == 0 {
		return ErrPinsNotSet
	}
	ft.started = false
	if err := ft.pull(ft.sda); err != nil {
		return err
	}
	ft.wait()
	if err := ft.sclHigh(); err != nil {
		return err
	}
	if err := ft.release(ft.sda); err != nil {
		return err
	}
	ft.wait()
	return nil
}

// SendByte clocks b out MSB first and reads the acknowledge bit.
func (ft *FT232H) SendByte(b byte) error {
	for i := 7; i >= 0; i-- {
		if err := ft.writeBit(b>>i&1 == 1); err != nil {
			return err
		}
	}
	nack, err := ft.readBit()
	if err != nil {
		return err
	}
	if nack {
		return i2cwire.ErrNACK
	}
	return nil
}

// ReceiveByte clocks one byte in MSB first, then sends ACK if ack is set or NACK otherwise.
func (ft *FT232H) ReceiveByte(ack bool) (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		hl, err := ft.readBit()
		if err != nil {
			return b, err
		}
		b <<= 1
		if hl {
			b |= 1
		}
	}
	return b, ft.writeBit(!ack)
}
