package ad7147

// writeRegister sends one write transaction: register pointer then value, both MSB first.
func (dev *AD7147) writeRegister(reg Register, value uint16) error {
	hi, lo := Split16(value)

	dev.wire.Begin(dev.addr)
	dev.wire.Queue(reg.Hi())
	dev.wire.Queue(reg.Lo())
	dev.wire.Queue(hi)
	dev.wire.Queue(lo)
	status := dev.wire.End(false)

	// internal write completion, regardless of outcome
	dev.delay.Delay(dev.settle)

	if status != StatusOK {
		err := dev.transportErr("write", reg, status)
		dev.log.Warn().Err(err).Uint16("value", value).Msg("register write failed")
		return err
	}

	dev.log.Trace().Stringer("reg", reg).Uint16("value", value).Msg("wrote register")
	return nil
}

// readRegister sets the register pointer, holds the bus with a repeated start
// and reads the two value bytes, MSB first.
//
// Both bytes must be available once the request returns; anything less fails
// the whole read instead of yielding a half-assembled value.
func (dev *AD7147) readRegister(reg Register) (uint16, error) {
	dev.wire.Begin(dev.addr)
	dev.wire.Queue(reg.Hi())
	dev.wire.Queue(reg.Lo())
	status := dev.wire.End(true)

	dev.delay.Delay(dev.settle)

	// the value request always follows, whatever the pointer phase reported
	dev.wire.Request(dev.addr, 2)

	if status != StatusOK {
		dev.drain(dev.wire.Available())
		err := dev.transportErr("read", reg, status)
		dev.log.Warn().Err(err).Msg("register pointer write failed")
		return 0, err
	}

	if n := dev.wire.Available(); n < 2 {
		dev.drain(n)
		err := dev.transportErr("read", reg, ErrShortRead)
		dev.log.Warn().Err(err).Msg("register read failed")
		return 0, err
	}

	var buf [2]byte
	buf[0] = dev.wire.Receive()
	buf[1] = dev.wire.Receive()
	value := Join16(buf[:])

	dev.log.Trace().Stringer("reg", reg).Uint16("value", value).Msg("read register")
	return value, nil
}

// drain discards n received bytes so they cannot leak into the next read.
func (dev *AD7147) drain(n int) {
	for ; n > 0; n-- {
		_ = dev.wire.Receive()
	}
}
