package ad7147

// Join16 interprets two bytes, MSB first, as an unsigned 16-bit register value.
func Join16(data []byte) uint16 {
	// data[0] is the high byte
	return uint16(data[0])<<8 | uint16(data[1])
}

// Split16 returns the high and low bytes of v.
func Split16(v uint16) (hi, lo byte) {
	return byte(v >> 8 & 0xFF), byte(v & 0xFF)
}

// SingleEndedConnection builds the STAGEx_CONNECTION[6:0] and [12:7] values that
// route input pin to the positive CDC input.
//
// Inputs listed in active belong to other stages and are left unconnected; every
// other input is tied to bias. The high register selects single-ended positive
// setup with both AFE offsets enabled.
func SingleEndedConnection(pin int, active []int) (conn60, conn127 uint16) {
	var codes [NumInputs]uint16
	for i := range codes {
		codes[i] = CINBias
	}
	for _, a := range active {
		if a >= 0 && a < NumInputs {
			codes[a] = CINUnconnected
		}
	}
	if pin >= 0 && pin < NumInputs {
		codes[pin] = CINPositive
	}

	// bits 15:14 of [6:0] are unused and read back set
	conn60 = 0xC000
	for i := 0; i < 7; i++ {
		conn60 |= codes[i] << (2 * i)
	}
	conn127 = ConnSESetupPos
	for i := 7; i < NumInputs; i++ {
		conn127 |= codes[i] << (2 * (i - 7))
	}
	return conn60, conn127
}
