package ad7147

import (
	"sync"
	"time"
)

// Transfer is one bus operation observed by a [Simulator].
type Transfer struct {
	Addr   uint8
	Write  []byte // bytes sent, for End
	Hold   bool   // End with repeated start
	Read   int    // bytes requested, for Request
	Status Status
}

// Simulator is an in-memory AD7147 register file that speaks the [Wire]
// protocol. It also implements [Delayer] by recording delays without sleeping.
//
// Writes of more than one value and reads of more than one word auto-increment
// the register pointer as the device does. The interrupt status registers
// clear when read.
type Simulator struct {
	mu sync.Mutex

	Addr uint8

	// Fail, if set, is consulted at every End with the zero-based index of the
	// End call. A non-zero Status fails that transfer without side effects.
	Fail func(n int, t Transfer) Status

	// RxLimit caps the bytes delivered per Request. Negative means no cap.
	RxLimit int

	// OnDelay, if set, is called after each recorded delay.
	OnDelay func(d time.Duration)

	// MaxLog keeps only the most recent MaxLog entries of each log. Zero keeps everything.
	MaxLog int

	regs      map[Register]uint16
	transfers []Transfer
	writes    []ConfigEntry
	delays    []time.Duration

	txAddr uint8
	tx     []byte
	ends   int
	ptr    Register
	rx     []byte
}

// NewSimulator returns a powered-up device at addr.
func NewSimulator(addr uint8) *Simulator {
	s := &Simulator{
		Addr:    addr,
		RxLimit: -1,
		regs:    make(map[Register]uint16),
	}
	s.regs[RegDeviceID] = DeviceIDPart<<4 | 0x2
	return s
}

// Set stores v in reg without a bus transaction.
func (s *Simulator) Set(reg Register, v uint16) {
	s.mu.Lock()
	s.regs[reg] = v
	s.mu.Unlock()
}

// Get returns the stored value of reg without a bus transaction.
func (s *Simulator) Get(reg Register) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg]
}

// Transfers returns a copy of the transfer log.
func (s *Simulator) Transfers() []Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Transfer(nil), s.transfers...)
}

// Writes returns the register writes committed so far, in order.
func (s *Simulator) Writes() []ConfigEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ConfigEntry(nil), s.writes...)
}

// Delays returns the delays recorded so far.
func (s *Simulator) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// Reset clears the logs, keeping register contents.
func (s *Simulator) Reset() {
	s.mu.Lock()
	s.transfers, s.writes, s.delays = nil, nil, nil
	s.ends = 0
	s.mu.Unlock()
}

func (s *Simulator) Begin(addr uint8) {
	s.mu.Lock()
	s.txAddr = addr
	s.tx = s.tx[:0]
	s.mu.Unlock()
}

func (s *Simulator) Queue(b byte) {
	s.mu.Lock()
	s.tx = append(s.tx, b)
	s.mu.Unlock()
}

func (s *Simulator) End(hold bool) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Transfer{Addr: s.txAddr, Write: append([]byte(nil), s.tx...), Hold: hold}
	n := s.ends
	s.ends++

	switch {
	case s.txAddr != s.Addr:
		t.Status = StatusAddressNACK
	case s.Fail != nil:
		t.Status = s.Fail(n, t)
	}
	s.transfers = trim(append(s.transfers, t), s.MaxLog)
	if t.Status != StatusOK {
		return t.Status
	}

	if len(t.Write) < 2 {
		return StatusOK
	}
	s.ptr = Register(Join16(t.Write))
	for data := t.Write[2:]; len(data) >= 2; data = data[2:] {
		v := Join16(data)
		s.regs[s.ptr] = v
		s.writes = trim(append(s.writes, ConfigEntry{Register: s.ptr, Value: v}), s.MaxLog)
		s.ptr++
	}
	return StatusOK
}

func (s *Simulator) Request(addr uint8, count int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rx = s.rx[:0]
	t := Transfer{Addr: addr, Read: count}
	if addr != s.Addr {
		t.Status = StatusAddressNACK
		s.transfers = trim(append(s.transfers, t), s.MaxLog)
		return 0
	}
	s.transfers = trim(append(s.transfers, t), s.MaxLog)

	for len(s.rx) < count {
		v := s.regs[s.ptr]
		switch s.ptr {
		case RegStageLowIntStatus, RegStageHighIntStatus, RegStageCompleteIntStatus:
			s.regs[s.ptr] = 0
		}
		s.ptr++
		hi, lo := Split16(v)
		s.rx = append(s.rx, hi, lo)
	}
	s.rx = s.rx[:count]
	if s.RxLimit >= 0 && len(s.rx) > s.RxLimit {
		s.rx = s.rx[:s.RxLimit]
	}
	return len(s.rx)
}

func (s *Simulator) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rx)
}

func (s *Simulator) Receive() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rx) == 0 {
		return 0xFF
	}
	b := s.rx[0]
	s.rx = s.rx[1:]
	return b
}

func (s *Simulator) Delay(d time.Duration) {
	s.mu.Lock()
	s.delays = trim(append(s.delays, d), s.MaxLog)
	hook := s.OnDelay
	s.mu.Unlock()
	if hook != nil {
		hook(d)
	}
}

// trim drops the oldest entries of log beyond limit, reusing its backing array.
func trim[T any](log []T, limit int) []T {
	if limit <= 0 || len(log) <= limit {
		return log
	}
	return append(log[:0], log[len(log)-limit:]...)
}
