package ad7147

import (
	"fmt"
	"github.com/rs/zerolog"
	"sync"
	"time"
)

// Wire is the byte-oriented two-wire bus transport the driver is built on.
//
// A write is Begin, one or more Queue calls, then End. Passing hold=true to End
// issues a repeated start instead of a stop so that a following Request reads
// from the same device without releasing the bus.
type Wire interface {
	// Begin opens a transaction to the device at the 7-bit address addr.
	Begin(addr uint8)
	// Queue appends one byte to the outgoing frame.
	Queue(b byte)
	// End sends the queued frame. A non-zero Status signals a NACK or bus error.
	End(hold bool) Status
	// Request reads count bytes from the device into the receive buffer and
	// returns how many arrived.
	Request(addr uint8, count int) int
	// Available reports how many received bytes have not been consumed.
	Available() int
	// Receive consumes the next received byte.
	Receive() byte
}

// Delayer is the blocking delay primitive.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a function to a [Delayer].
type DelayFunc func(d time.Duration)

func (f DelayFunc) Delay(d time.Duration) { f(d) }

// Sleep is the default [Delayer], backed by [time.Sleep].
var Sleep Delayer = DelayFunc(time.Sleep)

// AD7147 provides register access to an Analog Devices AD7147 CapTouch controller.
//
// It keeps no copy of register contents: every read goes to the device.
type AD7147 struct {
	mu   sync.Mutex // one bus transaction at a time
	wire Wire

	addr   uint8
	settle time.Duration
	delay  Delayer
	log    zerolog.Logger
}

// Config represents user-level configuration parameters
type Config struct {
	Address     uint8         // 7-bit bus address
	SettleDelay time.Duration // wait after every transaction
	Delay       Delayer       // nil means [Sleep]
	Logger      *zerolog.Logger
}

// DefaultConfig provides default config. You can adjust as needed
func DefaultConfig() Config {
	return Config{
		Address:     Address,
		SettleDelay: 1 * time.Millisecond,
		Delay:       Sleep,
	}
}

// NewAD7147 constructs an AD7147 on the given bus transport.
// Zero fields of cfg fall back to [DefaultConfig].
func NewAD7147(w Wire, cfg Config) *AD7147 {
	def := DefaultConfig()
	if cfg.Address == 0 {
		cfg.Address = def.Address
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = def.SettleDelay
	}
	if cfg.Delay == nil {
		cfg.Delay = def.Delay
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &AD7147{
		wire:   w,
		addr:   cfg.Address,
		settle: cfg.SettleDelay,
		delay:  cfg.Delay,
		log:    logger.With().Str("caller", "ad7147").Logger(),
	}
}

// BusAddress returns the 7-bit address the driver talks to.
func (dev *AD7147) BusAddress() uint8 {
	return dev.addr
}

// Sleep blocks on the driver's delay primitive.
func (dev *AD7147) Sleep(d time.Duration) {
	dev.delay.Delay(d)
}

// WriteRegister writes value to reg. A failed write is returned, never retried.
func (dev *AD7147) WriteRegister(reg Register, value uint16) error {
	dev.mu.Lock()
	err := dev.writeRegister(reg, value)
	dev.mu.Unlock()
	return err
}

// ReadRegister reads the 16-bit value of reg.
func (dev *AD7147) ReadRegister(reg Register) (uint16, error) {
	dev.mu.Lock()
	v, err := dev.readRegister(reg)
	dev.mu.Unlock()
	return v, err
}

// Read is [AD7147.ReadRegister] folded into a [Result].
func (dev *AD7147) Read(reg Register) Result {
	v, err := dev.ReadRegister(reg)
	return Result{Register: reg, Value: v, Err: err}
}

// DeviceID reads DEVICE_ID and checks the part number.
func (dev *AD7147) DeviceID() (part uint16, revision uint8, err error) {
	v, err := dev.ReadRegister(RegDeviceID)
	if err != nil {
		return 0, 0, err
	}
	part, revision = v>>4, uint8(v&0x0F)
	if part != DeviceIDPart {
		return part, revision, fmt.Errorf("%w: DEVICE_ID part 0x%03X", ErrUnexpectedDevice, part)
	}
	return part, revision, nil
}

// InterruptStatus reads the three stage interrupt status registers.
// Reading clears them on the device.
func (dev *AD7147) InterruptStatus() (low, high, complete uint16, err error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if low, err = dev.readRegister(RegStageLowIntStatus); err != nil {
		return
	}
	if high, err = dev.readRegister(RegStageHighIntStatus); err != nil {
		return
	}
	complete, err = dev.readRegister(RegStageCompleteIntStatus)
	return
}
